package i18n

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/YevheniiMelnikov/gymai-progress/internal/generation"
)

// Supported locales, in preference order. English is the fallback.
var supported = []language.Tag{
	language.English,
	language.Russian,
	language.Ukrainian,
}

var matcher = language.NewMatcher(supported)

// Messages resolves user-facing copy for one locale.
type Messages struct {
	tag language.Tag
}

// ForLocale picks the best supported locale for a BCP 47 tag like "ru" or
// "uk-UA". Unknown locales fall back to English.
func ForLocale(locale string) *Messages {
	tag, err := language.Parse(locale)
	if err != nil {
		return &Messages{tag: language.English}
	}
	_, idx, _ := matcher.Match(tag)
	return &Messages{tag: supported[idx]}
}

func (m *Messages) Locale() language.Tag {
	return m.tag
}

var stageLabels = map[language.Tag]map[string]string{
	language.English: {
		generation.StageQueued:     "Waiting in queue",
		generation.StageProcessing: "Generating your plan",
		generation.StageCompleted:  "Done",
	},
	language.Russian: {
		generation.StageQueued:     "Ожидание в очереди",
		generation.StageProcessing: "Генерируем ваш план",
		generation.StageCompleted:  "Готово",
	},
	language.Ukrainian: {
		generation.StageQueued:     "Очікування в черзі",
		generation.StageProcessing: "Генеруємо ваш план",
		generation.StageCompleted:  "Готово",
	},
}

// StageLabel translates a stage reported by the backend. Stages the catalog
// does not know are shown as-is.
func (m *Messages) StageLabel(stage string) string {
	if label, ok := stageLabels[m.tag][stage]; ok {
		return label
	}
	return stage
}

var planReady = map[language.Tag]map[string]string{
	language.English: {
		"workout": "Your workout plan is ready!",
		"diet":    "Your diet plan is ready!",
	},
	language.Russian: {
		"workout": "Ваш план тренировок готов!",
		"diet":    "Ваш план питания готов!",
	},
	language.Ukrainian: {
		"workout": "Ваш план тренувань готовий!",
		"diet":    "Ваш план харчування готовий!",
	},
}

func (m *Messages) PlanReady(feature string) string {
	if msg, ok := planReady[m.tag][feature]; ok {
		return msg
	}
	return planReady[language.English]["workout"]
}

var failureBase = map[language.Tag]string{
	language.English:   "Generation failed. Please try again.",
	language.Russian:   "Генерация не удалась. Попробуйте ещё раз.",
	language.Ukrainian: "Генерація не вдалася. Спробуйте ще раз.",
}

var failureRefunded = map[language.Tag]string{
	language.English:   "Your credits have been refunded.",
	language.Russian:   "Кредиты возвращены на ваш счёт.",
	language.Ukrainian: "Кредити повернено на ваш рахунок.",
}

var failureSupport = map[language.Tag]string{
	language.English:   "Contact support if the problem persists.",
	language.Russian:   "Обратитесь в поддержку, если проблема повторится.",
	language.Ukrainian: "Зверніться до підтримки, якщо проблема повториться.",
}

// GenerationFailed builds the failure modal copy for a failure event,
// reflecting credit refunds and support availability.
func (m *Messages) GenerationFailed(ev generation.FailureEvent) string {
	msg := failureBase[m.tag]
	if ev.CreditsRefunded {
		msg += " " + failureRefunded[m.tag]
	}
	if ev.SupportAvailable {
		msg += " " + failureSupport[m.tag]
	}
	if ev.CorrelationID != "" {
		msg += fmt.Sprintf(" (ref: %s)", ev.CorrelationID)
	}
	return msg
}
