package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/YevheniiMelnikov/gymai-progress/internal/config"
	"github.com/YevheniiMelnikov/gymai-progress/internal/generation"
	"github.com/YevheniiMelnikov/gymai-progress/internal/i18n"
	"github.com/YevheniiMelnikov/gymai-progress/internal/notify"
	"github.com/YevheniiMelnikov/gymai-progress/internal/statusapi"
	"github.com/YevheniiMelnikov/gymai-progress/internal/taskstore"
	"github.com/YevheniiMelnikov/gymai-progress/pkg/log"
)

func main() {
	feature := flag.String("feature", "workout", "generation channel to track (workout or diet)")
	taskID := flag.String("task", "", "attach to an existing task id instead of requesting a new generation")
	flag.Parse()

	_ = godotenv.Load()
	log.InitLogger(log.ParseLevel(os.Getenv("GYMAI_LOG_LEVEL")))

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	store, err := taskstore.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		log.Fatal("Failed to open task store: %v", err)
	}
	defer store.Close()

	client, err := statusapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		log.Fatal("Failed to create API client: %v", err)
	}

	msgs := i18n.ForLocale(cfg.Locale)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn("Telegram notifications disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	janitor := taskstore.NewJanitor(store, cfg.Store.JanitorCron, cfg.Store.TaskTTL)
	if err := janitor.Start(); err != nil {
		log.Warn("Task janitor not started: %v", err)
	} else {
		defer janitor.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	tracker := generation.NewTracker(*feature, client, store,
		generation.WithPollInterval(cfg.Tracker.PollInterval),
		generation.WithTrickleInterval(cfg.Tracker.TrickleInterval),
		generation.WithOnComplete(func(status statusapi.JobStatus) {
			text := msgs.PlanReady(*feature)
			log.Info("%s (result %s)", text, status.ResultID)
			if err := notifier.Notify(text); err != nil {
				log.Warn("Failed to send completion notification: %v", err)
			}
			close(done)
		}),
		generation.WithOnFailure(func(ev generation.FailureEvent) {
			text := msgs.GenerationFailed(ev)
			log.Error("%s", text)
			if err := notifier.Notify(text); err != nil {
				log.Warn("Failed to send failure notification: %v", err)
			}
			close(done)
		}),
	)
	defer tracker.Close()

	if !tracker.Snapshot().Active {
		id := *taskID
		if id == "" {
			id, err = client.RequestGeneration(ctx, *feature, nil)
			if err != nil {
				log.Fatal("Failed to request generation: %v", err)
			}
			log.Info("Backend accepted %s generation, task %s", *feature, id)
		}
		tracker.Start(id)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-done:
				return nil
			case <-ticker.C:
				snap := tracker.Snapshot()
				if snap.Active {
					log.Info("%s: %.1f%% (%s)", *feature, snap.Progress, msgs.StageLabel(snap.Stage))
				}
			}
		}
	})
	_ = g.Wait()
}
