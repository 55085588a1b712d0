package generation

import (
	"context"
	"sync"
	"time"

	"github.com/YevheniiMelnikov/gymai-progress/internal/statusapi"
	"github.com/YevheniiMelnikov/gymai-progress/internal/taskstore"
	"github.com/YevheniiMelnikov/gymai-progress/pkg/log"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultTrickleInterval = 200 * time.Millisecond

	// Trickle motion stops here; only a confirmed success shows 100.
	trickleCeiling = 95.0

	storageKeyPrefix = "generation_task_id_"
)

// StatusFetcher reports the state of a generation job. Implemented by
// statusapi.Client; tests substitute fakes.
type StatusFetcher interface {
	GenerationStatus(ctx context.Context, taskID string) (*statusapi.JobStatus, error)
}

type CompleteFunc func(status statusapi.JobStatus)

type FailureFunc func(ev FailureEvent)

// Tracker follows one generation job per channel ("workout", "diet"),
// polling the backend for status and trickling a display progress value
// between polls so the bar never looks frozen.
//
// All mutation funnels through the one mutex: poll completions and trickle
// ticks apply their updates under it, and a per-job generation counter
// discards responses that resolve after the job they belong to is gone.
type Tracker struct {
	channel string
	fetcher StatusFetcher
	store   taskstore.KV

	pollInterval    time.Duration
	trickleInterval time.Duration
	onComplete      CompleteFunc
	onFailure       FailureFunc

	mu             sync.Mutex
	state          State
	taskID         string
	progress       float64
	stage          string
	failureEmitted bool
	generation     uint64
	cancel         context.CancelFunc
}

type Option func(*Tracker)

func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

func WithTrickleInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.trickleInterval = d
		}
	}
}

// WithOnComplete registers a callback invoked exactly once per successful
// job with the final status payload.
func WithOnComplete(fn CompleteFunc) Option {
	return func(t *Tracker) { t.onComplete = fn }
}

// WithOnFailure registers a callback invoked at most once per failed job.
func WithOnFailure(fn FailureFunc) Option {
	return func(t *Tracker) { t.onFailure = fn }
}

// NewTracker builds a tracker for one channel. If the store holds a task id
// for that channel, polling resumes immediately for the recovered job; the
// display progress restarts at zero.
func NewTracker(channel string, fetcher StatusFetcher, store taskstore.KV, opts ...Option) *Tracker {
	t := &Tracker{
		channel:         channel,
		fetcher:         fetcher,
		store:           store,
		pollInterval:    defaultPollInterval,
		trickleInterval: defaultTrickleInterval,
		state:           StateIdle,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.resume()
	return t
}

func (t *Tracker) storageKey() string {
	return storageKeyPrefix + t.channel
}

func (t *Tracker) resume() {
	taskID, err := t.store.Get(context.Background(), t.storageKey())
	if err != nil {
		log.Warn("Failed to read persisted task id for %s: %v", t.channel, err)
		return
	}
	if taskID == "" {
		return
	}
	log.Info("Resuming %s generation task %s", t.channel, taskID)
	t.begin(taskID, false)
}

// Start begins tracking a new job. Calling it while another job is tracked
// on the same channel replaces that job; the old loops are torn down and
// their late responses discarded.
func (t *Tracker) Start(taskID string) {
	if taskID == "" {
		return
	}
	t.begin(taskID, true)
}

func (t *Tracker) begin(taskID string, persist bool) {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	prevCancel := t.cancel
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.state = StatePolling
	t.taskID = taskID
	t.progress = 0
	t.stage = StageQueued
	t.failureEmitted = false
	t.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
	}
	if persist {
		if err := t.store.Set(context.Background(), t.storageKey(), taskID); err != nil {
			log.Warn("Failed to persist task id for %s: %v", t.channel, err)
		}
	}

	go t.pollLoop(ctx, gen, taskID)
	go t.trickleLoop(ctx, gen)
}

// Reset forcibly returns the tracker to Idle, discarding any in-flight
// polling and the persisted task id. Idempotent.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.generation++
	cancel := t.cancel
	t.cancel = nil
	t.state = StateIdle
	t.taskID = ""
	t.progress = 0
	t.stage = ""
	t.failureEmitted = false
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.clearPersisted()
}

// Close stops both loops without touching the persisted task id, mirroring
// the owning view being torn down: a tracker constructed later for the same
// channel resumes the job.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.generation++
	cancel := t.cancel
	t.cancel = nil
	if t.state == StatePolling {
		t.state = StateIdle
	}
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Snapshot returns the current observable state. Active is true only while
// the tracker is polling.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Progress: t.progress,
		Active:   t.state == StatePolling,
		Stage:    t.stage,
	}
}

// TaskID returns the id of the currently tracked job, or "" when idle.
func (t *Tracker) TaskID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.taskID
}

func (t *Tracker) pollLoop(ctx context.Context, gen uint64, taskID string) {
	t.pollOnce(ctx, gen, taskID)

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Each tick polls independently; a slow response does not
			// delay the next one. The generation check in apply keeps
			// late resolutions from touching a newer job.
			go t.pollOnce(ctx, gen, taskID)
		}
	}
}

func (t *Tracker) pollOnce(ctx context.Context, gen uint64, taskID string) {
	status, err := t.fetcher.GenerationStatus(ctx, taskID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		t.fail(gen, status)
		return
	}
	t.apply(gen, status)
}

func (t *Tracker) apply(gen uint64, status *statusapi.JobStatus) {
	if status == nil {
		t.fail(gen, nil)
		return
	}

	switch status.Status {
	case statusapi.StatusSuccess:
		t.complete(gen, status)
	case statusapi.StatusError, statusapi.StatusUnknown:
		t.fail(gen, status)
	default:
		t.mu.Lock()
		if gen != t.generation || t.state != StatePolling {
			t.mu.Unlock()
			return
		}
		if status.Progress != nil && *status.Progress > t.progress {
			t.progress = *status.Progress
		}
		if status.Stage != "" {
			t.stage = status.Stage
		} else {
			t.stage = StageProcessing
		}
		t.mu.Unlock()
	}
}

func (t *Tracker) complete(gen uint64, status *statusapi.JobStatus) {
	t.mu.Lock()
	if gen != t.generation || t.state != StatePolling {
		t.mu.Unlock()
		return
	}
	t.generation++
	t.state = StateCompleted
	t.progress = 100
	t.stage = StageCompleted
	cancel := t.cancel
	t.cancel = nil
	done := t.onComplete
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.clearPersisted()
	log.Info("Generation task completed for %s (result %s)", t.channel, status.ResultID)
	if done != nil {
		done(*status)
	}
}

func (t *Tracker) fail(gen uint64, status *statusapi.JobStatus) {
	t.mu.Lock()
	if gen != t.generation || t.state != StatePolling {
		t.mu.Unlock()
		return
	}
	t.generation++
	t.state = StateFailed
	emit := !t.failureEmitted
	t.failureEmitted = true
	cancel := t.cancel
	t.cancel = nil
	notify := t.onFailure
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.clearPersisted()
	log.Warn("Generation task failed for %s", t.channel)
	if emit && notify != nil {
		notify(failureEvent(t.channel, status))
	}
}

func (t *Tracker) clearPersisted() {
	if err := t.store.Delete(context.Background(), t.storageKey()); err != nil {
		log.Warn("Failed to clear persisted task id for %s: %v", t.channel, err)
	}
}

func (t *Tracker) trickleLoop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(t.trickleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.trickle(gen)
		}
	}
}

func (t *Tracker) trickle(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation || t.state != StatePolling {
		return
	}
	if t.progress >= trickleCeiling {
		return
	}
	t.progress += trickleStep(t.progress)
	if t.progress > trickleCeiling {
		t.progress = trickleCeiling
	}
}

// trickleStep shrinks as the bar fills so motion stays visible without
// overpromising.
func trickleStep(progress float64) float64 {
	switch {
	case progress < 20:
		return 0.5
	case progress < 50:
		return 0.2
	default:
		return 0.05
	}
}

func failureEvent(feature string, status *statusapi.JobStatus) FailureEvent {
	ev := FailureEvent{Feature: feature}
	if status == nil {
		return ev
	}
	ev.ErrorCode = status.ErrorCode
	ev.Reason = status.Error
	if ev.Reason == "" {
		ev.Reason = status.Reason
	}
	ev.CorrelationID = status.CorrelationID
	if ev.CorrelationID == "" {
		ev.CorrelationID = status.RequestID
	}
	ev.CreditsRefunded = status.CreditsRefunded
	ev.SupportAvailable = status.SupportContactAction || status.SupportChatEnabled
	return ev
}
