package generation

// State is the lifecycle phase of the tracked job. Completed and Failed are
// terminal for one job instance; Start accepts a new job from any state.
type State string

const (
	StateIdle      State = "idle"
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Default stage labels used when the backend does not supply one.
const (
	StageQueued     = "queued"
	StageProcessing = "processing"
	StageCompleted  = "completed"
)

// Snapshot is the read-only view the UI renders from.
type Snapshot struct {
	Progress float64
	Active   bool
	Stage    string
}

// FailureEvent is emitted at most once per job lifecycle when the job ends
// in failure. Fields beyond Feature are best-effort, derived from the last
// response body when one was present.
type FailureEvent struct {
	Feature          string
	ErrorCode        string
	Reason           string
	CorrelationID    string
	CreditsRefunded  bool
	SupportAvailable bool
}
