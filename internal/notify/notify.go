package notify

// Notifier delivers a user-facing message about a finished generation.
type Notifier interface {
	Notify(text string) error
}

// Nop is used when no delivery channel is configured.
type Nop struct{}

func (Nop) Notify(string) error { return nil }
