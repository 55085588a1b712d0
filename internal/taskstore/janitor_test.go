package taskstore

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeOlderThan(_ context.Context, _ time.Duration) (int64, error) {
	p.calls.Add(1)
	return 0, nil
}

func TestJanitor_RunsOnSchedule(t *testing.T) {
	purger := &countingPurger{}
	janitor := NewJanitor(purger, "@every 1s", time.Hour)

	require.NoError(t, janitor.Start())
	defer janitor.Stop()

	require.Eventually(t, func() bool {
		return purger.calls.Load() >= 2
	}, 5*time.Second, 50*time.Millisecond)
}

func TestJanitor_RejectsInvalidExpression(t *testing.T) {
	janitor := NewJanitor(&countingPurger{}, "not a cron expr", time.Hour)
	require.Error(t, janitor.Start())
}
