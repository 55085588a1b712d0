package taskstore

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/YevheniiMelnikov/gymai-progress/pkg/log"
)

// Janitor periodically purges task ids that have gone stale in the store.
type Janitor struct {
	purger Purger
	expr   string
	ttl    time.Duration
	cron   *cron.Cron
}

func NewJanitor(purger Purger, cronExpr string, ttl time.Duration) *Janitor {
	return &Janitor{
		purger: purger,
		expr:   cronExpr,
		ttl:    ttl,
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		))),
	}
}

func (j *Janitor) Start() error {
	entryID, err := j.cron.AddFunc(j.expr, j.purge)
	if err != nil {
		return fmt.Errorf("invalid janitor cron expression %q: %w", j.expr, err)
	}
	j.cron.Start()
	log.Info("Task janitor scheduled (%s), next run %s", j.expr, j.cron.Entry(entryID).Next.Format(time.RFC3339))
	return nil
}

func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *Janitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := j.purger.PurgeOlderThan(ctx, j.ttl)
	if err != nil {
		log.Error("Task janitor purge failed: %v", err)
		return
	}
	if removed > 0 {
		log.Info("Task janitor removed %d stale task id(s)", removed)
	}
}
