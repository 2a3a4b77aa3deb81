package harvest

import (
	"context"
	"log/slog"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/takatori/threadsearch/internal/errors"
)

// Updater re-harvests every tracked thread on a fixed interval.
type Updater struct {
	harvester *Harvester
	store     ItemStore
	interval  time.Duration
}

func NewUpdater(harvester *Harvester, st ItemStore, interval time.Duration) *Updater {
	return &Updater{
		harvester: harvester,
		store:     st,
		interval:  interval,
	}
}

// Run ticks once immediately and then every interval until ctx is done.
// A failing thread is logged and retried on the next tick only.
func (u *Updater) Run(ctx context.Context) error {
	if u.interval <= 0 {
		return failure.New(
			errors.ErrInvalidArgument,
			failure.Field(failure.Message("update interval must be positive")),
			failure.Context{
				"interval": u.interval.String(),
			},
		)
	}

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		u.Tick(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick harvests each tracked thread once and returns the successful reports.
func (u *Updater) Tick(ctx context.Context) []Report {
	threads, err := u.store.Threads(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tracked threads", "err", err)
		return nil
	}

	var reports []Report
	for _, thread := range threads {
		if ctx.Err() != nil {
			break
		}
		report, err := u.harvester.Run(ctx, thread)
		if err != nil {
			slog.WarnContext(ctx, "failed to update thread", "thread", thread, "err", err)
			continue
		}
		reports = append(reports, report)
	}
	return reports
}
