package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const maxConcurrentRepairs = 4

// IntegrityReport summarizes one consistency sweep over all profiles.
type IntegrityReport struct {
	Mismatches int
	Repaired   int
}

// CheckIntegrity verifies that every profile's collection score equals the
// sum of stars over that user's cards, repairing any drift from the cards
// relation. The cards relation is the source of truth.
func (e *Engine) CheckIntegrity(ctx context.Context) (*IntegrityReport, error) {
	mismatches, err := e.cards.FindScoreMismatches(ctx)
	if err != nil {
		return nil, &StorageError{Op: "integrity check", Err: err}
	}

	report := &IntegrityReport{Mismatches: len(mismatches)}
	if len(mismatches) == 0 {
		return report, nil
	}

	slog.Warn("Collection score drift detected",
		slog.String("type", "db"),
		slog.Int("mismatches", len(mismatches)))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(maxConcurrentRepairs)

	for _, m := range mismatches {
		m := m
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			return e.cards.RepairScore(gctx, m.DiscordID)
		})
	}

	if err := g.Wait(); err != nil {
		return report, &StorageError{Op: "integrity repair", Err: err}
	}

	report.Repaired = len(mismatches)
	e.cache.Purge()
	return report, nil
}

// StartIntegrityRoutine runs CheckIntegrity on a fixed schedule until the
// context is cancelled.
func (e *Engine) StartIntegrityRoutine(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkCtx, cancel := context.WithTimeout(ctx, time.Minute)
				report, err := e.CheckIntegrity(checkCtx)
				cancel()
				if err != nil {
					slog.Error("Integrity sweep failed",
						slog.String("type", "db"),
						slog.Any("error", err))
					continue
				}
				if report.Mismatches > 0 {
					slog.Info("Integrity sweep repaired scores",
						slog.String("type", "db"),
						slog.Int("repaired", report.Repaired))
				}
			}
		}
	}()
}
