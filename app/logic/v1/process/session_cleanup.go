package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/leli-rentals/leli-assist/app/store"
	"github.com/leli-rentals/leli-assist/pkg/register"
	"github.com/leli-rentals/leli-assist/pkg/safe"
)

const cleanupBatchSize = 200

type SessionCleanup struct {
	stores        store.Store
	retentionDays int
}

func NewSessionCleanup(stores store.Store, retentionDays int) *SessionCleanup {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &SessionCleanup{
		stores:        stores,
		retentionDays: retentionDays,
	}
}

// Run deletes conversations created before the retention cutoff along
// with their messages. Each session goes in its own transaction so a
// failure leaves the rest of the batch unaffected.
func (c *SessionCleanup) Run(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.AddDate(0, 0, -c.retentionDays)
	deleted := 0

	for {
		// Always re-read the first page, deletions shift the window.
		sessions, err := c.stores.ChatSessionStore().ListBeforeTime(ctx, cutoff, 1, cleanupBatchSize)
		if err != nil {
			return deleted, err
		}
		if len(sessions) == 0 {
			break
		}

		for _, session := range sessions {
			err = c.stores.Transaction(ctx, func(ctx context.Context) error {
				if err := c.stores.ChatMessageStore().DeleteBySession(ctx, session.ID); err != nil {
					return err
				}
				return c.stores.ChatSessionStore().Delete(ctx, session.ID)
			})
			if err != nil {
				slog.Error("session cleanup failed to delete session",
					slog.String("session_id", session.ID),
					slog.Any("error", err))
				return deleted, err
			}
			deleted++
		}
	}

	if deleted > 0 {
		slog.Info("session cleanup finished",
			slog.Int("deleted", deleted),
			slog.Time("cutoff", cutoff))
	}
	return deleted, nil
}

func init() {
	register.RegisterFunc(ProcessKey{}, func(provider *Process) {
		cfg := provider.Core().Cfg().Assistant
		provider.Cron().AddFunc(cfg.CleanupCron, func() {
			safe.Run(func() {
				cleanup := NewSessionCleanup(provider.Core().Store(), cfg.SessionRetentionDays)
				if _, err := cleanup.Run(context.Background(), time.Now()); err != nil {
					slog.Error("session cleanup run failed", slog.Any("error", err))
				}
			})
		})
	})
}
