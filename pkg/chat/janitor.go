package chat

import (
	"context"
	"time"

	"github.com/adhocore/gronx"

	"github.com/hotaru-ai/promptchat/pkg/logger"
)

// RunJanitor evicts expired sessions and enforces the capacity cap on the
// configured cron schedule. The schedule is checked once per minute; an
// invalid expression falls back to every minute. Blocks until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, schedule string) {
	gron := gronx.New()
	if !gron.IsValid(schedule) {
		logger.WarnCF("janitor", "Invalid cron schedule, running every minute", map[string]interface{}{
			"schedule": schedule,
		})
		schedule = "* * * * *"
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due, err := gron.IsDue(schedule, now)
			if err != nil || !due {
				continue
			}
			expired := s.store.CleanupExpired()
			evicted := s.store.EnforceCapacity()
			if expired+evicted > 0 {
				logger.InfoCF("janitor", "Session cleanup", map[string]interface{}{
					"expired": expired,
					"evicted": evicted,
					"active":  s.store.Len(),
				})
			}
		}
	}
}
