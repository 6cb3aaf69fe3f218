package utils

import (
	"context"
	"log"
	"strings"
	"time"

	"wordquest/services"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 2 * time.Minute

// StreakSweeper is the part of the streak service the scheduler drives
type StreakSweeper interface {
	SweepExpiredStreaks(ctx context.Context) (int64, error)
}

var _ StreakSweeper = (*services.StreakService)(nil)

// InitializeStreakScheduler starts the nightly sweep that zeroes lapsed
// streaks. schedule is a five field cron expression; "off" or "" disables it.
// The returned cron is nil when disabled.
func InitializeStreakScheduler(schedule string, sweeper StreakSweeper) (*cron.Cron, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" || strings.EqualFold(schedule, "off") {
		log.Println("[STREAK-SCHEDULER] Disabled")
		return nil, nil
	}
	log.Println("[STREAK-SCHEDULER] Initializing streak scheduler...")

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		log.Println("[STREAK-SCHEDULER] Running streak expiry sweep...")
		RunStreakSweep(sweeper)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[STREAK-SCHEDULER] Streak scheduler started - runs at %q", schedule)
	return c, nil
}

// RunStreakSweep performs one sweep and logs its outcome
func RunStreakSweep(sweeper StreakSweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := sweeper.SweepExpiredStreaks(ctx)
	if err != nil {
		log.Printf("[STREAK-SCHEDULER] Error sweeping streaks: %v", err)
		return
	}
	log.Printf("[STREAK-SCHEDULER] Reset %d expired streaks", n)
}
