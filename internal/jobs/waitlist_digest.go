// File: internal/jobs/waitlist_digest.go
package jobs

import (
	"context"
	"sort"
	"time"

	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/waitlist"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StatsSource provides the waitlist summary the digest reports on.
type StatsSource interface {
	Stats(ctx context.Context) (*waitlist.Stats, error)
}

// WaitlistDigestJob periodically logs a summary of the waitlist.
type WaitlistDigestJob struct {
	source        StatsSource
	logger        *zap.Logger
	schedule      string
	cronScheduler *cron.Cron
}

// NewWaitlistDigestJob creates a digest job on cfg.WaitlistDigestSchedule.
func NewWaitlistDigestJob(source StatsSource, logger *zap.Logger, cfg *config.Config) *WaitlistDigestJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)
	return &WaitlistDigestJob{
		source:        source,
		logger:        logger.Named("WaitlistDigestJob"),
		schedule:      cfg.WaitlistDigestSchedule,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules the digest and starts the scheduler. An empty schedule disables it.
func (j *WaitlistDigestJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Warn("Waitlist digest schedule not defined (WAITLIST_DIGEST_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.schedule, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule waitlist digest job", zap.String("schedule", j.schedule), zap.Error(err))
		return err
	}

	j.logger.Info("Waitlist digest job scheduled", zap.String("schedule", j.schedule), zap.Int("jobID", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

func (j *WaitlistDigestJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error("Waitlist digest run failed", zap.Error(err))
	}
}

// RunOnce computes and logs one digest.
func (j *WaitlistDigestJob) RunOnce(ctx context.Context) (*waitlist.Stats, error) {
	stats, err := j.source.Stats(ctx)
	if err != nil {
		return nil, err
	}

	today := 0
	if n := len(stats.DailyStats); n > 0 {
		today = stats.DailyStats[n-1].Count
	}
	j.logger.Info("Waitlist digest",
		zap.Int("total", stats.Total),
		zap.Int("users", stats.Users),
		zap.Int("providers", stats.Providers),
		zap.Int("joinedToday", today),
		zap.Strings("topLocations", TopLocations(stats.ByLocation, 3)),
	)
	return stats, nil
}

// TopLocations returns up to n location slugs with the most signups. Ties sort by name.
func TopLocations(byLocation map[string]int, n int) []string {
	slugs := make([]string, 0, len(byLocation))
	for s := range byLocation {
		slugs = append(slugs, s)
	}
	sort.Slice(slugs, func(a, b int) bool {
		if byLocation[slugs[a]] != byLocation[slugs[b]] {
			return byLocation[slugs[a]] > byLocation[slugs[b]]
		}
		return slugs[a] < slugs[b]
	})
	if len(slugs) > n {
		slugs = slugs[:n]
	}
	return slugs
}

// Stop stops the scheduler and waits for a running digest to finish.
func (j *WaitlistDigestJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping waitlist digest scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Waitlist digest scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Waitlist digest scheduler stop timed out.")
	}
}
