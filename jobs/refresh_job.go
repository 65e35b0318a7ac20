package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/kfinlab/ipo-calendar-backend/handlers"
	"github.com/kfinlab/ipo-calendar-backend/models"
	"github.com/kfinlab/ipo-calendar-backend/services"
)

// SnapshotRefreshJob re-crawls the IPO calendar on a fixed interval and keeps
// the shared cache warm, so most requests are served without touching the
// upstream listing site.
type SnapshotRefreshJob struct {
	provider  handlers.IPOProvider
	cache     *services.SnapshotCache
	scheduler *gocron.Scheduler
	interval  time.Duration
}

func NewSnapshotRefreshJob(provider handlers.IPOProvider, cache *services.SnapshotCache, interval time.Duration) *SnapshotRefreshJob {
	return &SnapshotRefreshJob{
		provider:  provider,
		cache:     cache,
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
	}
}

// Start schedules the periodic refresh and runs the first crawl immediately.
func (j *SnapshotRefreshJob) Start() error {
	job, err := j.scheduler.Every(j.interval).Do(j.Run)
	if err != nil {
		return err
	}
	job.SingletonMode()
	j.scheduler.StartAsync()

	logrus.WithFields(logrus.Fields{
		"component": "SnapshotRefreshJob",
		"interval":  j.interval.String(),
	}).Info("IPO snapshot refresh job started")
	return nil
}

// Run performs one refresh cycle. An empty crawl leaves the previous
// snapshot in place.
func (j *SnapshotRefreshJob) Run() {
	started := time.Now()
	data := models.ToResponses(j.provider.Crawl(context.Background()))
	if len(data) == 0 {
		logrus.WithFields(logrus.Fields{
			"component": "SnapshotRefreshJob",
			"method":    "Run",
		}).Warn("Refresh produced no entries, keeping previous snapshot")
		return
	}

	j.cache.Set(services.SnapshotKeyIPO, data)
	logrus.WithFields(logrus.Fields{
		"component": "SnapshotRefreshJob",
		"method":    "Run",
		"count":     len(data),
		"duration":  time.Since(started).String(),
	}).Info("IPO snapshot refreshed")
}

func (j *SnapshotRefreshJob) Stop() {
	j.scheduler.Stop()
}
