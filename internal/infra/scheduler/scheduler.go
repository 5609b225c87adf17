package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ruki-qq/homework-bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// prober is the slice of the status API the probe job needs.
type prober interface {
	Probe(ctx context.Context) error
}

// snapshotter is the slice of the poll loop the digest job needs.
type snapshotter interface {
	Snapshot() app.Snapshot
}

// MaintenanceScheduler runs the background jobs that live outside the poll
// cycle: a periodic API token probe and a daily digest of loop counters.
// Neither job touches loop state or the chat; both only read and log.
type MaintenanceScheduler struct {
	cronEngine     *cron.Cron
	api            prober
	poller         snapshotter
	logger         *logrus.Entry
	cronSpecProbe  string
	cronSpecDigest string
}

func NewMaintenanceScheduler(
	api prober,
	poller snapshotter,
	logger *logrus.Entry,
	cronSpecProbe string, // e.g., "@every 1h"
	cronSpecDigest string, // e.g., "0 9 * * *" (9 AM daily)
) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cronEngine:     cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		api:            api,
		poller:         poller,
		logger:         logger,
		cronSpecProbe:  cronSpecProbe,
		cronSpecDigest: cronSpecDigest,
	}
}

func (s *MaintenanceScheduler) Start() error {
	s.logger.Info("Starting maintenance scheduler")

	// Job re-checking that the API still accepts our token. A failing probe
	// is logged and nothing more: the poll loop already reports transport
	// and auth trouble to the chat with its own dedup.
	_, err := s.cronEngine.AddFunc(s.cronSpecProbe, func() {
		s.logger.Debug("Cron job triggered for API token probe")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute) // Context for the job
		defer cancel()
		if err := s.api.Probe(ctx); err != nil {
			s.logger.WithError(err).Error("API token probe failed")
			return
		}
		s.logger.Debug("API token probe succeeded")
	})
	if err != nil {
		return fmt.Errorf("add token probe cron job: %w", err)
	}

	// Daily digest of loop health for the operator reading logs.
	_, err = s.cronEngine.AddFunc(s.cronSpecDigest, func() {
		snap := s.poller.Snapshot()
		s.logger.WithFields(logrus.Fields{
			"from_date":         snap.Window,
			"cycles":            snap.Cycles,
			"failed_cycles":     snap.FailedCycles,
			"last_notification": snap.LastNotification,
			"last_error":        snap.LastError,
		}).Info("Daily poll digest")
	})
	if err != nil {
		return fmt.Errorf("add digest cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.WithFields(logrus.Fields{
		"probe_cron":  s.cronSpecProbe,
		"digest_cron": s.cronSpecDigest,
	}).Info("Maintenance scheduler started with jobs")
	return nil
}

func (s *MaintenanceScheduler) Stop() {
	s.logger.Info("Stopping maintenance scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Maintenance scheduler gracefully stopped")
}
