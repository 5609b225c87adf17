package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ruki-qq/homework-bot/internal/app"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct {
	calls atomic.Int32
	err   error
}

func (s *stubProber) Probe(ctx context.Context) error {
	s.calls.Add(1)
	return s.err
}

type stubPoller struct {
	calls atomic.Int32
}

func (s *stubPoller) Snapshot() app.Snapshot {
	s.calls.Add(1)
	return app.Snapshot{Window: 1619074965, Cycles: 3}
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestMaintenanceScheduler_RunsJobs(t *testing.T) {
	prober := &stubProber{}
	poller := &stubPoller{}
	sched := NewMaintenanceScheduler(prober, poller, testLogger(), "@every 10ms", "@every 10ms")

	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Eventually(t, func() bool {
		return prober.calls.Load() > 0 && poller.calls.Load() > 0
	}, 2*time.Second, 10*time.Millisecond, "both jobs should have fired")
}

func TestMaintenanceScheduler_RejectsBadCronSpecs(t *testing.T) {
	t.Run("bad probe spec", func(t *testing.T) {
		sched := NewMaintenanceScheduler(&stubProber{}, &stubPoller{}, testLogger(), "not a cron spec", "0 9 * * *")
		err := sched.Start()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "probe")
	})

	t.Run("bad digest spec", func(t *testing.T) {
		sched := NewMaintenanceScheduler(&stubProber{}, &stubPoller{}, testLogger(), "@every 1h", "sometimes")
		err := sched.Start()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "digest")
	})
}

func TestMaintenanceScheduler_StopDrainsJobs(t *testing.T) {
	prober := &stubProber{}
	sched := NewMaintenanceScheduler(prober, &stubPoller{}, testLogger(), "@every 10ms", "0 9 * * *")

	require.NoError(t, sched.Start())
	assert.Eventually(t, func() bool { return prober.calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)

	sched.Stop()
	after := prober.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, prober.calls.Load(), "no job may fire after Stop returned")
}
