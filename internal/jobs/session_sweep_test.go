package jobs

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"university_portal_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) SweepIdle() int {
	s.calls.Add(1)
	return 2
}

func (s *countingSweeper) Len() int { return 5 }

func TestSessionSweepJob_RunsOnSchedule(t *testing.T) {
	sweeper := &countingSweeper{}
	job := NewSessionSweepJob(sweeper, zap.NewNop(), &config.Config{SessionSweepSchedule: "@every 1s"})
	require.NoError(t, job.SetupAndStart())
	defer job.Stop()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestSessionSweepJob_EmptyScheduleIsDisabled(t *testing.T) {
	job := NewSessionSweepJob(&countingSweeper{}, zap.NewNop(), &config.Config{})
	assert.NoError(t, job.SetupAndStart())
	job.Stop()
}

func TestSessionSweepJob_InvalidSchedule(t *testing.T) {
	job := NewSessionSweepJob(&countingSweeper{}, zap.NewNop(), &config.Config{SessionSweepSchedule: "every now and then"})
	assert.Error(t, job.SetupAndStart())
}

func TestSessionSweepJob_LogsClosedSessions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	job := NewSessionSweepJob(&countingSweeper{}, zap.New(core), &config.Config{})
	job.runJob()

	entries := logs.FilterMessage("Session sweep completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["sessions_closed"])
}

func TestCronLogger_Fields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewCronLogger(zap.New(core))

	l.Info("wake", "now", "t0", "dangling")
	l.Error(errors.New("boom"), "failed", "entry", 3)

	all := logs.All()
	require.Len(t, all, 2)
	assert.Equal(t, "MISSING_VALUE", all[0].ContextMap()["dangling"])
	assert.Equal(t, "boom", all[1].ContextMap()["error"])
}
