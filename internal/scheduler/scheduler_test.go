package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestStartRunsImmediately(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour)

	s.Start(context.Background(), func(ctx context.Context) { runs.Add(1) })
	defer s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestStartRepeatsOnInterval(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, func(ctx context.Context) { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestPanickingRunIsRecovered(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Second)
	defer s.Stop()

	assert.NotPanics(t, func() {
		s.Start(context.Background(), func(ctx context.Context) {
			runs.Add(1)
			panic("bad poll")
		})
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduleContinuesAfterPanic(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Second)
	defer s.Stop()

	s.Start(context.Background(), func(ctx context.Context) {
		if runs.Add(1) == 1 {
			panic("bad poll")
		}
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 4*time.Second, 50*time.Millisecond)
}

func TestPanicLoggedAtErrorLevel(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()
	log.SetLevel(log.ErrorLevel)
	defer log.SetLevel(log.InfoLevel)

	s := New(time.Hour)
	defer s.Stop()

	s.Start(context.Background(), func(ctx context.Context) { panic("bad poll") })

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.ErrorLevel && e.Message == "panic" {
			found = true
			assert.Contains(t, e.Data[log.ErrorKey].(error).Error(), "bad poll")
			assert.Contains(t, e.Data, "stack")
		}
	}
	assert.True(t, found, "expected an error entry for the recovered panic")
}

func TestStopOnContextCancel(t *testing.T) {
	var runs atomic.Int32
	s := New(2 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	s.Start(ctx, func(ctx context.Context) { runs.Add(1) })
	cancel()

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}
