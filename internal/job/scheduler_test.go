package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gcp2neo/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cronConfig(spec string) app.Config {
	var cfg app.Config
	cfg.Sync.JobCron = spec
	return cfg
}

func TestNewSchedulerDefaultSpec(t *testing.T) {
	s := NewScheduler(app.Config{}, nil, nil)
	assert.Equal(t, defaultCronSpec, s.Spec())
}

func TestSchedulerInvalidSpecReturnsNoop(t *testing.T) {
	s := NewScheduler(cronConfig("not a cron"), func(context.Context) error { return nil }, nil)
	stop := s.Start(context.Background())
	require.NotNil(t, stop)
	stop()
	assert.Nil(t, s.cron)
}

func TestSchedulerRunsSyncFunc(t *testing.T) {
	fired := make(chan struct{}, 1)
	s := NewScheduler(cronConfig("@every 1s"), func(context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := s.Start(ctx)
	defer stop()

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled ingest did not run")
	}
}

func TestRunOnceSkipsAfterCancel(t *testing.T) {
	var calls int32
	s := NewScheduler(app.Config{}, func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	s.parent = ctx

	s.runOnce()
	cancel()
	s.runOnce()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunOnceToleratesErrors(t *testing.T) {
	s := NewScheduler(app.Config{}, func(context.Context) error { return app.ErrRunInProgress }, nil)
	s.runOnce()

	s = NewScheduler(app.Config{}, func(context.Context) error { return errors.New("partial") }, nil)
	s.runOnce()

	s = NewScheduler(app.Config{}, nil, nil)
	s.runOnce()
}
