package job

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gcp2neo/internal/app"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultCronSpec = "0 7 * * *"

// Scheduler 按 cron 表达式周期性触发全量采集。
type Scheduler struct {
	cronExpr string
	logger   *zap.Logger
	cron     *cron.Cron
	syncFunc func(context.Context) error
	parent   context.Context
}

// NewScheduler 根据配置构建调度器。
func NewScheduler(cfg app.Config, syncFunc func(context.Context) error, logger *zap.Logger) *Scheduler {
	spec := strings.TrimSpace(cfg.Sync.JobCron)
	if spec == "" {
		spec = defaultCronSpec
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cronExpr: spec, logger: logger, syncFunc: syncFunc}
}

// Spec 返回生效的 cron 表达式。
func (s *Scheduler) Spec() string {
	return s.cronExpr
}

// Start 启动调度器，返回用于停止任务的函数。上一轮未结束时跳过本轮。
func (s *Scheduler) Start(parent context.Context) context.CancelFunc {
	if s == nil {
		return func() {}
	}
	s.parent = parent
	cl := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	id, err := c.AddFunc(s.cronExpr, s.runOnce)
	if err != nil {
		s.logger.Error("failed to register cron job", zap.String("cron", s.cronExpr), zap.Error(err))
		return func() {}
	}
	s.cron = c
	c.Start()
	s.logger.Info("job scheduler started", zap.String("cron", s.cronExpr), zap.Time("next", c.Entry(id).Next))

	var once sync.Once
	stop := func() {
		once.Do(func() {
			ctx := s.cron.Stop()
			<-ctx.Done()
			s.logger.Info("job scheduler stopped")
		})
	}

	go func() {
		<-parent.Done()
		stop()
	}()

	return stop
}

func (s *Scheduler) runOnce() {
	if s.syncFunc == nil {
		s.logger.Warn("sync function not configured")
		return
	}
	runCtx := context.Background()
	if s.parent != nil {
		if s.parent.Err() != nil {
			s.logger.Info("scheduler context cancelled, skip ingest")
			return
		}
		runCtx = s.parent
	}

	start := time.Now()
	err := s.syncFunc(runCtx)
	elapsed := time.Since(start)
	switch {
	case errors.Is(err, app.ErrRunInProgress):
		s.logger.Warn("previous ingest still running, skip current schedule")
	case err != nil:
		s.logger.Error("scheduled ingest finished with errors", zap.Duration("duration", elapsed), zap.Error(err))
	default:
		s.logger.Info("scheduled ingest completed", zap.Duration("duration", elapsed))
	}
}

// cronLogger 把 cron 内部日志转到 zap。
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
