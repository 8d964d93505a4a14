package ioc

import (
	"gcp2neo/internal/app"
	"gcp2neo/internal/job"
	"go.uber.org/zap"
)

// InitScheduler 构建定时采集调度器。
func InitScheduler(cfg app.Config, svc *app.Service, logger *zap.Logger) *job.Scheduler {
	return job.NewScheduler(cfg, svc.Sync, logger)
}
