package app

import (
	"context"
	"errors"
	"time"

	"gcp2neo/internal/domain"
	"gcp2neo/internal/gcp"
	"gcp2neo/internal/loader"
	"gcp2neo/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upserter 写入一次采集结果。
type Upserter interface {
	Upsert(ctx context.Context, run domain.RunInfo, instances []domain.Instance, buckets []domain.Bucket) (loader.WriteStats, error)
}

// SchemaEnsurer 确保约束存在。
type SchemaEnsurer interface {
	Ensure(ctx context.Context) error
}

// IngestFlow 负责一次完整采集：拉实例 -> 拉存储桶 -> 写图。
// 两类资源各自隔离失败，写入总是执行一次，参数为成功拉取到的部分（可能为空）。
type IngestFlow struct {
	ProjectID string
	Source    gcp.Source
	Writer    Upserter
	Schema    SchemaEnsurer
	Logger    *zap.Logger

	NewRunID func() string
	Now      func() time.Time
}

// Run 执行采集流程。返回的 error 只表示流程依赖缺失，各阶段失败记录在 Report 中。
func (f *IngestFlow) Run(ctx context.Context) (Report, error) {
	if f == nil || f.Source == nil || f.Writer == nil {
		return Report{}, errors.New("ingest flow 依赖未注入完整")
	}
	if f.ProjectID == "" {
		return Report{}, errors.New("ingest flow 缺少 project id")
	}
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := f.Now
	if now == nil {
		now = time.Now
	}
	newRunID := f.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}

	report := Report{RunID: newRunID(), ProjectID: f.ProjectID, StartedAt: now().UTC()}
	logger = logger.With(zap.String("run_id", report.RunID), zap.String("project", f.ProjectID))
	logger.Info("开始采集 GCP 资源")

	instances, err := f.Source.FetchInstances(ctx)
	report.Instances = PhaseResult{Name: PhaseInstances, Count: len(instances), Err: err}
	if err != nil {
		instances = nil
		report.Instances.Count = 0
		logger.Error("实例拉取失败", zap.Error(err))
		metrics.PhaseErrors.WithLabelValues(PhaseInstances).Inc()
	} else {
		logger.Info("实例拉取完成", zap.Int("count", len(instances)))
		metrics.RecordsFetched.WithLabelValues(string(domain.KindInstance)).Add(float64(len(instances)))
	}

	buckets, err := f.Source.FetchBuckets(ctx)
	report.Buckets = PhaseResult{Name: PhaseBuckets, Count: len(buckets), Err: err}
	if err != nil {
		buckets = nil
		report.Buckets.Count = 0
		logger.Error("存储桶拉取失败", zap.Error(err))
		metrics.PhaseErrors.WithLabelValues(PhaseBuckets).Inc()
	} else {
		logger.Info("存储桶拉取完成", zap.Int("count", len(buckets)))
		metrics.RecordsFetched.WithLabelValues(string(domain.KindBucket)).Add(float64(len(buckets)))
	}

	if f.Schema != nil {
		if err := f.Schema.Ensure(ctx); err != nil {
			logger.Warn("创建约束失败，继续写入", zap.Error(err))
		}
	}

	run := domain.RunInfo{RunID: report.RunID, ProjectID: f.ProjectID, StartedAt: report.StartedAt}
	stats, err := f.Writer.Upsert(ctx, run, instances, buckets)
	report.Stats = stats
	report.Write = PhaseResult{Name: PhaseWrite, Count: stats.Instances + stats.Buckets, Err: err}
	metrics.RecordsWritten.WithLabelValues(string(domain.KindInstance)).Add(float64(stats.Instances))
	metrics.RecordsWritten.WithLabelValues(string(domain.KindBucket)).Add(float64(stats.Buckets))
	metrics.RecordsSkipped.Add(float64(stats.Skipped))
	if err != nil {
		logger.Error("写入 Neo4j 失败，已写入的记录保留",
			zap.Int("instances_written", stats.Instances),
			zap.Int("buckets_written", stats.Buckets),
			zap.Error(err))
		metrics.PhaseErrors.WithLabelValues(PhaseWrite).Inc()
	}

	report.Duration = now().UTC().Sub(report.StartedAt)
	metrics.IngestDuration.Observe(report.Duration.Seconds())
	logger.Info("采集完成",
		zap.Int("instances", stats.Instances),
		zap.Int("buckets", stats.Buckets),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", report.Duration),
		zap.Bool("partial", report.Err() != nil))
	return report, nil
}
