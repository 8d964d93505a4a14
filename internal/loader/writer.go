package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gcp2neo/internal/cypher"
	"gcp2neo/internal/domain"
	"go.uber.org/zap"
)

// WriteStats 统计一次写入的结果。
type WriteStats struct {
	Instances int `json:"instances"`
	Buckets   int `json:"buckets"`
	Skipped   int `json:"skipped"`
}

// Writer 逐条 MERGE 项目下的实例与存储桶。
// 整批共用一个会话，每条语句独立提交；中途失败时已写入的记录保留，剩余记录不再写入。
type Writer struct {
	sessions      SessionFactory
	logger        *zap.Logger
	instanceQuery string
	bucketQuery   string
	now           func() time.Time
}

// NewWriter 创建 Writer 并预先渲染语句模板。
func NewWriter(sessions SessionFactory, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		sessions:      sessions,
		logger:        logger,
		instanceQuery: upsertQuery(domain.KindInstance, "{id: $key}"),
		bucketQuery:   upsertQuery(domain.KindBucket, "{name: $key}"),
		now:           time.Now,
	}
}

func upsertQuery(kind domain.ResourceKind, keyPattern string) string {
	return cypher.MustTemplate("upsert_resource.cql", map[string]string{
		"Label":      kind.Label(),
		"KeyPattern": keyPattern,
		"RelType":    kind.RelType(),
	})
}

// Upsert 写入一次采集的全部记录，缺少唯一键的记录跳过并记日志。
func (w *Writer) Upsert(ctx context.Context, run domain.RunInfo, instances []domain.Instance, buckets []domain.Bucket) (WriteStats, error) {
	var stats WriteStats
	if run.ProjectID == "" {
		return stats, errors.New("project id 不能为空")
	}
	if w.sessions == nil {
		return stats, errors.New("未注入 neo4j 会话工厂")
	}

	sess := w.sessions.WriteSession(ctx)
	defer func() {
		if err := sess.Close(ctx); err != nil {
			w.logger.Warn("close neo4j session failed", zap.Error(err))
		}
	}()

	updatedAt := w.now().UTC()

	for idx, inst := range instances {
		key, ok := inst.Key()
		if !ok {
			stats.Skipped++
			w.logger.Warn("跳过缺少 id 的实例", zap.Error(domain.ErrMissingKey), zap.Int("index", idx), zap.Stringp("name", inst.Name), zap.Stringp("zone", inst.Zone))
			continue
		}
		params := map[string]any{
			"project": run.ProjectID,
			"key":     key,
			"props": map[string]any{
				"name":   domain.Value(inst.Name),
				"zone":   domain.Value(inst.Zone),
				"status": domain.Value(inst.Status),
			},
			"run_id":     run.RunID,
			"updated_at": updatedAt,
		}
		if err := sess.Run(ctx, w.instanceQuery, params); err != nil {
			return stats, fmt.Errorf("%w: instance id=%s: %w", domain.ErrGraphWrite, key, err)
		}
		stats.Instances++
	}

	for idx, b := range buckets {
		key, ok := b.Key()
		if !ok {
			stats.Skipped++
			w.logger.Warn("跳过缺少名称的存储桶", zap.Error(domain.ErrMissingKey), zap.Int("index", idx), zap.Stringp("location", b.Location))
			continue
		}
		params := map[string]any{
			"project": run.ProjectID,
			"key":     key,
			"props": map[string]any{
				"location":     domain.Value(b.Location),
				"storageClass": domain.Value(b.StorageClass),
			},
			"run_id":     run.RunID,
			"updated_at": updatedAt,
		}
		if err := sess.Run(ctx, w.bucketQuery, params); err != nil {
			return stats, fmt.Errorf("%w: bucket name=%s: %w", domain.ErrGraphWrite, key, err)
		}
		stats.Buckets++
	}
	return stats, nil
}
