package app

import (
	"context"
	"errors"
	"sync"

	"gcp2neo/internal/graph"
	"go.uber.org/zap"
)

// ErrRunInProgress 上一次采集尚未结束。
var ErrRunInProgress = errors.New("采集正在进行中")

// InventoryQuerier 读取图中的资源汇总。
type InventoryQuerier interface {
	Summary(ctx context.Context, projectID string) (graph.Inventory, error)
}

// Service 负责装配采集流程并提供统一入口，同一时刻只允许一次采集。
type Service struct {
	cfg        Config
	IngestFlow *IngestFlow
	inventory  InventoryQuerier
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
	last    *Report
}

// NewService 根据配置构建 Service。
func NewService(cfg Config, flow *IngestFlow, inventory InventoryQuerier, logger *zap.Logger) (*Service, error) {
	if flow == nil {
		return nil, errors.New("必须提供 ingest flow")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, IngestFlow: flow, inventory: inventory, logger: logger}, nil
}

// ProjectID 返回采集的项目。
func (s *Service) ProjectID() string {
	return s.cfg.GCP.ProjectID
}

// Ingest 执行一次采集，已有采集在运行时返回 ErrRunInProgress。
func (s *Service) Ingest(ctx context.Context) (Report, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Report{}, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	var (
		report Report
		err    error
		done   bool
	)
	defer func() {
		s.mu.Lock()
		s.running = false
		if done && err == nil {
			s.last = &report
		}
		s.mu.Unlock()
	}()

	report, err = s.IngestFlow.Run(ctx)
	done = true
	return report, err
}

// Sync 供调度器调用，部分失败也作为错误返回以便记录日志。
func (s *Service) Sync(ctx context.Context) error {
	report, err := s.Ingest(ctx)
	if err != nil {
		return err
	}
	return report.Err()
}

// LastReport 返回最近一次完成的采集报告。
func (s *Service) LastReport() (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Report{}, false
	}
	return *s.last, true
}

// Inventory 查询指定项目（为空时为配置项目）在图中的资源汇总。
func (s *Service) Inventory(ctx context.Context, projectID string) (graph.Inventory, error) {
	if s.inventory == nil {
		return graph.Inventory{}, errors.New("未配置 inventory 查询")
	}
	if projectID == "" {
		projectID = s.ProjectID()
	}
	return s.inventory.Summary(ctx, projectID)
}
