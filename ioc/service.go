package ioc

import (
	"gcp2neo/internal/app"
	"gcp2neo/internal/gcp"
	"gcp2neo/internal/graph"
	"gcp2neo/internal/loader"
	"go.uber.org/zap"
)

// InitIngestFlow 装配采集流程，按配置决定是否创建约束。
func InitIngestFlow(cfg app.Config, source gcp.Source, writer *loader.Writer, client *loader.Client, logger *zap.Logger) *app.IngestFlow {
	flow := &app.IngestFlow{
		ProjectID: cfg.GCP.ProjectID,
		Source:    source,
		Writer:    writer,
		Logger:    logger,
	}
	if cfg.Neo4j.EnsureSchema {
		flow.Schema = loader.NewSchemaManager(client)
	}
	return flow
}

// InitAppService 构建采集服务。
func InitAppService(cfg app.Config, flow *app.IngestFlow, inventory *graph.InventoryReader, logger *zap.Logger) (*app.Service, error) {
	return app.NewService(cfg, flow, inventory, logger)
}
