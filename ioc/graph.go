package ioc

import (
	"context"

	"gcp2neo/internal/app"
	"gcp2neo/internal/graph"
	"gcp2neo/internal/loader"
	"go.uber.org/zap"
)

// Neo4jConfig 把应用配置转换成连接参数。
func Neo4jConfig(cfg app.Config, lazy bool) loader.Config {
	return loader.Config{
		URI:                  cfg.Neo4j.URI,
		Username:             cfg.Neo4j.Username,
		Password:             cfg.Neo4j.Password,
		Database:             cfg.Neo4j.Database,
		MaxConnectionPool:    cfg.Neo4j.MaxConnectionPool,
		ConnectionTimeoutSec: cfg.Neo4j.ConnectTimeoutSecond,
		Lazy:                 lazy,
	}
}

// InitNeo4jClient 构建并校验 Neo4j 客户端，读写共用。
func InitNeo4jClient(ctx context.Context, cfg app.Config) (*loader.Client, func(), error) {
	client, err := loader.NewClient(ctx, Neo4jConfig(cfg, false))
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close(context.Background()) }, nil
}

// InitWriter 构建图写入器。
func InitWriter(client *loader.Client, logger *zap.Logger) *loader.Writer {
	return loader.NewWriter(client, logger)
}

// InitInventoryReader 构建只读汇总查询。
func InitInventoryReader(client *loader.Client) (*graph.InventoryReader, error) {
	reader, err := graph.NewClient(client.Driver(), client.Database())
	if err != nil {
		return nil, err
	}
	return graph.NewInventoryReader(reader), nil
}
