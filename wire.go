//go:build wireinject

package main

import (
	"context"

	"gcp2neo/ioc"
	"gcp2neo/pkg/server"
	"github.com/google/wire"
)

func InitApp(ctx context.Context) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitGCPSource,
		ioc.InitNeo4jClient,
		ioc.InitWriter,
		ioc.InitInventoryReader,
		ioc.InitIngestFlow,
		ioc.InitAppService,
		ioc.InitScheduler,
		ioc.InitMetricsHandler,
		ioc.InitIngestHandler,
		ioc.InitGinEngine,
		server.NewHTTPServer,
	))
}
