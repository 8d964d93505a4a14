package ioc

import (
	"net/http"

	"gcp2neo/internal/app"
	"gcp2neo/internal/metrics"
	"gcp2neo/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// InitMetricsHandler 注册采集指标与进程指标，返回 /metrics 处理器。
func InitMetricsHandler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// InitIngestHandler 构建采集 HTTP 处理器。
func InitIngestHandler(svc *app.Service, logger *zap.Logger) *router.IngestHandler {
	return router.NewIngestHandler(svc, logger)
}

// InitGinEngine 构建 gin 引擎。
func InitGinEngine(handler *router.IngestHandler, metricsHandler http.Handler) *gin.Engine {
	return router.NewEngine(handler, metricsHandler)
}
