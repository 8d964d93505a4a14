package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewEngine 构建 gin 引擎并注册所有模块路由，metrics 为空时不暴露 /metrics。
func NewEngine(ingestHandler *IngestHandler, metrics http.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics))
	}

	api := engine.Group("/api/v1")
	ingestHandler.RegisterRoutes(api)

	return engine
}
