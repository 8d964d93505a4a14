package router

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gcp2neo/internal/app"
	"gcp2neo/internal/graph"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngestService 是 HTTP 层依赖的采集服务。
type IngestService interface {
	Ingest(ctx context.Context) (app.Report, error)
	LastReport() (app.Report, bool)
	Inventory(ctx context.Context, projectID string) (graph.Inventory, error)
}

// IngestHandler 负责采集相关的 HTTP 请求。
type IngestHandler struct {
	svc    IngestService
	logger *zap.Logger
}

// NewIngestHandler 构建一个新的 IngestHandler。
func NewIngestHandler(svc IngestService, logger *zap.Logger) *IngestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestHandler{svc: svc, logger: logger}
}

// RegisterRoutes 将采集路由注册到给定的路由组。
func (h *IngestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ingest", h.handleIngest)
	rg.GET("/ingest/last", h.handleLast)
	rg.GET("/inventory", h.handleInventory)
}

type ingestResponse struct {
	OK     bool       `json:"ok"`
	Report app.Report `json:"report"`
	Error  string     `json:"error,omitempty"`
}

func (h *IngestHandler) handleIngest(c *gin.Context) {
	report, err := h.svc.Ingest(c.Request.Context())
	if errors.Is(err, app.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("ingest failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := ingestResponse{OK: true, Report: report}
	if runErr := report.Err(); runErr != nil {
		resp.OK = false
		resp.Error = runErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngestHandler) handleLast(c *gin.Context) {
	report, ok := h.svc.LastReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no ingest has completed yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *IngestHandler) handleInventory(c *gin.Context) {
	project := strings.TrimSpace(c.Query("project"))
	inv, err := h.svc.Inventory(c.Request.Context(), project)
	if err != nil {
		h.logger.Error("inventory query failed", zap.String("project", project), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inv)
}
