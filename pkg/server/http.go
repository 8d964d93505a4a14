package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gcp2neo/internal/app"
	"gcp2neo/internal/job"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// HTTPServer 封装 HTTP 服务运行所需的依赖。
type HTTPServer struct {
	Engine  *gin.Engine
	Logger  *zap.Logger
	Config  app.Config
	Service *app.Service
	Job     *job.Scheduler
}

// NewHTTPServer 构建 HTTPServer。
func NewHTTPServer(engine *gin.Engine, logger *zap.Logger, cfg app.Config, svc *app.Service, scheduler *job.Scheduler) *HTTPServer {
	return &HTTPServer{
		Engine:  engine,
		Logger:  logger,
		Config:  cfg,
		Service: svc,
		Job:     scheduler,
	}
}

// Run 启动 HTTP 服务及定时采集，ctx 取消时优雅退出。
func (s *HTTPServer) Run(ctx context.Context) error {
	listen := strings.TrimSpace(s.Config.HTTP.Listen)
	if listen == "" {
		listen = app.DefaultListen
	}

	if s.Job != nil {
		cancelJob := s.Job.Start(ctx)
		defer cancelJob()
	}

	if s.Config.Sync.InitialRun && s.Service != nil {
		go s.initialIngest(ctx)
	} else {
		s.Logger.Info("initial ingest skipped by configuration")
	}

	srv := &http.Server{Addr: listen, Handler: s.Engine}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("http server starting", zap.String("listen", listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *HTTPServer) initialIngest(ctx context.Context) {
	report, err := s.Service.Ingest(ctx)
	switch {
	case err != nil:
		s.Logger.Error("initial ingest failed", zap.Error(err))
	case report.Err() != nil:
		s.Logger.Warn("initial ingest finished with errors", zap.Error(report.Err()))
	default:
		s.Logger.Info("initial ingest completed", zap.String("run_id", report.RunID))
	}
}
