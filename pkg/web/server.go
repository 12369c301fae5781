package web

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/egallis31/unifi-network-mcp/pkg/config"
	"github.com/egallis31/unifi-network-mcp/pkg/logger"
	"github.com/egallis31/unifi-network-mcp/pkg/web/middleware"
	"github.com/gin-gonic/gin"
)

// Server Web 服务核心结构
type Server struct {
	engine  *gin.Engine
	config  *Config
	logger  logger.Logger
	server  *http.Server
	started atomic.Bool
}

// NewServer 创建 Web 服务
func NewServer(cfg *Config, l logger.Logger) (*Server, error) {
	mergedCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Default()
	}

	gin.SetMode(mergedCfg.Mode)
	engine := gin.New()

	// 挂载基础中间件
	engine.Use(middleware.Logger(l))
	engine.Use(middleware.Recovery(l))
	engine.Use(middleware.Metrics())
	if mergedCfg.EnableCORS {
		engine.Use(middleware.CORS())
	}

	return &Server{
		engine: engine,
		config: mergedCfg,
		logger: l.Named("web.server"),
	}, nil
}

// Router 返回 Gin 引擎，用于注册路由
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Handler 返回 http.Handler 接口
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动服务并阻塞至 ctx 取消，随后优雅关机
func (s *Server) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrServerAlreadyStarted
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Stop 立即停止服务
func (s *Server) Stop() error {
	if s.server == nil {
		return ErrServerNotStarted
	}
	return s.server.Close()
}
