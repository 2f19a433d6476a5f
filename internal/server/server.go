package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"ocr-consolidator/internal/config"
	"ocr-consolidator/internal/inference"
	"ocr-consolidator/internal/metrics"
	"ocr-consolidator/internal/server/handler"
	"ocr-consolidator/internal/server/router"
	"ocr-consolidator/internal/server/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of the consolidation service.
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	metrics *metrics.Metrics
	http    *http.Server
}

// New builds the dependency chain around client. If client also implements
// handler.Pinger it backs the readiness probe.
func New(cfg *config.Config, client inference.Client) *Server {
	// Set Gin mode based on configuration
	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{cfg: cfg}

	opts := []service.Option{service.WithDebug(cfg.Debug)}
	var m router.Metrics
	if cfg.MetricsEnabled() {
		s.metrics = metrics.New()
		opts = append(opts, service.WithRecorder(s.metrics))
		m = s.metrics
	}

	pinger, _ := client.(handler.Pinger)

	// Build dependency chain
	svc := service.NewConsolidationService(client, cfg.Ollama.Model, opts...)
	h := handler.NewConsolidationHandler(svc, pinger)

	s.engine = router.New(h, m)
	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on the configured address until ctx is cancelled.
func Run(ctx context.Context, s *Server) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return serve(ctx, s, ln)
}

func serve(ctx context.Context, s *Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		host := s.cfg.Ollama.Host
		if host == "" {
			host = "default ollama host"
		}
		log.Printf("listening on %s (model %s at %s)", ln.Addr(), s.cfg.Ollama.Model, host)
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("server stopped")
	return nil
}
