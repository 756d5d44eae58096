package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"
)

const monitorInterval = 30 * time.Second

// Start 启动服务器，阻塞直到 Shutdown 被调用或监听失败
func (s *Server) Start() error {
	go s.monitorStats()

	slog.Info("🚀 服务器启动", "addr", "http://"+s.httpServer.Addr, "cpus", runtime.NumCPU())
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// monitorStats 定期记录服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			active, err := s.manager.ActiveGames(ctx)
			cancel()
			if err != nil {
				slog.Warn("统计进行中的对局失败", "error", err)
			}

			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			slog.Info("📊 [监控]",
				"active_games", active,
				"live_subscribers", s.hub.Total(),
				"goroutines", runtime.NumGoroutine(),
				"memory_mb", fmt.Sprintf("%.2f", float64(m.Alloc)/1024/1024),
			)
		}
	}
}

// Shutdown 优雅关闭：停止接收请求，断开实时订阅，关闭存储
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	s.stopOnce.Do(func() { close(s.stop) })

	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	s.hub.Close()

	if c, ok := s.store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}

	slog.Info("服务器已关闭")
	return errors.Join(errs...)
}
