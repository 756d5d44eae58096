package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/palemoky/kash-scorekeeper/internal/config"
	"github.com/palemoky/kash-scorekeeper/internal/logger"
	"github.com/palemoky/kash-scorekeeper/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
		logger.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)
		slog.Warn("加载配置文件失败，使用默认配置", "path", *configPath, "error", err)
	} else {
		logger.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	}

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		slog.Error("创建服务器失败", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("🎲 Kash 记分服务启动中...")
		errCh <- srv.Start()
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("服务器启动失败", "error", err)
			os.Exit(1)
		}
	case <-quit:
		slog.Info("正在关闭服务器...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("关闭服务器出错", "error", err)
		os.Exit(1)
	}
	slog.Info("👋 服务器已关闭")
}
