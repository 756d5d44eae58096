// Package server serves the Kash scorekeeper over HTTP: the HTML form flow,
// a JSON snapshot API, file exports and a websocket live feed.
package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/kash-scorekeeper/internal/config"
	"github.com/palemoky/kash-scorekeeper/internal/game/session"
	"github.com/palemoky/kash-scorekeeper/internal/metrics"
	"github.com/palemoky/kash-scorekeeper/internal/server/storage"
)

// Server HTTP 服务器
type Server struct {
	config  *config.Config
	store   storage.Store
	manager *session.Manager
	hub     *Hub
	metrics *metrics.Metrics
	pages   *template.Template
	router  chi.Router

	// 安全组件
	limiter       *IPRateLimiter
	originChecker *OriginChecker
	upgrader      websocket.Upgrader

	httpServer *http.Server
	stopOnce   sync.Once
	stop       chan struct{}
}

// NewServer 按配置创建存储并组装服务器
func NewServer(cfg *config.Config) (*Server, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, store)
}

// New 使用给定存储组装服务器
func New(cfg *config.Config, store storage.Store) (*Server, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	hub := NewHub(m)

	manager := session.NewManager(store, cfg.Game.LosingScore)
	manager.SetMetrics(m)
	manager.SetNotifier(hub)

	s := &Server{
		config:        cfg,
		store:         store,
		manager:       manager,
		hub:           hub,
		metrics:       m,
		pages:         pages,
		limiter:       NewIPRateLimiter(cfg.Security.RateLimit.MaxPerSecond, cfg.Security.RateLimit.Burst),
		originChecker: NewOriginChecker(cfg.Security.AllowedOrigins),
		stop:          make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("🔒 安全配置",
		"rate_per_second", cfg.Security.RateLimit.MaxPerSecond,
		"burst", cfg.Security.RateLimit.Burst,
		"allowed_origins", cfg.Security.AllowedOrigins,
	)

	return s, nil
}

// Handler 返回路由，测试中直接交给 httptest 使用
func (s *Server) Handler() http.Handler {
	return s.router
}

// Manager 返回对局管理器
func (s *Server) Manager() *session.Manager {
	return s.manager
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		rs := storage.NewRedisStore(rdb, cfg.Game.GameTTLDuration())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}

		slog.Info("🗄️ 使用 Redis 存储", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		return rs, nil

	case config.DriverMemory, "":
		slog.Info("🗄️ 使用内存存储", "ttl", cfg.Game.GameTTLDuration())
		return storage.NewMemoryStore(cfg.Game.GameTTLDuration(), cfg.Game.CleanupIntervalDuration()), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
