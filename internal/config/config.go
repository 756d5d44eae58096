package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost          = "0.0.0.0"
	defaultPort          = 5000
	defaultStorageDriver = DriverMemory
	defaultRedisAddr     = "localhost:6379"
	defaultLosingScore   = 21
	defaultGameTTL       = 720 // 分钟
	defaultCleanupEvery  = 60  // 秒
	defaultMaxPerSecond  = 10
	defaultBurst         = 20
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultShutdownWait  = 10
)

// 存储驱动
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // 优雅关闭等待（秒）
}

// StorageConfig 对局存储配置
type StorageConfig struct {
	Driver string `yaml:"driver"` // memory 或 redis
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	LosingScore     int `yaml:"losing_score"`
	GameTTL         int `yaml:"game_ttl"`         // 对局闲置过期（分钟）
	CleanupInterval int `yaml:"cleanup_interval"` // 内存存储清理间隔（秒）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig 每个 IP 的请求速率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	Burst        int `yaml:"burst"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`  // debug/info/warn/error
	Format string `yaml:"format"` // text/json
}

// GameTTLDuration 返回对局过期时长
func (c *GameConfig) GameTTLDuration() time.Duration {
	return time.Duration(c.GameTTL) * time.Minute
}

// CleanupIntervalDuration 返回清理间隔
func (c *GameConfig) CleanupIntervalDuration() time.Duration {
	return time.Duration(c.CleanupInterval) * time.Second
}

// ShutdownTimeoutDuration 返回优雅关闭等待时长
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// Load 加载配置文件，随后应用环境变量覆盖与默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

// Default 返回默认配置（同样会读取环境变量）
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownWait
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaultStorageDriver
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Game.LosingScore <= 0 {
		c.Game.LosingScore = defaultLosingScore
	}
	if c.Game.GameTTL == 0 {
		c.Game.GameTTL = defaultGameTTL
	}
	if c.Game.CleanupInterval == 0 {
		c.Game.CleanupInterval = defaultCleanupEvery
	}
	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	if c.Security.RateLimit.MaxPerSecond == 0 {
		c.Security.RateLimit.MaxPerSecond = defaultMaxPerSecond
	}
	if c.Security.RateLimit.Burst == 0 {
		c.Security.RateLimit.Burst = defaultBurst
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

func (c *Config) applyEnv() {
	setString(&c.Server.Host, "SERVER_HOST")
	setInt(&c.Server.Port, "SERVER_PORT")
	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")
	setInt(&c.Game.LosingScore, "GAME_LOSING_SCORE")
	setInt(&c.Game.GameTTL, "GAME_TTL")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("SECURITY_ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Security.AllowedOrigins = origins
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
