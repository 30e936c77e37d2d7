package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 应用配置
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// 诊所后端 REST 服务
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:4000/api"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// 查询缓存
	CacheStaleTime     time.Duration `env:"CACHE_STALE_TIME" envDefault:"5m"`
	CacheGCTime        time.Duration `env:"CACHE_GC_TIME" envDefault:"10m"`
	CacheSweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" envDefault:"1m"`

	// 列表分页
	PageSize    int `env:"PAGE_SIZE" envDefault:"10"`
	MaxPageSize int `env:"MAX_PAGE_SIZE" envDefault:"100"`

	Locale           string `env:"LOCALE" envDefault:"es"`
	StrictValidation bool   `env:"STRICT_VALIDATION" envDefault:"false"`

	// 空闲会话的视图状态和删除流程在 SessionIdle 后清理
	SessionIdle time.Duration `env:"SESSION_IDLE" envDefault:"30m"`

	// 为空时操作日志只保存在内存中
	MongoURI     string        `env:"MONGO_URI"`
	MongoDB      string        `env:"MONGO_DB" envDefault:"vet_admin"`
	LogRetention time.Duration `env:"LOG_RETENTION" envDefault:"720h"`

	JWTKey       string   `env:"JWT_KEY" envDefault:"your-secret-key"` // 实际环境应替换为安全密钥
	AllowOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3001,http://localhost:5173"`
	GinMode      string   `env:"GIN_MODE" envDefault:"debug"`
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Debug 是否为调试模式
func (c *Config) Debug() bool {
	return c.GinMode == "debug"
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL 不能为空")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE 必须大于0: %d", c.PageSize)
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) 不能小于 PAGE_SIZE (%d)", c.MaxPageSize, c.PageSize)
	}
	return nil
}
