package web

import "time"

// Config Web 服务配置
type Config struct {
	Mode string `mapstructure:"mode"` // gin 模式: debug/release/test
	Port int    `mapstructure:"port"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	EnableCORS    bool `mapstructure:"enable_cors"`
	EnableMetrics bool `mapstructure:"enable_metrics"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Mode:          "release",
		Port:          8080,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  30 * time.Second,
		EnableCORS:    false,
		EnableMetrics: true,
	}
}
