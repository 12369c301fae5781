package unifi

import (
	"fmt"
	"time"

	"github.com/egallis31/unifi-network-mcp/pkg/config"
)

// ControllerKind 控制器部署形态
type ControllerKind string

const (
	// KindStandard 独立控制器（自建或 Cloud Key）
	KindStandard ControllerKind = "standard"

	// KindAppliance 一体机控制器（UDM Pro / UCG Max 等）
	// 登录端点不同，且所有请求需要额外的网关前缀
	KindAppliance ControllerKind = "appliance"
)

// Config 网关配置
type Config struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Site     string `mapstructure:"site"`

	VerifySSL      bool           `mapstructure:"verify_ssl"`
	ControllerKind ControllerKind `mapstructure:"controller_kind" validate:"oneof=standard appliance"`

	Timeout time.Duration `mapstructure:"timeout"`

	// 客户端限流（每秒请求数），0 表示不限流
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Port:           443,
		Site:           "default",
		VerifySSL:      false,
		ControllerKind: KindStandard,
		Timeout:        30 * time.Second,
		RateBurst:      5,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	return config.NewValidator().Validate(c)
}

// BaseURL 控制器基础地址
func (c *Config) BaseURL() string {
	return fmt.Sprintf("https://%s:%d", c.Host, c.Port)
}

// IsAppliance 是否为一体机控制器
func (c *Config) IsAppliance() bool {
	return c.ControllerKind == KindAppliance
}
