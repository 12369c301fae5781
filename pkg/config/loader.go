package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader 配置加载器
// 封装 viper，提供 "配置文件 + 环境变量" 的统一加载入口
type Loader struct {
	v         *viper.Viper
	mu        sync.RWMutex
	callbacks []func()
}

// NewLoader 创建配置加载器
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		v:         viper.New(),
		callbacks: make([]func(), 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile 加载配置文件（支持 YAML、JSON 等）
func (l *Loader) LoadFile(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	}

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// BindEnv 绑定环境变量
// prefix: 环境变量前缀，如 "UNIFI_MCP" 会匹配 UNIFI_MCP_UNIFI_HOST -> unifi.host
func (l *Loader) BindEnv(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prefix != "" {
		l.v.SetEnvPrefix(prefix)
	}
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// Unmarshal 解析整个配置到结构体
func (l *Loader) Unmarshal(target any) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// UnmarshalKey 解析指定路径的配置到结构体
func (l *Loader) UnmarshalKey(key string, target any) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.v.UnmarshalKey(key, target); err != nil {
		return fmt.Errorf("failed to unmarshal key %s: %w", key, err)
	}
	return nil
}

// IsSet 检查配置项是否存在
func (l *Loader) IsSet(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.IsSet(key)
}

// GetString 获取字符串配置
func (l *Loader) GetString(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.GetString(key)
}

// Watch 监听配置文件变化（基于 fsnotify）
func (l *Loader) Watch(callback func()) {
	l.mu.Lock()
	l.callbacks = append(l.callbacks, callback)
	l.mu.Unlock()

	l.v.WatchConfig()
	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.RLock()
		callbacks := l.callbacks
		l.mu.RUnlock()

		for _, cb := range callbacks {
			cb()
		}
	})
}
