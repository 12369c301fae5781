package config

// Option 配置选项函数
type Option func(*Loader)

// WithDefaults 设置默认配置值
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) {
		for key, value := range defaults {
			l.v.SetDefault(key, value)
		}
	}
}

// WithConfigType 设置配置文件类型（yaml、json 等）
func WithConfigType(configType string) Option {
	return func(l *Loader) {
		l.v.SetConfigType(configType)
	}
}
