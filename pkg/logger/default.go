package logger

import "sync"

var (
	defaultLogger   Logger
	defaultLoggerMu sync.RWMutex
)

// SetDefault 设置默认 logger
func SetDefault(l Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}

// Default 获取默认 logger
// 未初始化时返回仅控制台输出的 logger
func Default() Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	if defaultLogger == nil {
		base, err := New(DefaultConfig())
		if err != nil {
			panic(err)
		}
		defaultLogger = base
	}
	return defaultLogger
}
