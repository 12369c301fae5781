package unifi

import (
	"context"
	"errors"
	"sync"

	"github.com/egallis31/unifi-network-mcp/pkg/logger"
)

// endpointCache 已解析端点缓存
// 记录每个操作最近一次成功的路径模板，仅在同一会话纪元内生效。
// 换了会话（可能是另一台固件不同的控制器）后旧条目一律作废
type endpointCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	path  string
	epoch uint64
}

func newEndpointCache() *endpointCache {
	return &endpointCache{
		entries: make(map[string]cacheEntry),
	}
}

// get 返回指定纪元下缓存的路径
func (c *endpointCache) get(operation string, epoch uint64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[operation]
	if !ok || entry.epoch != epoch {
		return "", false
	}
	return entry.path, true
}

// put 记录成功路径
// 两个并发调用同时发现同一回退路径时互相覆盖也无妨，写入是幂等的
func (c *endpointCache) put(operation, path string, epoch uint64) {
	c.mu.Lock()
	c.entries[operation] = cacheEntry{path: path, epoch: epoch}
	c.mu.Unlock()
}

// Resolver 回退解析器
// 按声明顺序尝试操作的候选路径：404 视为 "这个固件没有这个端点"，
// 记录后继续尝试下一个候选；其他任何错误立即上抛，不会被回退掩盖
type Resolver struct {
	exec  *Executor
	cache *endpointCache
	log   logger.Logger
}

// NewResolver 创建回退解析器
func NewResolver(exec *Executor, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Resolver{
		exec:  exec,
		cache: newEndpointCache(),
		log:   log.Named("unifi.resolver"),
	}
}

// Execute 解析并执行操作
// 本会话内已知可用的路径优先于声明顺序；全部候选耗尽时
// 上抛最后一个错误，保留诊断细节而不是换成笼统的失败
func (r *Resolver) Execute(ctx context.Context, op Operation, params map[string]any) (*Envelope, error) {
	candidates := op.Paths

	epoch := r.exec.sessions.Epoch()
	if cached, ok := r.cache.get(op.Name, epoch); ok {
		reordered := make([]string, 0, len(candidates))
		reordered = append(reordered, cached)
		for _, p := range candidates {
			if p != cached {
				reordered = append(reordered, p)
			}
		}
		candidates = reordered
	}

	var lastErr error
	for i, path := range candidates {
		env, err := r.exec.Execute(ctx, op, path, params)
		if err == nil {
			r.cache.put(op.Name, path, r.exec.sessions.Epoch())
			return env, nil
		}

		var respErr *ResponseError
		if errors.As(err, &respErr) && respErr.IsNotFound() && i < len(candidates)-1 {
			FallbackTotal.WithLabelValues(op.Name).Inc()
			r.log.Warn("endpoint not found, trying fallback",
				"operation", op.Name, "path", path, "next", candidates[i+1])
			lastErr = err
			continue
		}
		return nil, err
	}

	return nil, lastErr
}
