package unifi

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/egallis31/unifi-network-mcp/pkg/config"
	"github.com/egallis31/unifi-network-mcp/pkg/jsonsafe"
	"github.com/egallis31/unifi-network-mcp/pkg/logger"
)

// Gateway UniFi 网络控制器网关
// 上层工具面只跟它打交道：传入逻辑操作名和参数，拿回 JSON 安全的
// 结果或类型化错误，不需要关心控制器版本差异、端点漂移和会话管理。
// 一个 Gateway 实例绑定一个站点，切换站点需要新建实例
type Gateway struct {
	cfg     *Config
	log     logger.Logger
	catalog *Catalog
	client  *http.Client

	sessions   *SessionManager
	executor   *Executor
	resolver   *Resolver
	dispatcher *Dispatcher
}

// Option 网关选项
type Option func(*Gateway)

// WithLogger 设置日志记录器
func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

// WithCatalog 替换默认端点目录（测试或扩展用）
func WithCatalog(c *Catalog) Option {
	return func(g *Gateway) {
		g.catalog = c
	}
}

// WithHTTPClient 替换默认 HTTP 客户端
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// newHTTPClient 网关自有的 HTTP 客户端
// 不带 cookie jar：会话凭据由 Session 快照显式附加，
// 避免隐式的 jar 状态在会话替换时出现半新半旧
func newHTTPClient(cfg *Config) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !cfg.VerifySSL, //nolint:gosec // 控制器多为自签名证书，由配置决定
			},
		},
	}
}

// New 创建网关
func New(cfg *Config, opts ...Option) (*Gateway, error) {
	mergedCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}
	if err := mergedCfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gateway{
		cfg:     mergedCfg,
		catalog: DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Default()
	}
	g.log = g.log.Named("unifi")

	if g.client == nil {
		g.client = newHTTPClient(mergedCfg)
	}
	g.sessions = NewSessionManager(mergedCfg, g.client, g.log)
	g.executor = NewExecutor(mergedCfg, g.client, g.sessions, g.log)
	g.resolver = NewResolver(g.executor, g.log)
	g.dispatcher = NewDispatcher(g.catalog, g.executor, g.log)

	return g, nil
}

// Catalog 端点目录
func (g *Gateway) Catalog() *Catalog {
	return g.catalog
}

// Site 网关绑定的站点
func (g *Gateway) Site() string {
	return g.cfg.Site
}

// Execute 执行一个逻辑操作
// 命令端点的操作要求参数中携带 cmd 字段，并走命令分发路径；
// 返回值已经过结构化序列化，可以直接编码为 JSON
func (g *Gateway) Execute(ctx context.Context, operation string, params map[string]any) ([]any, error) {
	op, err := g.catalog.Resolve(operation)
	if err != nil {
		return nil, err
	}

	if op.IsCommand() {
		cmd, ok := params["cmd"].(string)
		if !ok || cmd == "" {
			return nil, &ValidationError{Field: "cmd", Message: "command endpoints require a cmd parameter"}
		}
		args := make(map[string]any, len(params))
		for k, v := range params {
			if k != "cmd" {
				args[k] = v
			}
		}
		return g.Dispatch(ctx, operation, cmd, args)
	}

	env, err := g.resolver.Execute(ctx, op, params)
	if err != nil {
		return nil, err
	}
	return jsonsafe.ToJSONSafeSlice(env.Data), nil
}

// Dispatch 对命令端点执行一个动作
func (g *Gateway) Dispatch(ctx context.Context, endpoint, command string, args map[string]any) ([]any, error) {
	env, err := g.dispatcher.Dispatch(ctx, endpoint, command, args)
	if err != nil {
		return nil, err
	}
	return jsonsafe.ToJSONSafeSlice(env.Data), nil
}

// Login 主动建立会话（可选，首个请求也会按需登录）
func (g *Gateway) Login(ctx context.Context) error {
	_, err := g.sessions.Ensure(ctx)
	return err
}

// Logout 注销会话
func (g *Gateway) Logout(ctx context.Context) error {
	return g.sessions.Logout(ctx)
}

// Close 丢弃会话状态
func (g *Gateway) Close() error {
	g.sessions.Invalidate()
	return nil
}

// String 便于日志输出
func (g *Gateway) String() string {
	return fmt.Sprintf("unifi.Gateway(%s site=%s kind=%s)", g.cfg.Host, g.cfg.Site, g.cfg.ControllerKind)
}
