package unifi

import (
	"context"
	"fmt"
	"strings"

	"github.com/egallis31/unifi-network-mcp/pkg/config"
	"github.com/egallis31/unifi-network-mcp/pkg/logger"
)

// Dispatcher 命令分发器
// 多个控制器动作共用一个端点、靠请求体中的 cmd 字段区分，
// 在这里集中做白名单校验，不支持的命令在发出任何网络请求前就失败
type Dispatcher struct {
	catalog  *Catalog
	exec     *Executor
	validate *config.Validator
	log      logger.Logger
}

// NewDispatcher 创建命令分发器
func NewDispatcher(catalog *Catalog, exec *Executor, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Dispatcher{
		catalog:  catalog,
		exec:     exec,
		validate: config.NewValidator(),
		log:      log.Named("unifi.dispatcher"),
	}
}

// Dispatch 校验并执行命令
// 请求体为 {"cmd": <命令>, ...args}；命令端点路径固定，不参与回退
func (d *Dispatcher) Dispatch(ctx context.Context, endpoint, command string, args map[string]any) (*Envelope, error) {
	op, err := d.catalog.Resolve(endpoint)
	if err != nil {
		return nil, err
	}
	if !op.IsCommand() {
		return nil, fmt.Errorf("%w: %s", ErrNotCommandEndpoint, endpoint)
	}
	if !op.AllowsCommand(command) {
		return nil, fmt.Errorf("%w: %q is not accepted by %s (allowed: %s)",
			ErrInvalidCommand, command, endpoint, strings.Join(op.Commands, ", "))
	}

	// 携带 mac 的命令在发送前校验格式
	if mac, ok := args["mac"].(string); ok {
		if err := d.validate.ValidateField(mac, "mac"); err != nil {
			return nil, &ValidationError{Field: "mac", Message: fmt.Sprintf("%q is not a valid MAC address", mac)}
		}
	}

	params := make(map[string]any, len(args)+1)
	for k, v := range args {
		params[k] = v
	}
	params["cmd"] = command

	d.log.Debug("dispatching command", "endpoint", endpoint, "cmd", command)
	return d.exec.Execute(ctx, op, op.Paths[0], params)
}
