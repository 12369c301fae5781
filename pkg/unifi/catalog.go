package unifi

import (
	"fmt"
	"sort"
)

// Generation 控制器 REST API 代际
// 两代 API 使用不同的路径前缀和响应结构
type Generation string

const (
	// GenerationV1 旧式 API，站点前缀为 /api/s/{site}
	GenerationV1 Generation = "v1"

	// GenerationV2 新式 API，站点前缀为 /v2/api/site/{site}
	GenerationV2 Generation = "v2"
)

// Operation 操作描述符
// 启动时注册一次，之后只读共享，所有字段不可变
type Operation struct {
	// Name 逻辑操作名，如 "list_clients"
	Name string

	// Generation API 代际，决定站点前缀
	Generation Generation

	// Method HTTP 方法
	Method string

	// Paths 候选路径模板，首个为主路径，其余为回退路径
	// 模板中的 {xxx} 占位符在执行时由参数替换
	Paths []string

	// Absolute 为 true 时路径不做站点前缀拼接（如 /api/self/sites）
	Absolute bool

	// Commands 命令端点的动作白名单，普通端点为空
	Commands []string
}

// IsCommand 是否为命令分发端点
func (op Operation) IsCommand() bool {
	return len(op.Commands) > 0
}

// AllowsCommand 命令是否在白名单中
func (op Operation) AllowsCommand(cmd string) bool {
	for _, c := range op.Commands {
		if c == cmd {
			return true
		}
	}
	return false
}

// Catalog 端点目录
// 逻辑操作名到描述符的静态映射，构建后不再修改，可被并发读取
type Catalog struct {
	ops map[string]Operation
}

// NewCatalog 创建端点目录
func NewCatalog(ops ...Operation) *Catalog {
	c := &Catalog{
		ops: make(map[string]Operation, len(ops)),
	}
	for _, op := range ops {
		c.ops[op.Name] = op
	}
	return c
}

// Resolve 按操作名查找描述符
func (c *Catalog) Resolve(name string) (Operation, error) {
	op, ok := c.ops[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return op, nil
}

// Names 返回所有已注册的操作名（有序）
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.ops))
	for name := range c.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
