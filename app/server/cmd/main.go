package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/egallis31/unifi-network-mcp/app/server/internal/handler"
	"github.com/egallis31/unifi-network-mcp/pkg/config"
	"github.com/egallis31/unifi-network-mcp/pkg/logger"
	"github.com/egallis31/unifi-network-mcp/pkg/unifi"
	"github.com/egallis31/unifi-network-mcp/pkg/web"
	webmetrics "github.com/egallis31/unifi-network-mcp/pkg/web/metrics"
	"github.com/spf13/pflag"
)

// Config 服务配置
type Config struct {
	Log   logger.Config `mapstructure:"log"`
	Web   web.Config    `mapstructure:"web"`
	Unifi unifi.Config  `mapstructure:"unifi"`
}

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	pflag.Parse()

	// 1. 加载配置（环境变量可覆盖文件，前缀 UNIFI_MCP）
	loader := config.NewLoader()
	if err := loader.LoadFile(configPath); err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	loader.BindEnv("UNIFI_MCP")

	var cfg Config
	if err := loader.Unmarshal(&cfg); err != nil {
		fmt.Printf("failed to parse config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	l, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(l)
	defer func() { _ = l.Sync() }()

	// 3. 注册指标
	unifi.InitMetrics(nil)
	webmetrics.InitMetrics(nil)

	// 4. 创建网关
	gateway, err := unifi.New(&cfg.Unifi, unifi.WithLogger(l))
	if err != nil {
		l.Error("failed to create gateway", "error", err)
		os.Exit(1)
	}
	defer gateway.Close()

	// 5. 创建 Web 服务并注册路由
	server, err := web.NewServer(&cfg.Web, l)
	if err != nil {
		l.Error("failed to create web server", "error", err)
		os.Exit(1)
	}
	handler.New(gateway, l).Register(server.Router())

	// 6. 运行，直到收到退出信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l.Info("unifi gateway server starting",
		"controller", cfg.Unifi.Host, "site", cfg.Unifi.Site)
	if err := server.Run(ctx); err != nil {
		l.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
