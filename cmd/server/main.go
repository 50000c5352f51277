package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/mediastore-next/internal/app"
	"github.com/mediastore-next/internal/cache"
	"github.com/mediastore-next/internal/config"
	"github.com/mediastore-next/internal/logger"
	"github.com/mediastore-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 初始化本地数据库（会话键持久化）
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化 Redis（目录缓存，可选）
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		stdLog.Printf("警告: Redis 初始化失败，目录缓存已禁用: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + "███╗   ███╗███████╗██████╗ ██╗ █████╗ ███████╗████████╗ ██████╗ ██████╗ ███████╗" + ansiReset)
	fmt.Println(ansiCyan + "████╗ ████║██╔════╝██╔══██╗██║██╔══██╗██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗██╔════╝" + ansiReset)
	fmt.Println(ansiCyan + "██╔████╔██║█████╗  ██║  ██║██║███████║███████╗   ██║   ██║   ██║██████╔╝█████╗  " + ansiReset)
	fmt.Println(ansiCyan + "██║╚██╔╝██║██╔══╝  ██║  ██║██║██╔══██║╚════██║   ██║   ██║   ██║██╔══██╗██╔══╝  " + ansiReset)
	fmt.Println(ansiCyan + "██║ ╚═╝ ██║███████╗██████╔╝██║██║  ██║███████║   ██║   ╚██████╔╝██║  ██║███████╗" + ansiReset)
	fmt.Println(ansiCyan + "╚═╝     ╚═╝╚══════╝╚═════╝ ╚═╝╚═╝  ╚═╝╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "MediaStore Next · Storefront Gateway" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
