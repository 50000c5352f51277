package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/mediastore-next/internal/catalog"
	"github.com/mediastore-next/internal/config"
	"github.com/mediastore-next/internal/logger"
)

// 将内置目录数据集导出为 JSON，用于初始化远端目录服务。
func main() {
	var out string
	flag.StringVar(&out, "out", "./seed/products.json", "导出文件路径")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	products := catalog.Dataset()

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		stdLog.Fatalf("创建导出目录失败: %v", err)
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		stdLog.Fatalf("序列化数据集失败: %v", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		stdLog.Fatalf("写入导出文件失败: %v", err)
	}

	stdLog.Printf("已导出 %d 件商品到 %s", len(products), out)
}
