package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	manager "vlesspool/configpool"
	"vlesspool/configpool/storage"
	"vlesspool/internal/shared/config"
	"vlesspool/internal/shared/logger"
	"vlesspool/internal/shared/types"
)

func main() {
	configDir := flag.String("configdir", "configs", "Path to config directory")
	flag.Parse()

	iniPath := filepath.Join(*configDir, "collector.ini")

	// 1. 加载 .ini 行为配置, 文件缺失时用内置默认值
	cfg := types.Default()
	if err := config.LoadIni(cfg, iniPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", iniPath, err)
		os.Exit(1)
	}

	// 1.1 初始化日志系统
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	sourcesPath := resolvePath(*configDir, cfg.CollectorConf.SourcesFile)
	outputPath := resolvePath(*configDir, cfg.CollectorConf.OutputFile)
	st := storage.NewFileStorage(sourcesPath, outputPath)

	// 2. 加载源列表。缺失是致命错误, 在发起任何网络请求之前退出。
	sources, err := st.LoadSources()
	if err != nil {
		logger.Fatal().Err(err).Msgf("Failed to load sources file '%s'", sourcesPath)
	}

	// 3. 创建管理器并执行一次收集周期
	m := manager.NewManager(cfg, st)
	m.AddSources(sources)
	if _, err := m.Run(); err != nil {
		logger.Fatal().Err(err).Msg("Collection cycle failed")
	}
}

// resolvePath 将相对路径解释为相对于配置目录。
func resolvePath(configDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}
