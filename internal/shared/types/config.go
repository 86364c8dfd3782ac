package types

// CollectorConf 包含收集器行为配置。
type CollectorConf struct {
	SourcesFile           string `ini:"sources_file"`            // 订阅源列表文件, 每行一个 URL
	OutputFile            string `ini:"output_file"`             // 过滤后的配置输出文件
	RequestTimeoutSeconds int    `ini:"request_timeout_seconds"` // 单个源的请求超时
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config 是收集器的统一配置结构体 (只包含行为配置)
type Config struct {
	CollectorConf `ini:"collector"`
	LogConf       `ini:"log"`
}

// Default 返回内置默认配置。collector.ini 不存在时直接使用。
func Default() *Config {
	return &Config{
		CollectorConf: CollectorConf{
			SourcesFile:           "sources.txt",
			OutputFile:            "filtered_configs.txt",
			RequestTimeoutSeconds: 15,
		},
		LogConf: LogConf{
			Level: "info",
		},
	}
}
