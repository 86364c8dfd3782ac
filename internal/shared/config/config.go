package config

import (
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	"vlesspool/internal/shared/types"
)

// LoadIni 加载 collector.ini 行为配置文件并覆盖 cfg 中的默认值。
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return err
	}
	overrideFromEnvInt(&cfg.CollectorConf.RequestTimeoutSeconds, "COLLECTOR_REQUEST_TIMEOUT")
	return nil
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
