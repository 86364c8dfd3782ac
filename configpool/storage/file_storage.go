package storage

import (
	"bufio"
	"os"
	"strings"

	"vlesspool/configpool/model"
	"vlesspool/internal/shared/logger"
)

// Storage 接口定义了收集器的外部 I/O: 读源列表, 写结果列表。
type Storage interface {
	LoadSources() ([]string, error)
	Save(configs []*model.ConfigInfo) error
}

// FileStorage 实现了 Storage 接口, 使用纯文本文件。
type FileStorage struct {
	sourcesPath string
	outputPath  string
}

// NewFileStorage 创建一个新的 FileStorage 实例。
func NewFileStorage(sourcesPath, outputPath string) *FileStorage {
	return &FileStorage{
		sourcesPath: sourcesPath,
		outputPath:  outputPath,
	}
}

// LoadSources 从源列表文件读取订阅源 URL, 每行一个。
// 空行和 '#' 注释行跳过, 前后空白去掉。文件不存在时错误原样返回,
// 由调用方决定是否致命 (收集器在发起任何网络请求前就会因此退出)。
func (fs *FileStorage) LoadSources() ([]string, error) {
	file, err := os.Open(fs.sourcesPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var sources []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	l := logger.WithComponent("Collector/Storage")
	l.Info().Int("count", len(sources)).Str("path", fs.sourcesPath).
		Msg("Successfully loaded sources from file.")
	return sources, nil
}

// Save 将结果列表按给定顺序写入输出文件, 每行一条链接。
// 调用方保证列表非空; 空结果根本不会走到这里。
func (fs *FileStorage) Save(configs []*model.ConfigInfo) error {
	var sb strings.Builder
	for _, c := range configs {
		sb.WriteString(c.Raw)
		sb.WriteString("\n")
	}

	if err := os.WriteFile(fs.outputPath, []byte(sb.String()), 0644); err != nil {
		return err
	}

	l := logger.WithComponent("Collector/Storage")
	l.Info().Int("count", len(configs)).Str("path", fs.outputPath).
		Msg("Successfully saved configs to file.")
	return nil
}
