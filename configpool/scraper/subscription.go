package scraper

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"vlesspool/configpool/extractor"
	"vlesspool/internal/shared/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

// SubscriptionScraper 实现了 Scraper 接口, 用于抓取订阅端点。
// 端点返回明文链接列表或整体 Base64 编码的列表, 由 extractor 自动识别。
type SubscriptionScraper struct {
	url    string
	client *http.Client
}

// NewSubscriptionScraper 创建一个新的实例。每个源一次请求, 无重试。
func NewSubscriptionScraper(url string, timeout time.Duration) Scraper {
	return &SubscriptionScraper{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *SubscriptionScraper) Name() string {
	return s.url
}

func (s *SubscriptionScraper) Scrape() ([]string, error) {
	l := logger.WithComponent("Collector/Scraper")
	l.Info().Str("source", s.Name()).Msg("Starting scrape...")

	req, err := http.NewRequest("GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", s.url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("received non-success status code (%d) from %s", resp.StatusCode, s.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", s.url, err)
	}

	links := extractor.ExtractPayload(string(body))
	l.Info().Int("count", len(links)).Str("source", s.Name()).Msg("Scrape finished.")
	return links, nil
}
