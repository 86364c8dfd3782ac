package scraper

import (
	"net/url"
	"time"
)

// Scraper 接口定义了从一个订阅源抓取分享链接的行为。
type Scraper interface {
	// Scrape 执行抓取操作, 返回按文档顺序排列的分享链接。
	// 实现者只负责抓取和提取, 不做校验评分。
	Scrape() ([]string, error)

	// Name 返回抓取器的名称，用于日志记录。
	Name() string
}

// ForSource 根据源 URL 选择合适的抓取器。
// t.me 的频道页面走 HTML 抓取, 其余按订阅端点处理。
func ForSource(rawURL string, timeout time.Duration) Scraper {
	if u, err := url.Parse(rawURL); err == nil {
		host := u.Hostname()
		if host == "t.me" || host == "telegram.me" {
			return NewTelegramScraper(rawURL, timeout)
		}
	}
	return NewSubscriptionScraper(rawURL, timeout)
}
