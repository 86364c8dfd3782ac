package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"vlesspool/configpool/extractor"
	"vlesspool/internal/shared/logger"
)

// TelegramScraper 实现了 Scraper 接口, 用于抓取公开频道的 t.me/s 预览页。
// 频道消息正文和消息里的链接都可能携带分享链接。
type TelegramScraper struct {
	pageURL   string
	collector *colly.Collector
}

// NewTelegramScraper 创建一个新的 TelegramScraper 实例。
// 接受 t.me/<channel> 或 t.me/s/<channel> 两种形式的 URL。
func NewTelegramScraper(channelURL string, timeout time.Duration) Scraper {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)
	c.SetRequestTimeout(timeout)

	return &TelegramScraper{
		pageURL:   previewURL(channelURL),
		collector: c,
	}
}

// previewURL 将频道 URL 规范化为预览页地址 (t.me/s/<channel>)。
func previewURL(channelURL string) string {
	trimmed := strings.TrimSuffix(channelURL, "/")
	parts := strings.Split(trimmed, "/")
	channel := parts[len(parts)-1]
	return "https://t.me/s/" + channel
}

func (s *TelegramScraper) Name() string {
	return s.pageURL
}

func (s *TelegramScraper) Scrape() ([]string, error) {
	l := logger.WithComponent("Collector/Scraper")
	l.Info().Str("source", s.Name()).Msg("Starting scrape...")

	var links []string
	var scrapeErr error

	s.collector.OnHTML(".tgme_widget_message_text", func(e *colly.HTMLElement) {
		links = append(links, messageLinks(e.DOM)...)
	})

	s.collector.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("failed to fetch %s (status %d): %w", s.pageURL, r.StatusCode, err)
	})

	if err := s.collector.Visit(s.pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", s.pageURL, err)
	}
	s.collector.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}

	l.Info().Int("count", len(links)).Str("source", s.Name()).Msg("Scrape finished.")
	return links, nil
}

// messageLinks 从一条消息节点提取分享链接。正文直接扫描,
// <a> 标签的 href 单独扫一遍, 因为预览页会把长链接截断显示。
func messageLinks(sel *goquery.Selection) []string {
	links := extractor.Extract(sel.Text())
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			links = append(links, extractor.Extract(href)...)
		}
	})
	return links
}
