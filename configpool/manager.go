package manager

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vlesspool/configpool/model"
	"vlesspool/configpool/scorer"
	"vlesspool/configpool/scraper"
	"vlesspool/configpool/storage"
	"vlesspool/internal/shared/logger"
	"vlesspool/internal/shared/types"
)

// Manager 是收集器模块的总控制器。
// 一次 Run 完成 抓取 -> 提取 -> 评分 -> 去重 -> 输出 的完整流水线,
// 运行之间不保留任何状态。
type Manager struct {
	cfg      *types.Config
	storage  storage.Storage
	scrapers []scraper.Scraper
}

// NewManager 创建并初始化收集器管理器。
func NewManager(cfg *types.Config, storage storage.Storage) *Manager {
	return &Manager{
		cfg:     cfg,
		storage: storage,
	}
}

// AddScraper 添加一个抓取器到管理器。
func (m *Manager) AddScraper(s scraper.Scraper) {
	m.scrapers = append(m.scrapers, s)
}

// AddSources 按源列表顺序为每个 URL 构造抓取器。
// 这个顺序同时决定了发现顺序号 Seq 的分配顺序。
func (m *Manager) AddSources(sources []string) {
	timeout := time.Duration(m.cfg.CollectorConf.RequestTimeoutSeconds) * time.Second
	for _, src := range sources {
		m.AddScraper(scraper.ForSource(src, timeout))
	}
}

// Run 执行一个完整的收集周期, 返回最终的排名结果。
// 单个源的失败只记日志不中断; 结果为空时不写输出文件。
func (m *Manager) Run() ([]*model.ConfigInfo, error) {
	l := logger.WithComponent("Collector/Manager")
	runID := uuid.NewString()
	l.Info().Str("run_id", runID).Int("sources", len(m.scrapers)).Msg("Starting collection cycle...")

	// 并发抓取。每个抓取器写自己的下标槽位, 合并时按源列表顺序遍历,
	// 结果与抓取完成的先后无关。
	results := m.scrapeAll()

	candidates := m.mergeResults(results)
	l.Info().Str("run_id", runID).Int("count", len(candidates)).Msg("Collected unique configs from all sources.")

	scored := scoreAll(candidates)
	l.Info().Str("run_id", runID).Int("count", len(scored)).Msg("Configs passed validation and scoring.")

	ranked := rank(scored)
	l.Info().Str("run_id", runID).Int("count", len(ranked)).Msg("Configs remaining after per-identity dedup.")

	if len(ranked) == 0 {
		l.Warn().Str("run_id", runID).Msg("No config passed the filters. Output file not written.")
		return nil, nil
	}

	if err := m.storage.Save(ranked); err != nil {
		return nil, err
	}
	l.Info().Str("run_id", runID).Msg("Collection cycle finished.")
	return ranked, nil
}

// scrapeAll 并发执行所有抓取器, 返回与 m.scrapers 下标对齐的结果切片。
func (m *Manager) scrapeAll() [][]string {
	l := logger.WithComponent("Collector/Manager")

	results := make([][]string, len(m.scrapers))
	var wg sync.WaitGroup
	for i, s := range m.scrapers {
		wg.Add(1)
		go func(slot int, sc scraper.Scraper) {
			defer wg.Done()
			links, err := sc.Scrape()
			if err != nil {
				l.Warn().Err(err).Str("source", sc.Name()).Msg("Scraper failed.")
				return
			}
			results[slot] = links
		}(i, s)
	}
	wg.Wait()
	return results
}

// mergeResults 按源顺序合并各槽位的链接, 去掉逐字重复,
// 并按首次出现顺序分配 Seq。
func (m *Manager) mergeResults(results [][]string) []*model.ConfigInfo {
	seen := make(map[string]struct{})
	var candidates []*model.ConfigInfo

	for i, links := range results {
		for _, raw := range links {
			if _, exists := seen[raw]; exists {
				continue
			}
			seen[raw] = struct{}{}
			candidates = append(candidates, &model.ConfigInfo{
				Raw:      raw,
				Identity: model.IdentityOf(raw),
				Seq:      len(candidates),
				Source:   m.scrapers[i].Name(),
			})
		}
	}
	return candidates
}

// scoreAll 为每个候选打分, 只保留通过校验 (分数大于 0) 的。
func scoreAll(candidates []*model.ConfigInfo) []*model.ConfigInfo {
	scored := make([]*model.ConfigInfo, 0, len(candidates))
	for _, c := range candidates {
		if score := scorer.Evaluate(c.Raw); score > 0 {
			c.Score = score
			scored = append(scored, c)
		}
	}
	return scored
}

// rank 按分数降序排序 (同分按 Seq 升序), 每个 Identity 只保留最优一条。
func rank(scored []*model.ConfigInfo) []*model.ConfigInfo {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Seq < scored[j].Seq
	})

	seen := make(map[string]struct{})
	var ranked []*model.ConfigInfo
	for _, c := range scored {
		if _, exists := seen[c.Identity]; exists {
			continue
		}
		seen[c.Identity] = struct{}{}
		ranked = append(ranked, c)
	}
	return ranked
}
