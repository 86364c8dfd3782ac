package model

import "strings"

// ConfigInfo 定义了一条已评分的分享链接，是整个模块的核心数据结构。
// 只在单次运行的内存中使用，不做持久化；输出文件只保留 Raw 一列。
type ConfigInfo struct {
	// Raw 是完整的分享链接, e.g. "vless://uuid@host:443?type=ws&..."
	Raw string

	// Identity 是 Raw 中第一个 '@' 之前的部分 (scheme + 凭证)。
	// 同一 Identity 出现在多个地址或多个源时视为同一逻辑服务器。
	Identity string

	// Score 是启发式质量评分, 恒大于 0 (0 分的链接不会被保留)。
	Score int

	// Seq 是发现顺序号, 按源列表顺序合并时分配。
	// 作为同分时的显式次级排序键, 保证输出顺序确定。
	Seq int

	// Source 记录最先贡献该链接的源, 仅用于日志。
	Source string
}

// IdentityOf 提取链接的去重键。没有 '@' 的链接返回其自身,
// 这样的链接过不了校验, 但去重键对任何输入都有定义。
func IdentityOf(raw string) string {
	if id, _, ok := strings.Cut(raw, "@"); ok {
		return id
	}
	return raw
}
