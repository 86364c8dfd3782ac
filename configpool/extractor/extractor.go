package extractor

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"vlesspool/internal/shared/logger"
)

// schemeRegex 匹配受支持的 scheme 前缀。链接体是前缀之后一段不含空白和
// 引号/尖括号的最长字符序列; RE2 没有 lookahead, 所以链接边界不写进正则,
// 由 Extract 按前缀位置切分。直接拼接、无分隔符的多条链接也能逐条切出。
var schemeRegex = regexp.MustCompile(`(?:vless|vmess)://`)

// DecodeBase64 解码可能缺失 padding 的 Base64 内容。
// 解码失败或结果不是合法 UTF-8 时返回空串, 只记 warning, 不向上抛错。
func DecodeBase64(encoded string) string {
	l := logger.WithComponent("Collector/Extractor")

	// 订阅端点返回的 Base64 常被换行切分, 解码前先去掉所有空白。
	compact := strings.Join(strings.Fields(encoded), "")
	padded := compact + strings.Repeat("=", (4-len(compact)%4)%4)

	decoded, err := base64.StdEncoding.DecodeString(padded)
	if err != nil {
		l.Warn().Err(err).Msg("Failed to decode Base64 payload.")
		return ""
	}
	if !utf8.Valid(decoded) {
		l.Warn().Msg("Decoded Base64 payload is not valid UTF-8.")
		return ""
	}
	return string(decoded)
}

// Extract 扫描任意文本, 按文档顺序返回其中所有分享链接。
// 每条链接从一个 scheme 前缀延伸到下一个前缀、终止字符或文本结尾,
// 以先到者为准; 前缀后没有内容的不算链接。
func Extract(text string) []string {
	locs := schemeRegex.FindAllStringIndex(text, -1)
	var links []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := text[loc[1]:end]
		if cut := strings.IndexFunc(body, isStopChar); cut >= 0 {
			body = body[:cut]
		}
		if body == "" {
			continue
		}
		links = append(links, text[loc[0]:loc[1]]+body)
	}
	return links
}

func isStopChar(r rune) bool {
	return unicode.IsSpace(r) || r == '\'' || r == '"' || r == '<' || r == '>'
}

// ExtractPayload 处理一个订阅响应体。订阅端点既可能返回明文链接列表,
// 也可能返回整体 Base64 编码的列表: 文本中不含任何 scheme 字面量时
// 视为后者, 先解码再提取。
func ExtractPayload(payload string) []string {
	if !strings.Contains(payload, "vmess://") && !strings.Contains(payload, "vless://") {
		payload = DecodeBase64(payload)
	}
	return Extract(payload)
}
