package scorer

import (
	"net"
	"net/url"
	"strings"
)

const (
	baseScore       = 10
	port443Bonus    = 10
	ownedHostBonus  = 20
	serverNameBonus = 5
)

// throwawaySuffixes 是免费动态域名/白嫖后缀的黑名单。
// 挂在这些后缀下的服务器通常寿命很短, 不加 ownedHostBonus。
var throwawaySuffixes = []string{".ddns.net", ".xyz", ".pw"}

// Evaluate 对一条分享链接做硬性校验并计算质量评分。
// 返回 0 表示拒绝。纯函数: 任何畸形输入都落在某条拒绝分支上, 不会向外报错。
//
// 硬性校验按顺序:
//  1. 只接受 vless 协议
//  2. 必须能按 URL 解析
//  3. security 必须是 tls
//  4. type 必须是 ws 或 grpc (缺省等价于 tcp, 拒绝)
//  5. grpc 必须带非空 serviceName
//  6. ws 必须带非空 host
func Evaluate(raw string) int {
	if !strings.HasPrefix(raw, "vless://") {
		return 0
	}

	u, err := url.Parse(raw)
	if err != nil {
		return 0
	}
	params := u.Query() // 同名参数取首值 (url.Values.Get)

	if params.Get("security") != "tls" {
		return 0
	}

	transport := params.Get("type")
	switch transport {
	case "ws":
		if params.Get("host") == "" {
			return 0
		}
	case "grpc":
		if params.Get("serviceName") == "" {
			return 0
		}
	default:
		return 0
	}

	score := baseScore
	if u.Port() == "443" {
		score += port443Bonus
	}
	if isOwnedDomain(u.Hostname()) {
		score += ownedHostBonus
	}
	if params.Get("sni") != "" || params.Get("host") != "" {
		score += serverNameBonus
	}
	return score
}

// isOwnedDomain 判断主机名是否像一个自有域名:
// 既不是 IPv4 点分字面量, 也不挂在黑名单后缀下。
func isOwnedDomain(host string) bool {
	if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
		return false
	}
	lower := strings.ToLower(host)
	for _, suffix := range throwawaySuffixes {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	return true
}
