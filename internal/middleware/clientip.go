package middleware

import (
	"net"
	"net/http"
)

// ClientIP はリクエスト元のIPアドレスを返す。
// chiのRealIPミドルウェアの後ではRemoteAddrがポートなしのIPに置き換わっているため、
// ポートの有無どちらにも対応する。
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
