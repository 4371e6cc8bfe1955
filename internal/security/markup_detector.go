// Package security はアプリケーションのセキュリティ機能を提供する。
//
// MarkupDetectorService は予約フォームの自由記述欄にHTMLらしき記述が含まれるかを判定する。
// 判定のみを行い、入力は変更しない。応答はJSONのため保存値はクライアントの入力のまま扱う。
package security

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// MarkupDetectorService はマークアップ検出のインターフェースを定義する。
type MarkupDetectorService interface {
	// ContainsMarkup はbluemondayのStrictPolicyで除去される記述を含む場合にtrueを返す。
	// "&"のような単独の記号はマークアップとみなさない。
	ContainsMarkup(raw string) bool
}

// markupDetector はMarkupDetectorServiceの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type markupDetector struct {
	policy *bluemonday.Policy
}

// NewMarkupDetector はMarkupDetectorServiceの新しいインスタンスを生成する。
func NewMarkupDetector() *markupDetector {
	return &markupDetector{
		policy: bluemonday.StrictPolicy(),
	}
}

// ContainsMarkup はStrictPolicy適用後のテキストが入力と異なるかを返す。
func (d *markupDetector) ContainsMarkup(raw string) bool {
	if raw == "" {
		return false
	}
	return html.UnescapeString(d.policy.Sanitize(raw)) != raw
}
