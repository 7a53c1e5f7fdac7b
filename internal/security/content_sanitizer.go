// Package security は投稿・コメントの入力サニタイズを提供する。
package security

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ContentSanitizerService は投稿とコメントの保存前サニタイズのインターフェース。
type ContentSanitizerService interface {
	// SanitizeHTML は投稿本文向けに許可リストのタグのみを残したHTMLを返す。
	// タグ外のテキストは、タグや文字参照と解釈される箇所だけを実体参照にする。
	// 出力を再度渡しても結果は変わらない。前後の空白は除去する。
	SanitizeHTML(raw string) string

	// SanitizeText はタイトルやコメント向けにタグをすべて除去したプレーンテキストを返す。
	// 文字参照は元の文字に戻し、前後の空白は除去する。
	SanitizeText(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのPolicyは生成後に変更しなければ並行利用できる。
type contentSanitizer struct {
	bodyPolicy *bluemonday.Policy
	textPolicy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceを生成する。
// 本文ポリシー:
//   - 許可タグ: p, br, a, ul, ol, li, blockquote, pre, code, strong, em, img
//   - script, iframe, style および on* イベント属性は除去
//   - imgのsrc属性はhttpsスキームのみ
//   - aタグには target="_blank" と rel="noopener noreferrer" を付与
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(*url.URL) bool {
		return true
	})

	return &contentSanitizer{
		bodyPolicy: p,
		textPolicy: bluemonday.StrictPolicy(),
	}
}

// SanitizeHTML は本文ポリシーでサニタイズし、テキスト部分のエスケープを最小限に戻す。
func (s *contentSanitizer) SanitizeHTML(raw string) string {
	sanitized := s.bodyPolicy.Sanitize(raw)

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(sanitized))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			writeMinimalEscaped(&sb, string(z.Text()))
		default:
			sb.Write(z.Raw())
		}
	}
}

// SanitizeText はすべてのタグを除去する。
func (s *contentSanitizer) SanitizeText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.textPolicy.Sanitize(raw)))
}

// writeMinimalEscaped はHTMLとして読んだときにタグ開始または文字参照になる
// '<' と '&' だけを実体参照にして書き込む。
func writeMinimalEscaped(sb *strings.Builder, text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		var next byte
		if i+1 < len(text) {
			next = text[i+1]
		}
		switch {
		case c == '<' && (isASCIIAlpha(next) || next == '/' || next == '!' || next == '?'):
			sb.WriteString("&lt;")
		case c == '&' && (isASCIIAlpha(next) || isASCIIDigit(next) || next == '#'):
			sb.WriteString("&amp;")
		default:
			sb.WriteByte(c)
		}
	}
}

func isASCIIAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
