package security

import (
	"strings"
	"testing"
)

func TestSanitizeHTML_AllowedTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name         string
		input        string
		wantContains []string
	}{
		{
			name:         "pタグが許可される",
			input:        "<p>本文</p>",
			wantContains: []string{"<p>本文</p>"},
		},
		{
			name:         "リストが許可される",
			input:        "<ul><li>a</li><li>b</li></ul>",
			wantContains: []string{"<ul>", "<li>a</li>", "</ul>"},
		},
		{
			name:         "コードブロックが許可される",
			input:        "<pre><code>func main() {}</code></pre>",
			wantContains: []string{"<pre><code>func main() {}</code></pre>"},
		},
		{
			name:         "https imgが許可される",
			input:        `<img src="https://example.com/a.png" alt="a">`,
			wantContains: []string{`src="https://example.com/a.png"`, `alt="a"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeHTML(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("SanitizeHTML(%q) = %q, want to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

func TestSanitizeHTML_RemovesDangerousContent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name       string
		input      string
		wantAbsent string
	}{
		{"scriptタグが除去される", `<p>x</p><script>alert(1)</script>`, "<script"},
		{"iframeタグが除去される", `<iframe src="https://evil.example"></iframe>`, "<iframe"},
		{"onclickが除去される", `<p onclick="alert(1)">x</p>`, "onclick"},
		{"http imgが拒否される", `<img src="http://example.com/a.png">`, "http://"},
		{"javascript URLが拒否される", `<a href="javascript:alert(1)">x</a>`, "javascript:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeHTML(tt.input)
			if strings.Contains(got, tt.wantAbsent) {
				t.Errorf("SanitizeHTML(%q) = %q, must not contain %q", tt.input, got, tt.wantAbsent)
			}
		})
	}
}

func TestSanitizeHTML_AnchorAttributes(t *testing.T) {
	got := NewContentSanitizer().SanitizeHTML(`<a href="https://example.com">link</a>`)

	for _, want := range []string{`target="_blank"`, "noopener", "noreferrer"} {
		if !strings.Contains(got, want) {
			t.Errorf("SanitizeHTML() = %q, want to contain %q", got, want)
		}
	}
}

func TestSanitizeHTML_PlainTextUnchanged(t *testing.T) {
	got := NewContentSanitizer().SanitizeHTML("  First  ")
	if got != "First" {
		t.Errorf("SanitizeHTML() = %q, want %q", got, "First")
	}
}

func TestSanitizeHTML_TextOutsideTagsKeptReadable(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"演算子はそのまま", "if a && b < c", "if a && b < c"},
		{"タグ内のテキストもそのまま", "<p>x &amp; y > z</p>", "<p>x & y > z</p>"},
		{"コードブロック", "<pre><code>a < b && c</code></pre>", "<pre><code>a < b && c</code></pre>"},
		{"タグに見える文字列はエスケープを維持", "&lt;script&gt;alert(1)", "&lt;script>alert(1)"},
		{"文字参照に見える文字列はエスケープを維持", "Q&amp;A &amp;copy", "Q&amp;A &amp;copy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.SanitizeHTML(tt.input); got != tt.want {
				t.Errorf("SanitizeHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeHTML_OutputIsFixedPoint(t *testing.T) {
	sanitizer := NewContentSanitizer()

	inputs := []string{
		"if a && b < c",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"Q&amp;A &amp;amp; <b>x</b>",
		`<p>1 < 2 &amp; <a href="https://example.com">a&b</a></p>`,
	}
	for _, input := range inputs {
		once := sanitizer.SanitizeHTML(input)
		twice := sanitizer.SanitizeHTML(once)
		if once != twice {
			t.Errorf("SanitizeHTML(%q): %q != %q", input, once, twice)
		}
		if strings.Contains(once, "<script") {
			t.Errorf("SanitizeHTML(%q) = %q, must not contain <script", input, once)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		input string
		want  string
	}{
		{"Hi", "Hi"},
		{"  spaced  ", "spaced"},
		{"<b>bold</b> title", "bold title"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"<script>alert(1)</script>", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sanitizer.SanitizeText(tt.input); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()
	input := `<p>a <a href="https://example.com">b</a></p><script>x</script>`

	once := sanitizer.SanitizeHTML(input)
	twice := sanitizer.SanitizeHTML(once)
	if once != twice {
		t.Errorf("SanitizeHTML is not idempotent: %q != %q", once, twice)
	}
}
