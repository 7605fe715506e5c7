package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := New()
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"paragraph", "hello", []string{"<p>hello</p>"}},
		{"emphasis", "**bold** and *it*", []string{"<strong>bold</strong>", "<em>it</em>"}},
		{"list", "- a\n- b", []string{"<ul>", "<li>a</li>", "<li>b</li>"}},
		{"ordered", "1. one\n2. two", []string{"<ol>", "<li>one</li>"}},
		{"inline code", "run `go test`", []string{"<code>go test</code>"}},
		{"fenced code", "```\nx := 1\n```", []string{"<pre><code>x := 1\n</code></pre>"}},
		{"link", "[resume](/resume)", []string{`<a href="/resume">resume</a>`}},
		{"autolink", "see https://example.com now", []string{`<a href="https://example.com">https://example.com</a>`}},
		{"hard wrap", "line one\nline two", []string{"line one<br>"}},
		{"raw html kept", "<script>x</script>", []string{"<script>x</script>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("expected %q in %q", w, got)
				}
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	got, err := New().Render("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
