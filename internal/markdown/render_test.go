package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, src string) string {
	t.Helper()
	out, err := RenderString(src)
	require.NoError(t, err)
	return out
}

func TestRender_TableAndNestedList(t *testing.T) {
	src := `<h2>Results</h2>
<table>
  <thead><tr><th>A</th><th>B</th></tr></thead>
  <tbody><tr><td>1</td><td>2</td></tr></tbody>
</table>
<ul>
  <li>Item one</li>
  <li>Item two<ol><li>Sub</li></ol></li>
</ul>`

	want := "## Results\n\n" +
		"| A | B |\n" +
		"| --- | --- |\n" +
		"| 1 | 2 |\n\n" +
		"- Item one\n" +
		"- Item two\n" +
		"  1. Sub"
	assert.Equal(t, want, render(t, src))
}

func TestRender_Blocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "headings",
			src:  `<h1>Title</h1><h3>Sub</h3>`,
			want: "# Title\n\n### Sub",
		},
		{
			name: "code block with language",
			src:  "<pre><code class=\"language-go\">fmt.Println(\"hi\")\n  return\n</code></pre>",
			want: "```go\nfmt.Println(\"hi\")\n  return\n```",
		},
		{
			name: "language on pre",
			src:  `<pre class="language-py">x = 1</pre>`,
			want: "```py\nx = 1\n```",
		},
		{
			name: "blockquote",
			src:  `<blockquote><p>one</p><p>two</p></blockquote>`,
			want: "> one\n>\n> two",
		},
		{
			name: "rule and line break",
			src:  `<p>a<br>b</p><hr><p>c</p>`,
			want: "a\nb\n\n---\n\nc",
		},
		{
			name: "ordered items share one marker",
			src:  `<ol start="3"><li>x</li><li>y</li></ol>`,
			want: "1. x\n1. y",
		},
		{
			name: "item holding only a nested list",
			src:  `<ul><li><ul><li>a</li></ul></li></ul>`,
			want: "-\n  - a",
		},
		{
			name: "item opening with a nested ordered list",
			src:  "<ol><li>\n<ol><li>a</li><li>b</li></ol>tail</li></ol>",
			want: "1.\n  1. a\n  1. b\n\n  tail",
		},
		{
			name: "empty item",
			src:  `<ul><li></li></ul>`,
			want: "-",
		},
		{
			name: "paragraphs inside item",
			src:  `<ul><li><p>A</p><p>B</p></li></ul>`,
			want: "- A\n\n  B",
		},
		{
			name: "table without thead",
			src:  `<table><tr><td>h1</td><td>h2</td></tr><tr><td>a|b</td><td>c</td></tr></table>`,
			want: "| h1 | h2 |\n| --- | --- |\n| a\\|b | c |",
		},
		{
			name: "unknown inline element",
			src:  `<message-note>Hello <b>there</b></message-note>`,
			want: "Hello **there**",
		},
		{
			name: "unknown element holding blocks",
			src:  `<custom-wrap><p>a</p><p>b</p></custom-wrap>`,
			want: "a\n\nb",
		},
		{
			name: "text next to blocks",
			src:  `<div>Intro <em>text</em><p>Body</p>Outro</div>`,
			want: "Intro *text*\n\nBody\n\nOutro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.src))
		})
	}
}

func TestRender_Inline(t *testing.T) {
	src := `<p>Use <code>a` + "`" + `b</code> and <strong> bold </strong> text, <em>em</em>, ` +
		`<a href="https://x.io">link</a>, <a href="https://y.io"></a> and <img alt="pic" src="p.png"></p>`

	want := "Use `a\\`b` and **bold** text, *em*, [link](https://x.io), [https://y.io](https://y.io) and ![pic](p.png)"
	assert.Equal(t, want, render(t, src))
}

func TestRender_NormalizesQuotesAndSpaces(t *testing.T) {
	assert.Equal(t, `"quoted" it's here`, render(t, "<p>“quoted” it’s&nbsp;here</p>"))
}

func TestRender_DropsChrome(t *testing.T) {
	src := `<div>
  <p>Answer</p>
  <button>Copy</button>
  <div class="response-toolbar">toolbar text</div>
  <span class="sr-only">You said</span>
  <mat-icon>star</mat-icon>
  <div role="toolbar"><p>actions</p></div>
  <span aria-hidden="true">hidden</span>
  <sources-carousel-inline><p>source</p></sources-carousel-inline>
</div>`

	assert.Equal(t, "Answer", render(t, src))
}

func TestRender_DeepResearchPanel(t *testing.T) {
	src := `<deep-research-immersive-panel>
  <toolbar><button>Share</button><h2>Toolbar title</h2></toolbar>
  <message-content>
    <h1>Report</h1>
    <p>Finding [cite_start]one[cite: 3].</p>
  </message-content>
  <deep-research-source-lists><a href="https://s.io">s</a></deep-research-source-lists>
</deep-research-immersive-panel>`

	assert.Equal(t, "# Report\n\nFinding one.", render(t, src))
}

func TestRender_Idempotent(t *testing.T) {
	src := `<h2>x</h2><ul><li>a<ul><li>b</li></ul></li></ul><table><tr><th>h</th></tr><tr><td>v</td></tr></table>`

	assert.Equal(t, render(t, src), render(t, src))
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", render(t, ""))
	assert.Equal(t, "", render(t, "<div><button>Copy</button></div>"))
}
