// Package markdown renders chat page HTML into Markdown.
//
// Rendering walks the node tree in two mutually recursive modes: block mode
// produces lines, inline mode produces a string. UI chrome such as buttons,
// toolbars and hidden labels is dropped along with its subtree.
package markdown

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Render converts the subtree rooted at n to Markdown.
func Render(n *html.Node) string {
	lines := collapseBlank(blockLines(n))
	return StripCitations(strings.Join(lines, "\n"))
}

// RenderString parses an HTML fragment or document and renders it.
func RenderString(s string) (string, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	return Render(doc), nil
}

func blockLines(n *html.Node) []string {
	switch n.Type {
	case html.DocumentNode:
		return childBlocks(n)
	case html.TextNode:
		t := strings.TrimSpace(normalizeText(n.Data))
		if t == "" {
			return nil
		}
		return []string{t, ""}
	case html.ElementNode:
	default:
		return nil
	}
	if isChrome(n) {
		return nil
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := strings.Join(paragraph(inlineChildren(n)), " ")
		if text == "" {
			return nil
		}
		level := int(n.Data[1] - '0')
		return []string{strings.Repeat("#", level) + " " + text, ""}
	case "p":
		lines := paragraph(inlineChildren(n))
		if len(lines) == 0 {
			return nil
		}
		return append(lines, "")
	case "br":
		return []string{""}
	case "hr":
		return []string{"---", ""}
	case "blockquote":
		return blockquote(n)
	case "pre":
		return codeBlock(n)
	case "ul":
		return list(n, false)
	case "ol":
		return list(n, true)
	case "table":
		return table(n)
	}

	if blockTags[n.Data] || wrapperTags[n.Data] || hasBlockContent(n) {
		return childBlocks(n)
	}
	lines := paragraph(inline(n))
	if len(lines) == 0 {
		return nil
	}
	return append(lines, "")
}

// childBlocks renders children, grouping consecutive inline nodes into one paragraph.
func childBlocks(n *html.Node) []string {
	var out []string
	var run strings.Builder
	flush := func() {
		if lines := paragraph(run.String()); len(lines) > 0 {
			out = append(out, lines...)
			out = append(out, "")
		}
		run.Reset()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isInline(c) {
			run.WriteString(inline(c))
			continue
		}
		flush()
		out = append(out, blockLines(c)...)
	}
	flush()
	return out
}

func blockquote(n *html.Node) []string {
	inner := trimBlank(collapseBlank(childBlocks(n)))
	if len(inner) == 0 {
		return nil
	}
	out := make([]string, 0, len(inner)+1)
	for _, l := range inner {
		if l == "" {
			out = append(out, ">")
		} else {
			out = append(out, "> "+l)
		}
	}
	return append(out, "")
}

func codeBlock(n *html.Node) []string {
	src := n
	lang := language(n)
	if code := findFirst(n, "code"); code != nil {
		src = code
		if l := language(code); l != "" {
			lang = l
		}
	}
	text := strings.TrimSuffix(textContent(src), "\n")

	out := []string{"```" + lang}
	out = append(out, strings.Split(text, "\n")...)
	return append(out, "```", "")
}

// list renders ul/ol. Ordered items all use the "1." marker and nested
// content is indented two columns under its item.
func list(n *html.Node, ordered bool) []string {
	marker := "-"
	if ordered {
		marker = "1."
	}

	var out []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || isChrome(c) {
			continue
		}

		lines := listItem(c)
		if len(lines) == 0 {
			out = append(out, marker)
			continue
		}
		// An item opening with a nested list keeps its marker on a line of its own.
		if startsWithList(c) {
			out = append(out, marker)
		} else {
			out = append(out, marker+" "+lines[0])
			lines = lines[1:]
		}
		for _, l := range lines {
			if l == "" {
				out = append(out, "")
			} else {
				out = append(out, "  "+l)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return append(out, "")
}

func listItem(n *html.Node) []string {
	var lines []string
	var run strings.Builder
	flush := func() {
		lines = append(lines, paragraph(run.String())...)
		run.Reset()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isInline(c) {
			run.WriteString(inline(c))
			continue
		}
		flush()
		lines = append(lines, blockLines(c)...)
	}
	flush()
	return trimBlank(collapseBlank(lines))
}

// startsWithList reports whether the first rendered child of li is a list.
func startsWithList(li *html.Node) bool {
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) == "":
			continue
		case c.Type == html.CommentNode:
			continue
		case c.Type == html.ElementNode && isChrome(c):
			continue
		}
		return c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol")
	}
	return false
}

// collapseBlank strips trailing spaces and merges consecutive blank lines.
func collapseBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		blank := l == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, l)
		prevBlank = blank
	}
	return out
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
