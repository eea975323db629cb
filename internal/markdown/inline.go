package markdown

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

func inlineChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(inline(c))
	}
	return b.String()
}

// inline renders n as Markdown text without line structure other than <br>.
func inline(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return normalizeText(n.Data)
	case html.ElementNode:
	default:
		return ""
	}
	if isChrome(n) {
		return ""
	}

	switch n.Data {
	case "strong", "b":
		return wrap(inlineChildren(n), "**")
	case "em", "i":
		return wrap(inlineChildren(n), "*")
	case "code":
		if n.Parent != nil && isElement(n.Parent, "pre") {
			return textContent(n)
		}
		return "`" + strings.ReplaceAll(textContent(n), "`", "\\`") + "`"
	case "a":
		text := strings.TrimSpace(inlineChildren(n))
		href := attr(n, "href")
		if href == "" {
			return text
		}
		if text == "" {
			text = href
		}
		return "[" + text + "](" + href + ")"
	case "img":
		return "![" + attr(n, "alt") + "](" + attr(n, "src") + ")"
	case "br":
		return "\n"
	}
	return inlineChildren(n)
}

// wrap puts marker around s, keeping surrounding whitespace outside it.
func wrap(s, marker string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	lead := s[:strings.Index(s, trimmed)]
	trail := s[len(lead)+len(trimmed):]
	return lead + marker + trimmed + marker + trail
}

var doubleSpace = regexp.MustCompile(`[ \t]{2,}`)

// paragraph tidies an inline run into lines.
func paragraph(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		lines = append(lines, strings.TrimSpace(doubleSpace.ReplaceAllString(l, " ")))
	}
	return trimBlank(lines)
}
