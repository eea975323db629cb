package markdown

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ")

// table renders a GFM table. Headers come from thead, or the first row when
// there is no thead.
func table(n *html.Node) []string {
	t := goquery.NewDocumentFromNode(n).Selection

	var head, body *goquery.Selection
	if h := t.Find("thead tr").First(); h.Length() > 0 {
		head = h
		body = t.Find("tr").Not("thead tr")
	} else {
		rows := t.Find("tr")
		head = rows.First()
		body = rows.Slice(1, goquery.ToEnd)
	}

	headers := rowCells(head)
	if len(headers) == 0 {
		return nil
	}

	delim := make([]string, len(headers))
	for i := range delim {
		delim[i] = "---"
	}

	out := []string{tableRow(headers), tableRow(delim)}
	body.Each(func(_ int, row *goquery.Selection) {
		if cells := rowCells(row); len(cells) > 0 {
			out = append(out, tableRow(cells))
		}
	})
	return append(out, "")
}

func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Children().Filter("th, td").Each(func(_ int, cell *goquery.Selection) {
		text := strings.Join(paragraph(inlineChildren(cell.Get(0))), " ")
		cells = append(cells, cellReplacer.Replace(text))
	})
	return cells
}

func tableRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}
