package reporttext

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/Garsondee/battle-report/internal/report"
)

// Line is one display line of resolved report text with its markup removed.
type Line struct {
	Text string
	// Debug is set for lines that were inside debug markers.
	Debug bool
	// Entities lists the entity ids linked from the line, in order.
	Entities []string
}

// Plain strips the HTML markup from resolved text and splits it into lines.
// Entities such as &nbsp; are decoded, with non-breaking spaces turned into
// plain spaces.
func Plain(text string) []Line {
	var (
		lines []Line
		cur   Line
		sb    strings.Builder
		debug bool
	)
	flush := func() {
		cur.Text = sb.String()
		lines = append(lines, cur)
		cur = Line{Debug: debug}
		sb.Reset()
	}
	cur.Debug = debug

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if sb.Len() > 0 || len(lines) == 0 {
				flush()
			}
			return lines
		case html.TextToken:
			for i, part := range strings.Split(string(z.Text()), "\n") {
				if i > 0 {
					flush()
				}
				sb.WriteString(strings.ReplaceAll(part, "\u00a0", " "))
			}
		case html.StartTagToken, html.EndTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "hidden":
				debug = tt == html.StartTagToken
				cur.Debug = cur.Debug || debug
			case "a":
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" && strings.HasPrefix(string(val), report.EntityLink) {
						cur.Entities = append(cur.Entities, strings.TrimPrefix(string(val), report.EntityLink))
					}
				}
			}
		}
	}
}
