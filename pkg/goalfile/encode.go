package goalfile

import (
	"fmt"
	"strings"

	"github.com/stefanpenner/planlog/pkg/store"
)

// Encode renders a goal as a TOML document: the [goal] table, then every
// plan, then every log, each followed by a blank line. Related plan IDs are
// written back as plan titles; IDs that no longer resolve are left out, and
// a log with nothing left to reference has no related_plans key.
//
// Decoding the output yields the same titles, descriptions, dates and log
// links, provided the text is valid UTF-8; invalid bytes come back as
// U+FFFD. Identifiers, completion flags and derived state are not part of
// the document.
func Encode(g *store.Goal) string {
	var b strings.Builder

	b.WriteString("[goal]\n")
	writeField(&b, "title", g.Title)
	writeField(&b, "description", g.Description)
	writeField(&b, "start_date", g.StartDate)
	writeField(&b, "end_date", g.EndDate)
	b.WriteString("\n")

	for _, p := range g.Plans {
		b.WriteString("[[plans]]\n")
		writeField(&b, "title", p.Title)
		writeField(&b, "description", p.Description)
		writeField(&b, "start_date", p.StartDate)
		writeField(&b, "end_date", p.EndDate)
		b.WriteString("\n")
	}

	for _, l := range g.Logs {
		b.WriteString("[[logs]]\n")
		writeField(&b, "date", l.Date)
		writeField(&b, "content", l.Content)

		if titles := relatedTitles(g, l); len(titles) > 0 {
			quoted := make([]string, len(titles))
			for i, t := range titles {
				quoted[i] = quote(t)
			}
			fmt.Fprintf(&b, "related_plans = [%s]\n", strings.Join(quoted, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func relatedTitles(g *store.Goal, l store.LogEntry) []string {
	var titles []string
	for _, id := range l.RelatedPlanIDs {
		if p := g.Plan(id); p != nil {
			titles = append(titles, p.Title)
		}
	}
	return titles
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(" = ")
	b.WriteString(quote(value))
	b.WriteString("\n")
}

// quote renders s as a TOML basic string. Characters are escaped in a single
// pass, so the backslash introduced by one escape is never escaped again.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
