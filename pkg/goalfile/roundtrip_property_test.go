package goalfile

import (
	"fmt"
	"slices"
	"testing"
	"unicode"

	"pgregory.net/rapid"

	"github.com/stefanpenner/planlog/pkg/store"
)

func genText() *rapid.Generator[string] {
	return rapid.StringOf(rapid.OneOf(
		rapid.RuneFrom([]rune{'\\', '"', '\n', '\r', '\t', '\x01', '\x7f', '#', '[', ']', '='}),
		rapid.RuneFrom(nil, unicode.L, unicode.N, unicode.P, unicode.Zs),
	))
}

func genDate() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Custom(func(t *rapid.T) string {
			return fmt.Sprintf("2026-%02d-%02d",
				rapid.IntRange(1, 12).Draw(t, "month"),
				rapid.IntRange(1, 28).Draw(t, "day"))
		}),
		genText(),
	)
}

// genGoal draws a goal whose plan titles are distinct and whose log
// references all point at existing plans.
func genGoal() *rapid.Generator[*store.Goal] {
	return rapid.Custom(func(t *rapid.T) *store.Goal {
		g := &store.Goal{
			ID:          "g",
			Title:       genText().Draw(t, "title"),
			Description: genText().Draw(t, "description"),
			StartDate:   genDate().Draw(t, "start"),
			EndDate:     genDate().Draw(t, "end"),
		}

		titles := rapid.SliceOfNDistinct(genText(), 0, 6, rapid.ID[string]).Draw(t, "plan titles")
		for i, title := range titles {
			g.Plans = append(g.Plans, store.Plan{
				ID:          fmt.Sprintf("p%d", i),
				Title:       title,
				Description: genText().Draw(t, "plan description"),
				StartDate:   genDate().Draw(t, "plan start"),
				EndDate:     genDate().Draw(t, "plan end"),
				Completed:   rapid.Bool().Draw(t, "completed"),
				GoalID:      g.ID,
			})
		}

		nLogs := rapid.IntRange(0, 5).Draw(t, "logs")
		for i := range nLogs {
			var related []string
			if len(g.Plans) > 0 {
				idx := rapid.SliceOfNDistinct(rapid.IntRange(0, len(g.Plans)-1), 0, len(g.Plans), rapid.ID[int]).Draw(t, "related")
				for _, j := range idx {
					related = append(related, g.Plans[j].ID)
				}
			}
			g.Logs = append(g.Logs, store.LogEntry{
				ID:             fmt.Sprintf("l%d", i),
				Date:           genDate().Draw(t, "log date"),
				Content:        genText().Draw(t, "content"),
				GoalID:         g.ID,
				RelatedPlanIDs: related,
			})
		}
		return g
	})
}

func relatedTitleList(g *store.Goal, l store.LogEntry) []string {
	var out []string
	for _, id := range l.RelatedPlanIDs {
		if p := g.Plan(id); p != nil {
			out = append(out, p.Title)
		}
	}
	return out
}

func TestEncodeImport_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genGoal().Draw(t, "goal")

		got, err := Import(Encode(g))
		if err != nil {
			t.Fatalf("import of encoded goal failed: %v\n%s", err, Encode(g))
		}

		if got.Title != g.Title || got.Description != g.Description ||
			got.StartDate != g.StartDate || got.EndDate != g.EndDate {
			t.Fatalf("goal fields differ: got %+v want %+v", got, g)
		}

		if len(got.Plans) != len(g.Plans) {
			t.Fatalf("got %d plans, want %d", len(got.Plans), len(g.Plans))
		}
		for i, p := range g.Plans {
			q := got.Plans[i]
			if q.Title != p.Title || q.Description != p.Description ||
				q.StartDate != p.StartDate || q.EndDate != p.EndDate {
				t.Fatalf("plan %d differs: got %+v want %+v", i, q, p)
			}
			if q.GoalID != got.ID {
				t.Fatalf("plan %d owned by %q, want %q", i, q.GoalID, got.ID)
			}
		}

		if len(got.Logs) != len(g.Logs) {
			t.Fatalf("got %d logs, want %d", len(got.Logs), len(g.Logs))
		}
		for i, l := range g.Logs {
			m := got.Logs[i]
			if m.Date != l.Date || m.Content != l.Content {
				t.Fatalf("log %d differs: got %+v want %+v", i, m, l)
			}
			want, have := relatedTitleList(g, l), relatedTitleList(got, m)
			if !slices.Equal(want, have) {
				t.Fatalf("log %d related plans: got %q want %q", i, have, want)
			}
		}
	})
}
