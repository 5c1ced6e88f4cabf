package goalfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/planlog/pkg/store"
)

func setupGoal() *store.Goal {
	return &store.Goal{
		ID:          "g1",
		Title:       "Launch",
		Description: "Ship the beta",
		StartDate:   "2026-02-01",
		EndDate:     "2026-03-01",
		Progress:    50,
		Status:      store.StatusInProgress,
		Plans: []store.Plan{
			{ID: "p1", Title: "Setup", StartDate: "2026-02-01", EndDate: "2026-02-07", Completed: true, GoalID: "g1"},
			{ID: "p2", Title: "Polish", Description: "UI pass", GoalID: "g1"},
		},
		Logs: []store.LogEntry{
			{ID: "l1", Date: "2026-02-02", Content: "Repo created", GoalID: "g1", RelatedPlanIDs: []string{"p1"}},
			{ID: "l2", Date: "2026-02-03", Content: "Thinking", GoalID: "g1"},
		},
	}
}

func TestEncode(t *testing.T) {
	want := `[goal]
title = "Launch"
description = "Ship the beta"
start_date = "2026-02-01"
end_date = "2026-03-01"

[[plans]]
title = "Setup"
description = ""
start_date = "2026-02-01"
end_date = "2026-02-07"

[[plans]]
title = "Polish"
description = "UI pass"
start_date = ""
end_date = ""

[[logs]]
date = "2026-02-02"
content = "Repo created"
related_plans = ["Setup"]

[[logs]]
date = "2026-02-03"
content = "Thinking"

`
	assert.Equal(t, want, Encode(setupGoal()))
}

func TestEncodeRelatedPlanResolves(t *testing.T) {
	g := setupGoal()

	imported, err := Import(Encode(g))
	require.NoError(t, err)

	setup := imported.Plans[0]
	require.Equal(t, "Setup", setup.Title)
	assert.Equal(t, []string{setup.ID}, imported.Logs[0].RelatedPlanIDs)
}

func TestEncodeRenamedPlanDropsReference(t *testing.T) {
	// Renaming a plan in the model carries its references along.
	g := setupGoal()
	g.Plans[0].Title = "Bootstrap"
	imported, err := Import(Encode(g))
	require.NoError(t, err)
	assert.Equal(t, []string{imported.Plans[0].ID}, imported.Logs[0].RelatedPlanIDs)

	// Renaming it in the document leaves the title dangling.
	doc := strings.Replace(Encode(setupGoal()), `title = "Setup"`, `title = "Init"`, 1)
	imported, err = Import(doc)
	require.NoError(t, err)
	assert.Empty(t, imported.Logs[0].RelatedPlanIDs)

	// Removing it before encoding omits the key entirely.
	g = setupGoal()
	g.Plans = g.Plans[1:]
	out := Encode(g)
	assert.NotContains(t, out, "related_plans")
	imported, err = Import(out)
	require.NoError(t, err)
	assert.Empty(t, imported.Logs[0].RelatedPlanIDs)
}

func TestEncodeDanglingIDsOmitted(t *testing.T) {
	g := setupGoal()
	g.Logs[0].RelatedPlanIDs = []string{"gone", "p2", "also-gone"}

	assert.Contains(t, Encode(g), `related_plans = ["Polish"]`)

	g.Logs[0].RelatedPlanIDs = []string{"gone"}
	assert.NotContains(t, Encode(g), "related_plans")
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"", `""`},
		{`back\slash`, `"back\\slash"`},
		{`say "hi"`, `"say \"hi\""`},
		{"two\nlines", `"two\nlines"`},
		{`literal \n`, `"literal \\n"`},
		{"tab\there", `"tab\there"`},
		{"cr\r", `"cr\r"`},
		{"bell\x07", `"bell\u0007"`},
		{"del\x7f", `"del\u007F"`},
		{"ünïcödé ✓", `"ünïcödé ✓"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quote(tt.in), "quote(%q)", tt.in)
	}
}

func TestEncodeEscapesSurviveDecode(t *testing.T) {
	g := setupGoal()
	g.Title = "He said \"go\"\\n\nthen\tleft"
	g.Logs[1].Content = `C:\path\to "file"` + "\n"

	cfg, err := Decode(Encode(g))
	require.NoError(t, err)
	assert.Equal(t, g.Title, cfg.Goal.Title)
	assert.Equal(t, g.Logs[1].Content, cfg.Logs[1].Content)
}

func TestEncodeInvalidUTF8(t *testing.T) {
	g := &store.Goal{ID: "g1", Title: "a\xffb"}

	imported, err := Import(Encode(g))
	require.NoError(t, err)
	assert.Equal(t, "a�b", imported.Title)
}
