package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.Local)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	n := 0
	s, err := NewStore(dir,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
	)
	require.NoError(t, err)
	return s
}

func sampleGoal() NewGoal {
	return NewGoal{
		Title:       "Learn Go",
		Description: "Get fluent",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-31",
		Plans: []NewPlan{
			{Title: "Tour", StartDate: "2026-03-01", EndDate: "2026-03-07"},
			{Title: "Project", StartDate: "2026-03-08", EndDate: "2026-03-31"},
		},
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	s := setupTestStore(t)

	goals, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestLoadAllCorruptFile(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, os.WriteFile(s.CollectionPath(), []byte("goals: [unclosed"), 0644))

	_, err := s.LoadAll()
	assert.Error(t, err)
}

func TestCreateGoal(t *testing.T) {
	s := setupTestStore(t)

	g, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)
	assert.Equal(t, "id-001", g.ID)
	assert.Equal(t, 0, g.Progress)
	assert.Equal(t, StatusNotStarted, g.Status)
	require.Len(t, g.Plans, 2)
	for _, p := range g.Plans {
		assert.Equal(t, g.ID, p.GoalID)
		assert.False(t, p.Completed)
	}
	assert.Equal(t, "id-002", g.Plans[0].ID)
	assert.Equal(t, "id-003", g.Plans[1].ID)

	// File should exist
	_, err = os.Stat(s.CollectionPath())
	assert.NoError(t, err)
}

func TestCreateGoalRequiresTitle(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateGoal(NewGoal{Title: "  "})
	assert.Error(t, err)

	in := sampleGoal()
	in.Plans[1].Title = ""
	_, err = s.CreateGoal(in)
	assert.Error(t, err)
}

func TestCreateGoalKeepsPlanDetails(t *testing.T) {
	s := setupTestStore(t)

	in := sampleGoal()
	in.Plans[0].Description = "Read every page"
	g, err := s.CreateGoal(in)
	require.NoError(t, err)

	stored, ok, err := s.Goal(g.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Read every page", stored.Plans[0].Description)
	assert.Equal(t, "2026-03-01", stored.Plans[0].StartDate)
	assert.Equal(t, "2026-03-07", stored.Plans[0].EndDate)
}

func TestCreateGoalRejectsInvalidInput(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateGoal(NewGoal{Title: "Backwards", StartDate: "2026-03-31", EndDate: "2026-03-01"})
	assert.ErrorIs(t, err, ErrInvalidGoal)

	in := sampleGoal()
	in.Plans[1].EndDate = "2026-04-02"
	_, err = s.CreateGoal(in)
	assert.ErrorIs(t, err, ErrInvalidGoal)

	_, err = s.CreateGoal(NewGoal{Title: "a\xffb"})
	assert.ErrorIs(t, err, ErrInvalidGoal)

	goals, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestAddGoalDuplicate(t *testing.T) {
	s := setupTestStore(t)

	g := &Goal{ID: "fixed", Title: "One"}
	require.NoError(t, s.AddGoal(g))
	assert.Error(t, s.AddGoal(&Goal{ID: "fixed", Title: "Two"}))
}

func TestGoalLookup(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)

	g, ok, err := s.Goal(created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Learn Go", g.Title)

	// Reading refreshes derived state for today: 2026-03-15 is inside the range
	assert.Equal(t, StatusInProgress, g.Status)

	// Raw load keeps what was stored
	raw, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, StatusNotStarted, raw[0].Status)

	_, ok, err = s.Goal("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetPlanCompleted(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)

	g, err := s.SetPlanCompleted(created.ID, created.Plans[0].ID, true)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, 50, g.Progress)
	assert.Equal(t, StatusInProgress, g.Status)

	// Persisted
	raw, err := s.LoadAll()
	require.NoError(t, err)
	assert.True(t, raw[0].Plans[0].Completed)
	assert.Equal(t, 50, raw[0].Progress)

	g, err = s.SetPlanCompleted(created.ID, created.Plans[1].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 100, g.Progress)

	g, err = s.SetPlanCompleted(created.ID, created.Plans[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, 50, g.Progress)
}

func TestSetPlanCompletedAbsent(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)

	g, err := s.SetPlanCompleted("nope", created.Plans[0].ID, true)
	require.NoError(t, err)
	assert.Nil(t, g)

	g, err = s.SetPlanCompleted(created.ID, "nope", true)
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestTogglePlan(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)
	planID := created.Plans[1].ID

	g, err := s.TogglePlan(created.ID, planID)
	require.NoError(t, err)
	assert.True(t, g.Plan(planID).Completed)

	g, err = s.TogglePlan(created.ID, planID)
	require.NoError(t, err)
	assert.False(t, g.Plan(planID).Completed)
}

func TestStatusAfterEndDate(t *testing.T) {
	s := setupTestStore(t)

	in := sampleGoal()
	in.StartDate = "2026-01-01"
	in.EndDate = "2026-02-01"
	for i := range in.Plans {
		in.Plans[i].StartDate, in.Plans[i].EndDate = "", ""
	}
	created, err := s.CreateGoal(in)
	require.NoError(t, err)

	g, err := s.SetPlanCompleted(created.ID, created.Plans[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, g.Status)

	g, err = s.SetPlanCompleted(created.ID, created.Plans[1].ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, g.Status)
}

func TestAddLog(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)

	entry, err := s.AddLog(created.ID, NewLog{
		Content:        "Finished chapter 1",
		RelatedPlanIDs: []string{created.Plans[0].ID, "dangling"},
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "2026-03-15", entry.Date) // defaults to today
	assert.Equal(t, created.ID, entry.GoalID)

	raw, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, raw[0].Logs, 1)
	assert.Equal(t, []string{created.Plans[0].ID, "dangling"}, raw[0].Logs[0].RelatedPlanIDs)
	// Appending a log leaves derived state alone
	assert.Equal(t, StatusNotStarted, raw[0].Status)

	entry, err = s.AddLog("missing", NewLog{Content: "x"})
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = s.AddLog(created.ID, NewLog{Content: "bad date", Date: "someday"})
	assert.ErrorIs(t, err, ErrInvalidGoal)
	_, err = s.AddLog(created.ID, NewLog{Content: "a\xffb"})
	assert.ErrorIs(t, err, ErrInvalidGoal)

	_, err = s.AddLog(created.ID, NewLog{Content: ""})
	assert.Error(t, err)
}

func TestUpdateGoal(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)

	created.Title = "Learn Go properly"
	ok, err := s.UpdateGoal(created)
	require.NoError(t, err)
	assert.True(t, ok)

	g, _, err := s.Goal(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learn Go properly", g.Title)

	ok, err = s.UpdateGoal(&Goal{ID: "missing"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteGoal(t *testing.T) {
	s := setupTestStore(t)

	first, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)
	second, err := s.CreateGoal(NewGoal{Title: "Run a marathon"})
	require.NoError(t, err)

	ok, err := s.DeleteGoal(first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	goals, err := s.Goals()
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, second.ID, goals[0].ID)

	ok, err = s.DeleteGoal(first.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAllLeavesNoTempFiles(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)
	_, err = s.CreateGoal(NewGoal{Title: "Second"})
	require.NoError(t, err)

	entries, err := os.ReadDir(s.Root)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"goals.yaml"}, names)
}

func TestSaveAllReplacesWholeCollection(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateGoal(sampleGoal())
	require.NoError(t, err)

	require.NoError(t, s.SaveAll(nil))
	goals, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, goals)

	data, err := os.ReadFile(filepath.Join(s.Root, "goals.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "goals: []")
}

func TestResolveGoalID(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.AddGoal(&Goal{ID: "abc123", Title: "A"}))
	require.NoError(t, s.AddGoal(&Goal{ID: "abd456", Title: "B"}))
	require.NoError(t, s.AddGoal(&Goal{ID: "ab", Title: "C"}))

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{ref: "abc123", want: "abc123"},
		{ref: "abc", want: "abc123"},
		{ref: "abd", want: "abd456"},
		{ref: "ab", want: "ab"}, // exact match wins over prefix
		{ref: "a", wantErr: ErrAmbiguousID},
		{ref: "zzz", wantErr: ErrGoalNotFound},
		{ref: "", wantErr: ErrGoalNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			id, err := s.ResolveGoalID(tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestResolvePlanID(t *testing.T) {
	g := &Goal{Plans: []Plan{{ID: "p-one"}, {ID: "p-two"}}}

	id, err := ResolvePlanID(g, "p-t")
	require.NoError(t, err)
	assert.Equal(t, "p-two", id)

	_, err = ResolvePlanID(g, "p-")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = ResolvePlanID(g, "x")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestSortedLogs(t *testing.T) {
	g := &Goal{Logs: []LogEntry{
		{ID: "a", Date: "2026-03-01"},
		{ID: "b", Date: "2026-03-10"},
		{ID: "c", Date: "not a date"},
		{ID: "d", Date: "2026-03-10"},
		{ID: "e", Date: "2026-02-28"},
	}}

	var ids []string
	for _, l := range SortedLogs(g) {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"b", "d", "a", "e", "c"}, ids)

	// Original order untouched
	assert.Equal(t, "a", g.Logs[0].ID)
}
