package goalfile

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/stefanpenner/planlog/pkg/store"
)

// BuildOption configures Build.
type BuildOption func(*builder)

type builder struct {
	newID func() string
	now   func() time.Time
}

// WithIDGenerator overrides identifier allocation.
func WithIDGenerator(newID func() string) BuildOption {
	return func(b *builder) { b.newID = newID }
}

// WithClock overrides the clock used for the initial status.
func WithClock(now func() time.Time) BuildOption {
	return func(b *builder) { b.now = now }
}

// Build turns a decoded document into a new goal with fresh identifiers
// and derived state filled in. The config is not modified.
//
// related_plans titles resolve against the goal's own plans by exact match.
// With duplicate titles the first plan wins; titles that match nothing are
// dropped.
func Build(cfg *Config, opts ...BuildOption) *store.Goal {
	b := builder{newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}

	goalID := b.newID()
	g := &store.Goal{
		ID:          goalID,
		Title:       cfg.Goal.Title,
		Description: cfg.Goal.Description,
		StartDate:   cfg.Goal.StartDate,
		EndDate:     cfg.Goal.EndDate,
		Plans:       make([]store.Plan, 0, len(cfg.Plans)),
		Logs:        make([]store.LogEntry, 0, len(cfg.Logs)),
	}

	for _, p := range cfg.Plans {
		g.Plans = append(g.Plans, store.Plan{
			ID:          b.newID(),
			Title:       p.Title,
			Description: p.Description,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			Completed:   false,
			GoalID:      goalID,
		})
	}

	byTitle := make(map[string]string, len(g.Plans))
	for _, p := range g.Plans {
		if _, seen := byTitle[p.Title]; !seen {
			byTitle[p.Title] = p.ID
		}
	}

	for _, l := range cfg.Logs {
		related := []string{}
		for _, title := range l.RelatedPlans {
			id, ok := byTitle[title]
			if !ok || slices.Contains(related, id) {
				continue
			}
			related = append(related, id)
		}
		g.Logs = append(g.Logs, store.LogEntry{
			ID:             b.newID(),
			Date:           l.Date,
			Content:        l.Content,
			GoalID:         goalID,
			RelatedPlanIDs: related,
		})
	}

	g.Recompute(b.now())
	return g
}

// Import decodes a goal document and builds a new goal from it.
func Import(text string, opts ...BuildOption) (*store.Goal, error) {
	cfg, err := Decode(text)
	if err != nil {
		return nil, err
	}
	return Build(cfg, opts...), nil
}
