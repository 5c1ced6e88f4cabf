package store

import "time"

// Status is the lifecycle state of a goal. It is derived, never set directly.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// DateLayout is the calendar date format used for every date field.
const DateLayout = "2006-01-02"

// Goal is a tracked objective with a date range. It owns its plans and logs.
type Goal struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	StartDate   string     `yaml:"start_date" json:"startDate"`
	EndDate     string     `yaml:"end_date" json:"endDate"`
	Progress    int        `yaml:"progress" json:"progress"`
	Status      Status     `yaml:"status" json:"status"`
	Plans       []Plan     `yaml:"plans" json:"plans"`
	Logs        []LogEntry `yaml:"logs" json:"logs"`
}

// Plan is a sub-task of a goal with its own date range.
type Plan struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	StartDate   string `yaml:"start_date" json:"startDate"`
	EndDate     string `yaml:"end_date" json:"endDate"`
	Completed   bool   `yaml:"completed" json:"completed"`
	GoalID      string `yaml:"goal_id" json:"goalId"`
}

// LogEntry is a dated note, optionally linked to plans of the same goal.
// RelatedPlanIDs are not validated; unknown IDs simply fail to resolve.
type LogEntry struct {
	ID             string   `yaml:"id" json:"id"`
	Date           string   `yaml:"date" json:"date"`
	Content        string   `yaml:"content" json:"content"`
	GoalID         string   `yaml:"goal_id" json:"goalId"`
	RelatedPlanIDs []string `yaml:"related_plan_ids,omitempty" json:"relatedPlanIds"`
}

// NewGoal is the input for explicit goal creation.
type NewGoal struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
	Plans       []NewPlan
}

// NewPlan is the input for a plan created together with its goal.
type NewPlan struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
}

// NewLog is the input for appending a log entry.
type NewLog struct {
	Date           string
	Content        string
	RelatedPlanIDs []string
}

// IsComplete returns true if the goal's status is completed.
func (g *Goal) IsComplete() bool {
	return g.Status == StatusCompleted
}

// Recompute refreshes the derived progress and status fields.
func (g *Goal) Recompute(now time.Time) {
	g.Progress = ComputeProgress(g.Plans)
	g.Status = ComputeStatus(g.Plans, g.StartDate, g.EndDate, now)
}

// Plan returns the plan with the given ID, or nil.
func (g *Goal) Plan(id string) *Plan {
	for i := range g.Plans {
		if g.Plans[i].ID == id {
			return &g.Plans[i]
		}
	}
	return nil
}

// CompletedPlans counts plans marked complete.
func (g *Goal) CompletedPlans() int {
	n := 0
	for _, p := range g.Plans {
		if p.Completed {
			n++
		}
	}
	return n
}
