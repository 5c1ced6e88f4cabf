package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/stefanpenner/planlog/pkg/store"
)

// GoalRow is one line of the goal list.
type GoalRow struct {
	ID       string
	Title    string
	Status   store.Status
	Progress int
	Goal     *store.Goal
}

// BuildRows converts goals into list rows, keeping only those whose title
// contains query (case-insensitive). An empty query keeps everything.
func BuildRows(goals []*store.Goal, query string) []GoalRow {
	q := strings.ToLower(query)
	rows := make([]GoalRow, 0, len(goals))
	for _, g := range goals {
		if q != "" && !strings.Contains(strings.ToLower(g.Title), q) {
			continue
		}
		rows = append(rows, GoalRow{
			ID:       g.ID,
			Title:    displayName(g),
			Status:   g.Status,
			Progress: g.Progress,
			Goal:     g,
		})
	}
	return rows
}

func displayName(g *store.Goal) string {
	if strings.TrimSpace(g.Title) != "" {
		return g.Title
	}
	return "(untitled)"
}

// StatusIcon returns the glyph for a goal status.
func StatusIcon(s store.Status) string {
	switch s {
	case store.StatusCompleted:
		return IconComplete
	case store.StatusFailed:
		return IconFailed
	case store.StatusInProgress:
		return IconInProgress
	default:
		return IconNotStarted
	}
}

// RemainingLabel describes how far endDate is from now, or returns "" when
// the date does not parse.
func RemainingLabel(endDate string, now time.Time) string {
	days, ok := store.RemainingDays(endDate, now)
	switch {
	case !ok:
		return ""
	case days == 0:
		return "due today"
	case days == 1:
		return "1 day left"
	case days > 1:
		return fmt.Sprintf("%d days left", days)
	case days == -1:
		return "overdue by 1 day"
	default:
		return fmt.Sprintf("overdue by %d days", -days)
	}
}

// ProgressBar renders progress (0..100) as a fixed-width bar.
func ProgressBar(progress, width int) string {
	if width < 1 {
		return ""
	}
	progress = max(0, min(progress, 100))
	filled := progress * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RelatedPlanTitles resolves a log's plan references against g. IDs that no
// longer resolve show as "unknown plan".
func RelatedPlanTitles(g *store.Goal, l store.LogEntry) []string {
	titles := make([]string, 0, len(l.RelatedPlanIDs))
	for _, id := range l.RelatedPlanIDs {
		if p := g.Plan(id); p != nil {
			titles = append(titles, p.Title)
		} else {
			titles = append(titles, "unknown plan")
		}
	}
	return titles
}

// dateRange renders "start → end", leaving out whichever side is empty.
func dateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return "until " + end
	case end == "":
		return "from " + start
	default:
		return start + " → " + end
	}
}

// GoalMarkdown renders the detail view of g as markdown. cursor marks the
// selected plan; pass -1 for none.
func GoalMarkdown(g *store.Goal, now time.Time, cursor int) string {
	var md strings.Builder

	md.WriteString("# " + displayName(g) + "\n\n")

	meta := []string{
		"**Status:** " + string(g.Status),
		fmt.Sprintf("**Progress:** %d%% (%d/%d)", g.Progress, g.CompletedPlans(), len(g.Plans)),
	}
	if r := dateRange(g.StartDate, g.EndDate); r != "" {
		meta = append(meta, "**Dates:** "+r)
	}
	if left := RemainingLabel(g.EndDate, now); left != "" {
		meta = append(meta, left)
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if g.Description != "" {
		md.WriteString(g.Description + "\n\n")
	}

	md.WriteString("## Plans\n\n")
	if len(g.Plans) == 0 {
		md.WriteString("_No plans._\n\n")
	}
	for i, p := range g.Plans {
		box := "[ ]"
		if p.Completed {
			box = "[x]"
		}
		marker := ""
		if i == cursor {
			marker = "▸ "
		}
		line := fmt.Sprintf("- %s%s %s", marker, box, p.Title)
		if r := dateRange(p.StartDate, p.EndDate); r != "" {
			line += " _(" + r + ")_"
		}
		md.WriteString(line + "\n")
		if p.Description != "" {
			md.WriteString("  " + p.Description + "\n")
		}
	}
	if len(g.Plans) > 0 {
		md.WriteString("\n")
	}

	md.WriteString("## Log\n\n")
	logs := store.SortedLogs(g)
	if len(logs) == 0 {
		md.WriteString("_No log entries._\n")
	}
	for _, l := range logs {
		md.WriteString("**" + l.Date + "** " + l.Content + "\n")
		if titles := RelatedPlanTitles(g, l); len(titles) > 0 {
			md.WriteString("  _" + strings.Join(titles, ", ") + "_\n")
		}
		md.WriteString("\n")
	}

	return md.String()
}
