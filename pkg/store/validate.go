package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidGoal is returned when explicit input breaks a creation rule.
// Imported documents are not held to these rules.
var ErrInvalidGoal = errors.New("invalid goal")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGoal, fmt.Sprintf(format, args...))
}

// CheckDateRange reports whether start and end, when set, are YYYY-MM-DD
// dates with end not before start. Either side may be empty.
func CheckDateRange(start, end string) error {
	s, err := checkDate("start date", start)
	if err != nil {
		return err
	}
	e, err := checkDate("end date", end)
	if err != nil {
		return err
	}
	if !s.IsZero() && !e.IsZero() && e.Before(s) {
		return invalid("end date %s is before start date %s", end, start)
	}
	return nil
}

// ValidateGoal applies the rules for explicitly entered goals: titles are
// set, text is valid UTF-8, dates parse, ranges are ordered, and every plan
// range lies inside the goal's range.
func ValidateGoal(g *Goal) error {
	if strings.TrimSpace(g.Title) == "" {
		return invalid("title is required")
	}
	if err := checkText("goal", g.Title, g.Description); err != nil {
		return err
	}
	if err := CheckDateRange(g.StartDate, g.EndDate); err != nil {
		return err
	}

	for i, p := range g.Plans {
		label := fmt.Sprintf("plan %d", i+1)
		if strings.TrimSpace(p.Title) == "" {
			return invalid("%s: title is required", label)
		}
		if err := checkText(label, p.Title, p.Description); err != nil {
			return err
		}
		if err := CheckDateRange(p.StartDate, p.EndDate); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		if err := within(label, "start", p.StartDate, g); err != nil {
			return err
		}
		if err := within(label, "end", p.EndDate, g); err != nil {
			return err
		}
	}
	return nil
}

// within checks that a plan date, when set, falls inside g's range.
func within(label, which, date string, g *Goal) error {
	day, ok := ParseDate(date)
	if !ok {
		return nil
	}
	if start, ok := ParseDate(g.StartDate); ok && day.Before(start) {
		return invalid("%s: %s date %s is before the goal starts (%s)", label, which, date, g.StartDate)
	}
	if end, ok := ParseDate(g.EndDate); ok && day.After(end) {
		return invalid("%s: %s date %s is after the goal ends (%s)", label, which, date, g.EndDate)
	}
	return nil
}

func checkDate(name, s string) (t time.Time, err error) {
	if s == "" {
		return t, nil
	}
	t, ok := ParseDate(s)
	if !ok {
		return t, invalid("%s %q is not a YYYY-MM-DD date", name, s)
	}
	return t, nil
}

func checkText(label string, fields ...string) error {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return invalid("%s: text is not valid UTF-8", label)
		}
	}
	return nil
}
