package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/stefanpenner/planlog/pkg/store"
)

var errTitleRequired = errors.New("a title is required (pass --title or run in a terminal)")

// isInteractive reports whether r is a terminal rather than a pipe or file.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// promptGoal fills the unset fields of in from an interactive form.
func promptGoal(in *store.NewGoal, plans *[]string) error {
	planText := strings.Join(*plans, "\n")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&in.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&in.Description),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Placeholder(store.DateLayout).
				Value(&in.StartDate).
				Validate(func(s string) error { return store.CheckDateRange(s, "") }),
			huh.NewInput().
				Title("End date").
				Placeholder(store.DateLayout).
				Value(&in.EndDate).
				Validate(func(s string) error { return store.CheckDateRange(in.StartDate, s) }),
			huh.NewText().
				Title("Plans").
				Description("One per line: title|description|start|end").
				Value(&planText).
				Validate(func(s string) error { return checkPlans(*in, planLines(s)) }),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("create cancelled")
		}
		return fmt.Errorf("prompt failed: %w", err)
	}

	*plans = planLines(planText)
	return nil
}

// planLines splits text into trimmed, non-empty plan specs.
func planLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// checkPlans applies the creation rules to in with the given plan specs.
func checkPlans(in store.NewGoal, specs []string) error {
	draft := &store.Goal{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	for _, spec := range specs {
		p := parsePlanSpec(spec)
		draft.Plans = append(draft.Plans, store.Plan{
			Title:       p.Title,
			Description: p.Description,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
		})
	}
	return store.ValidateGoal(draft)
}
