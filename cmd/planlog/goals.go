package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/planlog/pkg/store"
	"github.com/stefanpenner/planlog/pkg/tui"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals with progress and status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			goals, err := a.store.Goals()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(cmd, goals)
			}

			out := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(out, "No goals yet. Use 'planlog create' or 'planlog import'.")
				return nil
			}
			for _, g := range goals {
				fmt.Fprintf(out, "%s %s %3d%%  %s", tui.StatusIcon(g.Status), shortID(g.ID), g.Progress, g.Title)
				if left := tui.RemainingLabel(g.EndDate, a.now()); left != "" && g.Status == store.StatusInProgress {
					fmt.Fprintf(out, " (%s)", left)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <goal>",
		Short: "Show a goal with its plans and log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.resolveGoal(args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(cmd, g)
			}
			printGoal(cmd.OutOrStdout(), g, a.now())
			return nil
		},
	}
}

func printGoal(out io.Writer, g *store.Goal, now time.Time) {
	fmt.Fprintf(out, "%s %s\n", tui.StatusIcon(g.Status), g.Title)
	fmt.Fprintf(out, "ID:       %s\n", g.ID)
	fmt.Fprintf(out, "Status:   %s\n", g.Status)
	fmt.Fprintf(out, "Progress: %d%% (%d/%d plans)\n", g.Progress, g.CompletedPlans(), len(g.Plans))
	if g.StartDate != "" || g.EndDate != "" {
		fmt.Fprintf(out, "Dates:    %s → %s\n", g.StartDate, g.EndDate)
	}
	if left := tui.RemainingLabel(g.EndDate, now); left != "" {
		fmt.Fprintf(out, "Due:      %s\n", left)
	}
	if g.Description != "" {
		fmt.Fprintf(out, "\n%s\n", g.Description)
	}

	if len(g.Plans) > 0 {
		fmt.Fprintln(out, "\nPlans:")
		for _, p := range g.Plans {
			box := "[ ]"
			if p.Completed {
				box = "[x]"
			}
			fmt.Fprintf(out, "  %s %s %s", box, shortID(p.ID), p.Title)
			if p.StartDate != "" || p.EndDate != "" {
				fmt.Fprintf(out, " (%s → %s)", p.StartDate, p.EndDate)
			}
			fmt.Fprintln(out)
		}
	}

	if len(g.Logs) > 0 {
		fmt.Fprintln(out, "\nLog:")
		for _, l := range store.SortedLogs(g) {
			fmt.Fprintf(out, "  %s  %s\n", l.Date, indentContinuation(l.Content, "              "))
			if titles := tui.RelatedPlanTitles(g, l); len(titles) > 0 {
				fmt.Fprintf(out, "              ↳ %s\n", strings.Join(titles, ", "))
			}
		}
	}
}

func (a *app) createCmd() *cobra.Command {
	var in store.NewGoal
	var plans []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a goal",
		Long: `Create a goal with open plans. Without --title, and when standard input
is a terminal, the remaining fields are asked for interactively.

Each --plan is "title|description|start|end"; trailing parts may be left
out. Dates are YYYY-MM-DD, the end may not come before the start, and plan
dates must fall inside the goal's range.`,
		Example: `  planlog create --title "Learn Go" --start 2026-03-01 --end 2026-03-31 \
    --plan "Tour of Go|Every page|2026-03-01|2026-03-07" --plan "Build a CLI"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Title == "" {
				if !isInteractive(cmd.InOrStdin()) {
					return errTitleRequired
				}
				if err := promptGoal(&in, &plans); err != nil {
					return err
				}
			}
			for _, spec := range plans {
				in.Plans = append(in.Plans, parsePlanSpec(spec))
			}
			g, err := a.store.CreateGoal(in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(cmd, g)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s (%s)\n", g.Title, shortID(g.ID))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.Title, "title", "t", "", "goal title")
	f.StringVarP(&in.Description, "description", "d", "", "goal description")
	f.StringVar(&in.StartDate, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&in.EndDate, "end", "", "end date (YYYY-MM-DD)")
	f.StringArrayVarP(&plans, "plan", "p", nil, "plan as title|description|start|end (repeatable)")

	return cmd
}

// parsePlanSpec splits "title|description|start|end". Missing parts are empty.
func parsePlanSpec(spec string) store.NewPlan {
	parts := strings.SplitN(spec, "|", 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return store.NewPlan{
		Title:       parts[0],
		Description: parts[1],
		StartDate:   parts[2],
		EndDate:     parts[3],
	}
}

func (a *app) editCmd() *cobra.Command {
	var title, description, start, end string

	cmd := &cobra.Command{
		Use:   "edit <goal>",
		Short: "Change a goal's title, description or dates",
		Long: `Change a goal's title, description or dates. Only the flags given are
applied. Plans and log entries are left as they are.`,
		Example: `  planlog edit 3f2a --end 2026-05-15`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.resolveGoal(args[0])
			if err != nil {
				return err
			}

			f := cmd.Flags()
			if !f.Changed("title") && !f.Changed("description") && !f.Changed("start") && !f.Changed("end") {
				return errors.New("nothing to change (use --title, --description, --start or --end)")
			}
			if f.Changed("title") {
				g.Title = title
			}
			if f.Changed("description") {
				g.Description = description
			}
			if f.Changed("start") {
				g.StartDate = start
			}
			if f.Changed("end") {
				g.EndDate = end
			}
			// Goal-level fields only; plans keep whatever dates they have.
			header := &store.Goal{Title: g.Title, Description: g.Description, StartDate: g.StartDate, EndDate: g.EndDate}
			if err := store.ValidateGoal(header); err != nil {
				return err
			}
			g.Recompute(a.now())

			ok, err := a.store.UpdateGoal(g)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", store.ErrGoalNotFound, args[0])
			}
			if a.jsonOut {
				return a.printJSON(cmd, g)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s (%s)\n", g.Title, g.Status)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&title, "title", "t", "", "new title")
	f.StringVarP(&description, "description", "d", "", "new description")
	f.StringVar(&start, "start", "", "new start date (YYYY-MM-DD, empty to clear)")
	f.StringVar(&end, "end", "", "new end date (YYYY-MM-DD, empty to clear)")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <goal>",
		Aliases: []string{"rm"},
		Short:   "Delete a goal with its plans and log",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.resolveGoal(args[0])
			if err != nil {
				return err
			}
			ok, err := a.store.DeleteGoal(g.ID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", store.ErrGoalNotFound, args[0])
			}
			if a.jsonOut {
				return a.printJSON(cmd, map[string]string{"deleted": g.ID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", g.Title)
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func indentContinuation(s, indent string) string {
	return strings.ReplaceAll(s, "\n", "\n"+indent)
}
