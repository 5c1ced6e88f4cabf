package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/planlog/pkg/store"
)

func (a *app) planCmd(name string, completed bool) *cobra.Command {
	verb := "complete"
	if !completed {
		verb = "not complete"
	}
	return &cobra.Command{
		Use:   name + " <goal> <plan>",
		Short: "Mark a plan " + verb,
		Long: `Mark a plan ` + verb + ` and recompute the goal's progress and status.
<plan> is a plan ID, a unique ID prefix or the exact plan title.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.resolveGoal(args[0])
			if err != nil {
				return err
			}
			planID, err := findPlan(g, args[1])
			if err != nil {
				return err
			}

			updated, err := a.store.SetPlanCompleted(g.ID, planID, completed)
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("%w: %s", store.ErrPlanNotFound, args[1])
			}

			if a.jsonOut {
				return a.printJSON(cmd, updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %d%% (%s)\n", updated.Title, updated.Progress, updated.Status)
			return nil
		},
	}
}

func (a *app) logCmd() *cobra.Command {
	var date string
	var planRefs []string

	cmd := &cobra.Command{
		Use:   "log <goal> <text>...",
		Short: "Add a dated log entry to a goal",
		Example: `  planlog log 3f2a "Ran 10k" --plan "Base miles"
  planlog log 3f2a --date 2026-01-04 "Rest day"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.resolveGoal(args[0])
			if err != nil {
				return err
			}

			var related []string
			for _, ref := range planRefs {
				id, err := findPlan(g, ref)
				if err != nil {
					return err
				}
				related = append(related, id)
			}

			entry, err := a.store.AddLog(g.ID, store.NewLog{
				Date:           date,
				Content:        strings.Join(args[1:], " "),
				RelatedPlanIDs: related,
			})
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("%w: %s", store.ErrGoalNotFound, args[0])
			}

			if a.jsonOut {
				return a.printJSON(cmd, entry)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s\n", entry.Date, g.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date (YYYY-MM-DD, default today)")
	cmd.Flags().StringArrayVarP(&planRefs, "plan", "p", nil, "related plan ID, prefix or title (repeatable)")
	return cmd
}

// findPlan resolves ref as a plan ID or prefix first, then as an exact title.
func findPlan(g *store.Goal, ref string) (string, error) {
	id, err := store.ResolvePlanID(g, ref)
	if err == nil || !errors.Is(err, store.ErrPlanNotFound) {
		return id, err
	}
	for _, p := range g.Plans {
		if p.Title == ref {
			return p.ID, nil
		}
	}
	return "", err
}
