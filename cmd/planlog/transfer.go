package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/planlog/pkg/goalfile"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a goal from a TOML document",
		Long: `Import a goal from a TOML document. Use - to read from standard input.

Every import creates a new goal with fresh identifiers and all plans open.
Log entries link to plans by title; titles that match no plan are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			opts := []goalfile.BuildOption{goalfile.WithClock(a.now)}
			if a.newID != nil {
				opts = append(opts, goalfile.WithIDGenerator(a.newID))
			}
			g, err := goalfile.Import(text, opts...)
			if err != nil {
				return err
			}
			if err := a.store.AddGoal(g); err != nil {
				return err
			}

			if a.jsonOut {
				return a.printJSON(cmd, g)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported: %s (%s, %d plans, %d log entries)\n",
				g.Title, shortID(g.ID), len(g.Plans), len(g.Logs))
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <goal>",
		Short: "Export a goal as a TOML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.resolveGoal(args[0])
			if err != nil {
				return err
			}
			doc := goalfile.Encode(g)

			if output == "" || output == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			a.log.Info("goal exported", "goal", g.ID, "file", output)
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", g.Title, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of standard output")
	return cmd
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
