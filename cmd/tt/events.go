package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"task-tracker/pkg/eventgraph"
)

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the mutation journal",
	}

	var (
		subject string
		limit   int
		format  string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent events, or the history of one record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				events []eventgraph.Event
				err    error
			)
			if subject != "" {
				events, err = a.stores.Journal.BySubject(cmd.Context(), subject, limit)
			} else {
				events, err = a.stores.Journal.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}
			if format == "short" {
				printShortEvents(events)
				return nil
			}
			return printJSON(events)
		},
	}
	list.Flags().StringVar(&subject, "subject", "", "record id")
	list.Flags().IntVar(&limit, "limit", 20, "maximum events")
	list.Flags().StringVar(&format, "format", "json", "output format: json or short")

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check the journal's hash chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := a.stores.Journal.Count(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.stores.Journal.VerifyChain(cmd.Context()); err != nil {
				return fmt.Errorf("chain broken: %w", err)
			}
			fmt.Printf("Chain intact (%d events).\n", n)
			return nil
		},
	}

	cmd.AddCommand(list, verify)
	return cmd
}
