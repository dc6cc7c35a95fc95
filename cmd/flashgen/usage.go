package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"flash-gen/internal/models"
)

func usageCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show recent completion calls and token totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			events, err := a.events.ListEvents(cmd.Context(), limit)
			if err != nil {
				return err
			}
			totals, err := a.events.Totals(cmd.Context())
			if err != nil {
				return err
			}

			printUsage(cmd.OutOrStdout(), events, totals)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of recent calls to list")
	return cmd
}

func printUsage(w io.Writer, events []models.CompletionEvent, totals models.UsageTotals) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPROVIDER\tMODEL\tIN\tOUT\tLATENCY\tSTATUS")
	for _, ev := range events {
		status := "ok"
		if !ev.Success {
			status = "failed: " + ev.ErrorMessage.String
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			ev.CreatedAt.Local().Format(time.DateTime),
			ev.Provider,
			ev.Model,
			ev.InputTokens,
			ev.OutputTokens,
			time.Duration(ev.LatencyMs)*time.Millisecond,
			status,
		)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\n%d calls, %d failed, %d input tokens, %d output tokens\n",
		totals.Calls, totals.Failures, totals.InputTokens, totals.OutputTokens)
}
