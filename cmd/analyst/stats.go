package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ai-analyst/internal/config"
)

func newStatsCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the usage report for a day from the usage log",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				day = d
			}
			a, err := newApp(config.New())
			if err != nil {
				return err
			}
			stats, err := a.dailyStats(day)
			if err != nil {
				return err
			}
			out := stats.GenerateReportSummary()
			if asJSON {
				if out, err = stats.ToJSON(); err != nil {
					return fmt.Errorf("encode stats: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to report, YYYY-MM-DD (defaults to today, UTC)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
