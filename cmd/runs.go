package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"seo-automator/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs from the report database",
	Long: `List the most recent batches saved to REPORT_DATABASE_URL.

Examples:
  seo-automator runs              # Last 10 runs
  seo-automator runs --limit 50`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().Int("limit", 10, "number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	if cfg.ReportDatabaseURL == "" {
		return fmt.Errorf("REPORT_DATABASE_URL is not set")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	reports, err := store.Open(cfg.ReportDatabaseURL, logger)
	if err != nil {
		return err
	}
	defer reports.Close()

	runs, err := reports.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tTOPICS\tPUBLISHED\tFAILED\tSKIPPED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.TopicsReceived, r.TopicsRequested,
			r.Published, r.PublishFailed, r.Skipped)
	}
	return tw.Flush()
}
