package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"seo-automator/internal/content"
	"seo-automator/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate and publish a full batch",
	Long: `Generate topics, write and publish one article per topic, then build the pillar
pages over the published articles.

Articles are backdated one day per position so the batch fills the blog's history;
pillar pages continue the sequence after the last article.

Examples:
  seo-automator run                          # TOPIC_COUNT topics with pillar pages
  seo-automator run --topics 20              # 20 topics
  seo-automator run --skip-pillars           # Articles only
  seo-automator run --context-file site.txt  # Custom business context`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("topics", 0, "number of topics to generate (default TOPIC_COUNT)")
	runCmd.Flags().String("output-dir", "", "directory for markdown copies (default OUTPUT_DIR)")
	runCmd.Flags().Bool("skip-pillars", false, "do not generate pillar pages")
	runCmd.Flags().String("context-file", "", "file with the business description used for topic generation")
}

func runBatch(cmd *cobra.Command, args []string) error {
	topics, _ := cmd.Flags().GetInt("topics")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	skipPillars, _ := cmd.Flags().GetBool("skip-pillars")
	contextFile, _ := cmd.Flags().GetString("context-file")

	if topics > 0 {
		cfg.TopicCount = topics
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	business, err := businessContext(contextFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	runner := a.runner(pipeline.Options{
		BusinessContext: business,
		TopicCount:      cfg.TopicCount,
		PillarTitles:    content.DefaultPillarTitles,
		SkipPillars:     skipPillars,
	}, logger)

	report, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run %s: %w", report.RunID, err)
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, report *pipeline.Report) {
	fmt.Fprintf(w, "Run %s finished in %s\n", report.RunID, report.FinishedAt.Sub(report.StartedAt).Round(time.Second))
	fmt.Fprintf(w, "  topics:          %d of %d requested\n", report.TopicsReceived, report.TopicsRequested)
	fmt.Fprintf(w, "  articles:        %d published, %d publish failed, %d skipped\n",
		report.Count(content.KindArticle, pipeline.StatusPublished),
		report.Count(content.KindArticle, pipeline.StatusPublishFailed),
		report.Count(content.KindArticle, pipeline.StatusSkipped))
	fmt.Fprintf(w, "  pillar pages:    %d published, %d publish failed, %d skipped\n",
		report.Count(content.KindPillar, pipeline.StatusPublished),
		report.Count(content.KindPillar, pipeline.StatusPublishFailed),
		report.Count(content.KindPillar, pipeline.StatusSkipped))

	for _, item := range report.Failed() {
		fmt.Fprintf(w, "  %-14s  %-7s  %s: %s\n", item.Status, item.Kind, item.Title, item.Reason)
	}
}
