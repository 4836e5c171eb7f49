package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"seo-automator/internal/pipeline"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Print generated blog topics without writing articles",
	Long: `Ask the model for blog post titles and print one per line.

Examples:
  seo-automator topics               # TOPIC_COUNT titles
  seo-automator topics --count 5     # Five titles`,
	Args: cobra.NoArgs,
	RunE: runTopics,
}

func init() {
	rootCmd.AddCommand(topicsCmd)

	topicsCmd.Flags().IntP("count", "n", 0, "number of titles (default TOPIC_COUNT)")
	topicsCmd.Flags().String("context-file", "", "file with the business description")
}

func runTopics(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	contextFile, _ := cmd.Flags().GetString("context-file")
	if count > 0 {
		cfg.TopicCount = count
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

	titles := a.generator.Topics(ctx, business, cfg.TopicCount)
	if len(titles) == 0 {
		return pipeline.ErrNoTopics
	}
	for _, title := range titles {
		fmt.Fprintln(cmd.OutOrStdout(), title)
	}
	return nil
}
