package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"seo-automator/internal/pipeline"
)

var articleCmd = &cobra.Command{
	Use:   "article <title>",
	Short: "Generate a single article",
	Long: `Generate one article for the given title and write its markdown copy. The article
is only sent to Basehub with --publish.

Examples:
  seo-automator article "How to Price a SaaS Product"
  seo-automator article "How to Price a SaaS Product" --publish`,
	Args: cobra.MinimumNArgs(1),
	RunE: runArticle,
}

func init() {
	rootCmd.AddCommand(articleCmd)

	articleCmd.Flags().Bool("publish", false, "publish the article to Basehub")
	articleCmd.Flags().String("output-dir", "", "directory for the markdown copy (default OUTPUT_DIR)")
}

func runArticle(cmd *cobra.Command, args []string) error {
	publishPost, _ := cmd.Flags().GetBool("publish")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	item := a.runner(pipeline.Options{}, logger).Article(ctx, title, time.Now(), publishPost)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", item.Status, item.Title)
	if item.Path != "" {
		fmt.Fprintf(out, "  file:  %s\n", item.Path)
	}
	fmt.Fprintf(out, "  image: %t\n", item.HasImage)

	if !item.Produced() || item.Status == pipeline.StatusPublishFailed {
		return fmt.Errorf("article %q %s: %s", item.Title, item.Status, item.Reason)
	}
	return nil
}
