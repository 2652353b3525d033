package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"semsearch/internal/adapter/embedding"
	"semsearch/internal/usecase"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Build the embedding cache artifact",
	Long: `Encode every corpus record and write the embedding cache artifact.
An existing artifact is replaced. Run this whenever the corpus or the
embedding model changes; serve and search refuse a cache that no longer
matches.

Examples:
  semsearch embed
  semsearch embed -d /srv/faq`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	dir := GetRootDir()
	ctx := cmd.Context()

	records, err := usecase.LoadRecords(ctx, cfg, dir)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	encoder, err := embedding.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Embedding config: provider=%s, model=%s\n", cfg.Embedding.Provider, encoder.Version())

	bar := newProgressBar(len(records), "[cyan]Embedding[reset]")
	start := time.Now()

	s, err := usecase.RebuildCache(ctx, cfg, dir, records, encoder, func(done int) {
		_ = bar.Add(done)
	})
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	fmt.Printf("\nEmbedding complete:\n")
	fmt.Printf("  Records:    %d\n", s.Len())
	fmt.Printf("  Dimension:  %d\n", s.Dimension())
	fmt.Printf("  Elapsed:    %s\n", formatDuration(time.Since(start)))
	fmt.Printf("\nCache stored at: %s\n", cfg.CacheDBPath(dir))
	return nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
