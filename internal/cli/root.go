package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"semsearch/config"
	"semsearch/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "semsearch",
	Short: "Semantic search and clustering over a question/answer corpus",
	Long: `semsearch embeds a question/answer corpus once, then answers ranked
similarity queries, scores text pairs and clusters arbitrary sentences.

Example usage:
  semsearch embed                          # Build the embedding cache
  semsearch search -q "reset my password"  # Rank the corpus
  semsearch calc "hello" "hi there"        # Score two texts
  semsearch cluster -n 2 cat kitten stock  # Cluster sentences
  semsearch serve                          # Start the HTTP API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./semsearch.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
