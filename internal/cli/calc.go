package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc <text> <text>",
	Short: "Score the semantic similarity of two texts",
	Long: `Print the cosine similarity of two texts' embeddings.

Example:
  semsearch calc "the cat sat on the mat" "a feline rested on a rug"`,
	Args: cobra.ExactArgs(2),
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cmd.Context(), false)
	if err != nil {
		return err
	}

	score, err := svc.scorer.Score(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("%.6f\n", score)
	return nil
}
