package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	clusterCount int
	clusterFile  string
)

var clusterCmd = &cobra.Command{
	Use:   "cluster [text...]",
	Short: "Cluster sentences and print labels with 2-D coordinates",
	Long: `Group sentences into n semantic clusters and project them to 2-D.
Sentences come from the arguments, or one per line from --file.

Examples:
  semsearch cluster -n 2 cat kitten stock bond
  semsearch cluster -n 5 --file sentences.txt`,
	RunE: runCluster,
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.Flags().IntVarP(&clusterCount, "clusters", "n", 2, "number of clusters")
	clusterCmd.Flags().StringVarP(&clusterFile, "file", "f", "", "read sentences from a file, one per line")
}

func runCluster(cmd *cobra.Command, args []string) error {
	corpus := args
	if clusterFile != "" {
		lines, err := readLines(clusterFile)
		if err != nil {
			return err
		}
		corpus = append(corpus, lines...)
	}

	svc, err := newServices(cmd.Context(), false)
	if err != nil {
		return err
	}

	result, err := svc.cluster.Cluster(cmd.Context(), corpus, clusterCount)
	if err != nil {
		return err
	}

	output, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(output))
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
