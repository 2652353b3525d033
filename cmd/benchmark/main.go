package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"semsearch/config"
	"semsearch/internal/adapter/embedding"
	"semsearch/internal/adapter/retriever"
	"semsearch/internal/domain"
	"semsearch/internal/usecase"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding semsearch.yaml and the corpus")
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 10, "Number of results")
	runs := flag.Int("n", 20, "Number of timed rank runs")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run ./cmd/benchmark -dir . -q \"query\"")
		fmt.Println("\nTests:")
		fmt.Println("  1. Embedding infrastructure (encoder connection, cache artifact)")
		fmt.Println("  2. Semantic similarity (query vs results)")
		fmt.Println("  3. Rank latency over the whole corpus")
		os.Exit(1)
	}

	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	encoder, err := embedding.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encoder not available: %v\n", err)
		os.Exit(1)
	}

	records, err := usecase.LoadRecords(ctx, cfg, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading corpus: %v\n", err)
		os.Exit(1)
	}

	store, err := usecase.OpenStore(ctx, cfg, *dir, records, encoder, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening embedding store: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SEMANTIC SEARCH BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Records embedded: %d\n", store.Len())
	fmt.Printf("Model: %s (%s)\n", store.Model(), cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", store.Dimension())
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	ranker := retriever.NewSemanticRanker(store, encoder)
	results, err := ranker.Rank(ctx, *query, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("Corpus is empty.")
		return
	}

	fmt.Printf("Top %d semantic matches:\n\n", len(results))

	totalScore := 0.0
	for i, r := range results {
		totalScore += r.Score
		fmt.Printf("%d. [%s %.3f] %s\n", i+1, rating(r.Score), r.Score, r.ID)
		fmt.Printf("   Q: %s\n", preview(r.Question))
		fmt.Printf("   A: %s\n\n", preview(r.Answer))
	}

	latency := timeRank(ctx, ranker, *query, *topK, *runs)

	avgScore := totalScore / float64(len(results))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avgScore)
	fmt.Printf("  Top-1 similarity:   %.3f\n", results[0].Score)
	fmt.Printf("  Rank latency:       %s avg over %d runs (includes query encoding)\n", latency, *runs)

	if avgScore > 0.5 {
		fmt.Println("  Status: GOOD - semantic search working well")
	} else if avgScore > 0.3 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - may need a better model or a rebuilt cache")
	}
}

func rating(score float64) string {
	switch {
	case score > 0.7:
		return "HIGH"
	case score > 0.5:
		return "GOOD"
	case score > 0.3:
		return "OK"
	default:
		return "LOW"
	}
}

func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 150 {
		s = s[:150] + "..."
	}
	return s
}

type ranker interface {
	Rank(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

func timeRank(ctx context.Context, r ranker, query string, topK, runs int) time.Duration {
	if runs <= 0 {
		return 0
	}
	start := time.Now()
	for i := 0; i < runs; i++ {
		if _, err := r.Rank(ctx, query, topK); err != nil {
			fmt.Fprintf(os.Stderr, "Rank error on run %d: %v\n", i+1, err)
			return 0
		}
	}
	return time.Since(start) / time.Duration(runs)
}
