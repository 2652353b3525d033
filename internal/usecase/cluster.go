package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"semsearch/internal/adapter/cluster"
	"semsearch/internal/domain"
	"semsearch/internal/logger"
	"semsearch/internal/metrics"
	"semsearch/internal/port"
)

// ClusterOptions configures ClusterEngine.
type ClusterOptions struct {
	Seed          int64
	MaxIterations int
	Tolerance     float64
	MaxConcurrent int // clustering jobs allowed to run at once
}

// ClusterEngine groups an arbitrary corpus into semantic clusters and
// projects it to 2-D for plotting.
type ClusterEngine struct {
	encoder port.Encoder
	opts    ClusterOptions
	jobs    *semaphore.Weighted
}

func NewClusterEngine(encoder port.Encoder, opts ClusterOptions) *ClusterEngine {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 100
	}
	opts.MaxConcurrent = max(opts.MaxConcurrent, 1)
	return &ClusterEngine{
		encoder: encoder,
		opts:    opts,
		jobs:    semaphore.NewWeighted(int64(opts.MaxConcurrent)),
	}
}

// ValidateClusterRequest checks a clustering request in a fixed order: cluster count,
// corpus size, then cluster count against corpus size.
func ValidateClusterRequest(corpus []string, nClusters int) error {
	if nClusters < 1 {
		return domain.NewValidationError("n_clusters", strconv.Itoa(nClusters), domain.ErrInvalidClusterCount)
	}
	if len(corpus) < 2 {
		return domain.NewValidationError("corpus", strconv.Itoa(len(corpus)), domain.ErrInsufficientCorpus)
	}
	if len(corpus) < nClusters {
		return domain.NewValidationError("n_clusters", strconv.Itoa(nClusters), domain.ErrClusterCountExceedsCorpus)
	}
	return nil
}

// Cluster encodes corpus, assigns every text one of nClusters labels and
// projects the embeddings onto their first two principal components.
// Validation happens before any encoding. Equal inputs and seed give equal
// results.
func (e *ClusterEngine) Cluster(ctx context.Context, corpus []string, nClusters int) (*domain.ClusterResult, error) {
	if err := ValidateClusterRequest(corpus, nClusters); err != nil {
		return nil, err
	}

	if err := e.jobs.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.jobs.Release(1)

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	start := time.Now()
	slog.InfoContext(ctx, "cluster_run_started",
		slog.Int("size", len(corpus)),
		slog.Int("n_clusters", nClusters),
	)

	vecs, err := e.encoder.Encode(ctx, corpus)
	if err != nil {
		slog.ErrorContext(ctx, "cluster_run_failed", slog.String("stage", "encode"), slog.String("error", err.Error()))
		return nil, domain.NewEncodingError("cluster", len(corpus), err)
	}
	if len(vecs) != len(corpus) {
		return nil, domain.NewEncodingError("cluster", len(corpus),
			fmt.Errorf("encoder returned %d vectors for %d texts", len(vecs), len(corpus)))
	}
	metrics.RecordEncodeBatch("cluster", len(corpus))

	result, err := e.fit(corpus, vecs, nClusters)
	if err != nil {
		slog.ErrorContext(ctx, "cluster_run_failed", slog.String("stage", "fit"), slog.String("error", err.Error()))
		return nil, err
	}
	result.RunID = runID

	slog.InfoContext(ctx, "cluster_run_completed",
		slog.Int("iterations", result.Iterations),
		slog.Float64("inertia", result.Inertia),
		slog.Bool("converged", result.Converged),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// fit runs k-means and the projection. Any failure, including a panic in the
// numeric code, is reported as ClusteringFailed.
func (e *ClusterEngine) fit(corpus []string, vecs [][]float32, nClusters int) (result *domain.ClusterResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = domain.NewClusteringError("cluster", len(corpus), fmt.Errorf("panic: %v", r))
		}
	}()

	points := make([][]float64, len(vecs))
	for i, v := range vecs {
		points[i] = make([]float64, len(v))
		for j, x := range v {
			points[i][j] = float64(x)
		}
	}
	cluster.Normalize(points)

	km, err := cluster.KMeans(points, cluster.KMeansOptions{
		K:             nClusters,
		Seed:          e.opts.Seed,
		MaxIterations: e.opts.MaxIterations,
		Tolerance:     e.opts.Tolerance,
	})
	if err != nil {
		return nil, domain.NewClusteringError("kmeans", len(corpus), err)
	}

	coords, err := cluster.ProjectPCA(points)
	if err != nil {
		return nil, domain.NewClusteringError("project", len(corpus), err)
	}

	return &domain.ClusterResult{
		Assignments: cluster.Assignments(corpus, km.Labels, coords),
		Plot:        cluster.BuildPlot(corpus, km.Labels, coords, nClusters),
		Iterations:  km.Iterations,
		Inertia:     km.Inertia,
		Converged:   km.Converged,
	}, nil
}
