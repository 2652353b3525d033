package domain

import "time"

// Record is one row of the question/answer corpus.
type Record struct {
	ID       string
	Question string
	Answer   string
	Tokenize string // text fed to the encoder
}

// Embedding is a fixed-length vector produced by an encoder.
type Embedding []float32

// Entry binds a record to its embedding. Row is the record's position in the corpus.
type Entry struct {
	Row       int
	Record    Record
	Embedding Embedding
}

type SearchResult struct {
	ID       string  `json:"ID"`
	Question string  `json:"QUESTION"`
	Answer   string  `json:"ANSWER"`
	Score    float64 `json:"SCORE"`
}

type ClusterAssignment struct {
	Text  string  `json:"text"`
	Label int     `json:"cluster_label"`
	X     float64 `json:"projected_x"`
	Y     float64 `json:"projected_y"`
}

// PlotPoint is a single scatter point; Color is the cluster label.
type PlotPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color int     `json:"color"`
	Label string  `json:"label"`
}

// ScatterPlot is a renderer-agnostic scatter plot for the client.
type ScatterPlot struct {
	Title    string      `json:"title"`
	XLabel   string      `json:"x_label"`
	YLabel   string      `json:"y_label"`
	Clusters int         `json:"clusters"`
	Points   []PlotPoint `json:"points"`
}

type ClusterResult struct {
	RunID       string              `json:"run_id"`
	Assignments []ClusterAssignment `json:"assignments"`
	Plot        ScatterPlot         `json:"plot_json"`
	Iterations  int                 `json:"iterations"`
	Inertia     float64             `json:"inertia"`
	Converged   bool                `json:"converged"`
}

// CacheManifest describes a persisted embedding cache artifact.
type CacheManifest struct {
	SchemaVersion int       `json:"schema_version"`
	Count         int       `json:"count"`
	Dimension     int       `json:"dimension"`
	Model         string    `json:"model"`
	CorpusHash    string    `json:"corpus_hash"`
	CreatedAt     time.Time `json:"created_at"`
}
