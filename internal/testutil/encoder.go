// Package testutil holds encoder fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
)

// FixtureEncoder returns hand-written vectors for known texts, standing in
// for a semantic model in tests.
type FixtureEncoder struct {
	Vectors map[string][]float32
	Model   string
	Err     error // returned by every call when set

	mu    sync.Mutex
	calls int
	texts int
}

func NewFixtureEncoder(vectors map[string][]float32) *FixtureEncoder {
	return &FixtureEncoder{Vectors: vectors, Model: "fixture"}
}

func (e *FixtureEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.texts += len(texts)
	e.mu.Unlock()

	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := e.Vectors[t]
		if !ok {
			return nil, fmt.Errorf("fixture encoder: unknown text %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func (e *FixtureEncoder) Version() string { return e.Model }

// Calls reports how many Encode calls and texts were seen.
func (e *FixtureEncoder) Calls() (calls, texts int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls, e.texts
}

// SemanticVectors is a small hand-built embedding space: animals and finance
// occupy different directions, with near-synonyms close together.
func SemanticVectors() map[string][]float32 {
	return map[string][]float32{
		"the cat sat on the mat":      {0.9, 0.1, 0.0, 0.1},
		"feline rested on rug":        {0.8, 0.2, 0.1, 0.1},
		"stock markets rallied today": {0.0, 0.1, 0.9, 0.3},
		"a cat is sitting somewhere":  {0.85, 0.15, 0.05, 0.0},
		"cat":                         {1.0, 0.1, 0.0, 0.0},
		"kitten":                      {0.9, 0.2, 0.0, 0.1},
		"stock":                       {0.0, 0.1, 1.0, 0.2},
		"bond":                        {0.1, 0.0, 0.9, 0.3},
	}
}
