package port

import (
	"context"

	"semsearch/internal/domain"
)

// RecordSource yields the corpus rows in a stable order.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.Record, error)
}

// EntryIndex exposes the read-only, record-bound embeddings of the corpus.
type EntryIndex interface {
	Entries() []domain.Entry
}
