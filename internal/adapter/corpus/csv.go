package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"semsearch/internal/adapter/analyzer"
	"semsearch/internal/domain"
)

// Column names of the corpus table.
const (
	ColID       = "ID"
	ColQuestion = "QUESTION"
	ColAnswer   = "ANSWER"
	ColTokenize = "TOKENIZE"
)

// CSVSource reads question/answer records from one or more CSV files.
type CSVSource struct {
	root      string
	pattern   string
	excludes  []string
	tokenizer *analyzer.Tokenizer // nil disables the TOKENIZE fallback
}

func NewCSVSource(root, pattern string, excludes []string, tokenizer *analyzer.Tokenizer) *CSVSource {
	return &CSVSource{
		root:      root,
		pattern:   pattern,
		excludes:  excludes,
		tokenizer: tokenizer,
	}
}

// Records loads every matched file in lexical order. Row order within and
// across files is preserved.
func (s *CSVSource) Records(ctx context.Context) ([]domain.Record, error) {
	files, err := Resolve(s.root, s.pattern, s.excludes)
	if err != nil {
		return nil, domain.NewConfigurationError(err, "resolve corpus pattern %q", s.pattern)
	}
	if len(files) == 0 {
		return nil, domain.NewConfigurationError(os.ErrNotExist, "no corpus files match %q", s.pattern)
	}

	var records []domain.Record
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := s.readFile(path)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "corpus_file_loaded", slog.String("path", path), slog.Int("rows", len(recs)))
		records = append(records, recs...)
	}
	return records, nil
}

func (s *CSVSource) readFile(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewConfigurationError(err, "open corpus %s", path)
	}
	defer f.Close()

	recs, err := ReadCSV(f, s.tokenizer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadCSV parses a corpus table. The header must name ID, QUESTION, ANSWER and
// TOKENIZE (any case, any order); other columns are ignored. When tokenizer is
// non-nil, a blank TOKENIZE cell is derived from QUESTION.
func ReadCSV(r io.Reader, tokenizer *analyzer.Tokenizer) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewConfigurationError(domain.ErrCorpusSchema, "empty file")
		}
		return nil, domain.NewConfigurationError(err, "read header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		cols[name] = i
	}
	for _, required := range []string{ColID, ColQuestion, ColAnswer, ColTokenize} {
		if _, ok := cols[required]; !ok {
			return nil, domain.NewConfigurationError(domain.ErrCorpusSchema, "%s", required)
		}
	}

	var records []domain.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewConfigurationError(err, "line %d", line)
		}

		rec := domain.Record{
			ID:       field(row, cols[ColID]),
			Question: field(row, cols[ColQuestion]),
			Answer:   field(row, cols[ColAnswer]),
			Tokenize: field(row, cols[ColTokenize]),
		}
		if strings.TrimSpace(rec.Tokenize) == "" && tokenizer != nil {
			rec.Tokenize = tokenizer.Normalize(rec.Question)
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
