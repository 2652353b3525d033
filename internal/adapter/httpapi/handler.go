package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"semsearch/internal/domain"
	"semsearch/internal/metrics"
)

type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

type Scorer interface {
	Score(ctx context.Context, a, b string) (float64, error)
}

type Clusterer interface {
	Cluster(ctx context.Context, corpus []string, nClusters int) (*domain.ClusterResult, error)
}

// StoreInfo describes the loaded embedding store for health checks.
type StoreInfo interface {
	Len() int
	Dimension() int
	Model() string
}

type Handler struct {
	searcher    Searcher
	scorer      Scorer
	clusterer   Clusterer
	store       StoreInfo
	defaultTopK int
}

func NewHandler(searcher Searcher, scorer Scorer, clusterer Clusterer, store StoreInfo, defaultTopK int) *Handler {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Handler{
		searcher:    searcher,
		scorer:      scorer,
		clusterer:   clusterer,
		store:       store,
		defaultTopK: defaultTopK,
	}
}

type calcRequest struct {
	Ques1 *string `json:"ques_1" validate:"required"`
	Ques2 *string `json:"ques_2" validate:"required"`
}

type calcResponse struct {
	Score float64 `json:"score"`
}

type clusterRequest struct {
	Corpus    []string `json:"corpus"`
	NClusters *int     `json:"n_clusters" validate:"required"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Search ranks the corpus against a question.
// (GET /search?question=...&num=...)
func (h *Handler) Search(c echo.Context) error {
	start := time.Now()
	question := ""
	num := h.defaultTopK
	err := echo.QueryParamsBinder(c).
		MustString("question", &question).
		Int("num", &num).
		BindError()
	if err != nil {
		return h.fail(c, "search", start, domain.NewValidationError("query", c.QueryString(), err))
	}

	results, err := h.searcher.Search(c.Request().Context(), question, num)
	if err != nil {
		return h.fail(c, "search", start, err)
	}

	metrics.RecordOperation("search", "ok", time.Since(start).Seconds())
	return c.JSON(http.StatusOK, results)
}

// Calc scores the similarity of two texts.
// (POST /calc)
func (h *Handler) Calc(c echo.Context) error {
	start := time.Now()
	var req calcRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "calc", start, err)
	}

	score, err := h.scorer.Score(c.Request().Context(), *req.Ques1, *req.Ques2)
	if err != nil {
		return h.fail(c, "calc", start, err)
	}

	metrics.RecordOperation("calc", "ok", time.Since(start).Seconds())
	return c.JSON(http.StatusOK, calcResponse{Score: score})
}

// Cluster groups a corpus and returns its scatter plot.
// (POST /cluster)
func (h *Handler) Cluster(c echo.Context) error {
	start := time.Now()
	var req clusterRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "cluster", start, err)
	}

	result, err := h.clusterer.Cluster(c.Request().Context(), req.Corpus, *req.NClusters)
	if err != nil {
		return h.fail(c, "cluster", start, err)
	}

	metrics.RecordOperation("cluster", "ok", time.Since(start).Seconds())
	return c.JSON(http.StatusOK, result)
}

// Healthz reports the loaded store.
// (GET /healthz)
func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"entries":   h.store.Len(),
		"dimension": h.store.Dimension(),
		"model":     h.store.Model(),
	})
}

func (h *Handler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("body", "", errors.New("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// fail maps an error to its status code: validation errors are the caller's
// fault (400), processing errors are unprocessable input (422).
func (h *Handler) fail(c echo.Context, op string, start time.Time, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProcessing):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	metrics.RecordOperation(op, http.StatusText(status), time.Since(start).Seconds())
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), op+"_failed", slog.String("error", err.Error()))
	} else {
		slog.WarnContext(c.Request().Context(), op+"_rejected",
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	return c.JSON(status, errorResponse{Detail: detailFor(err)})
}

// clusterDetails keeps the sentence-case wording API clients already match on.
var clusterDetails = []struct {
	err    error
	detail string
}{
	{domain.ErrInvalidClusterCount, "Number of clusters must be greater than 0."},
	{domain.ErrInsufficientCorpus, "Corpus must have at least 2 sentences."},
	{domain.ErrClusterCountExceedsCorpus, "Number of sentences must be greater than or equal to number of clusters."},
}

func detailFor(err error) string {
	for _, d := range clusterDetails {
		if errors.Is(err, d.err) {
			return d.detail
		}
	}
	return err.Error()
}
