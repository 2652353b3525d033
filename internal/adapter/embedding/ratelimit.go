package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"semsearch/internal/port"
)

// RateLimitedEncoder throttles calls to a remote encoder. Each Encode call
// consumes one token regardless of batch size.
type RateLimitedEncoder struct {
	next    port.Encoder
	limiter *rate.Limiter
}

func NewRateLimitedEncoder(next port.Encoder, perSecond float64, burst int) *RateLimitedEncoder {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedEncoder{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (e *RateLimitedEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("encoder rate limit: %w", err)
	}
	return e.next.Encode(ctx, texts)
}

func (e *RateLimitedEncoder) Version() string {
	return e.next.Version()
}
