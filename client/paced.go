package client

import (
	"context"
	"time"

	ai "github.com/spetersoncode/pkextract"
	"golang.org/x/time/rate"
)

// Paced wraps a Completer so consecutive calls are at least interval apart.
// It is the hook for providers with tight per-minute quotas; a non-positive
// interval returns c unchanged. The limiter is shared by all callers of the
// returned Completer.
func Paced(c ai.Completer, interval time.Duration) ai.Completer {
	if interval <= 0 {
		return c
	}
	return &paced{next: c, limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

type paced struct {
	next    ai.Completer
	limiter *rate.Limiter
}

func (p *paced) Complete(ctx context.Context, req ai.CompletionRequest, opts ...ai.Option) (*ai.Completion, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ai.ClientError{Op: "complete", Err: err}
	}
	return p.next.Complete(ctx, req, opts...)
}
