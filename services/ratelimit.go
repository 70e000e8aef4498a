package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// ProviderLimiter applies a token bucket per upstream provider. Brokers
// enforce strict per-key rate limits; queueing here keeps bursts from
// turning into upstream 429s.
type ProviderLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewProviderLimiter creates a limiter allowing rps requests per second with
// the given burst per provider.
func NewProviderLimiter(rps float64, burst int) *ProviderLimiter {
	return &ProviderLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (p *ProviderLimiter) limiter(provider string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.limiters[provider]
	if !ok {
		l = rate.NewLimiter(p.rps, p.burst)
		p.limiters[provider] = l
	}
	return l
}

// Wait blocks until the provider's bucket has a token or ctx is done.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	if err := p.limiter(provider).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", provider, err)
	}
	return nil
}
