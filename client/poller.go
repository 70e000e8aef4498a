package client

import (
	"context"
	"sync"
	"time"

	"matty-api/models"
)

// DefaultPollInterval matches the mobile app's market data refresh cadence.
const DefaultPollInterval = 30 * time.Second

// Snapshot is the last successful market data fetch. Held in memory only.
type Snapshot struct {
	Watchlist map[string]models.WatchlistEntry
	Status    *models.MarketStatus
	FetchedAt time.Time
}

// Poller refreshes watchlist and market status on a fixed interval. A failed
// refresh keeps the previous snapshot; consumers read whatever was last
// fetched successfully.
type Poller struct {
	client   *Client
	interval time.Duration

	mu       sync.RWMutex
	snapshot *Snapshot
	lastErr  error
}

// NewPoller creates a Poller with the default 30s interval.
func NewPoller(c *Client) *Poller {
	return &Poller{client: c, interval: DefaultPollInterval}
}

// NewPollerWithInterval creates a Poller with a custom interval.
func NewPollerWithInterval(c *Client, interval time.Duration) *Poller {
	return &Poller{client: c, interval: interval}
}

// Run polls until the context is canceled. It fetches once immediately,
// then on every interval tick.
func (p *Poller) Run(ctx context.Context) {
	p.Refetch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refetch(ctx)
		}
	}
}

// Refetch performs one refresh immediately, outside the tick schedule.
func (p *Poller) Refetch(ctx context.Context) {
	watchlist, err := p.client.GetWatchlist(ctx)
	if err != nil {
		p.setError(err)
		return
	}

	// Market status is best effort; the watchlist alone still makes a
	// usable snapshot.
	status, err := p.client.GetMarketStatus(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = &Snapshot{
		Watchlist: watchlist,
		Status:    status,
		FetchedAt: time.Now(),
	}
	p.lastErr = err
}

// Snapshot returns the last successful fetch, or nil before the first one.
func (p *Poller) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// LastError returns the error from the most recent refresh attempt.
func (p *Poller) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

func (p *Poller) setError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
}
