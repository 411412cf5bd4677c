package feed

import (
	"context"
	"time"
)

// PriceTick is one external market price observation.
type PriceTick struct {
	Exchange string
	Symbol   string
	Price    float64
	Time     time.Time
}

// PriceSource streams external market prices into a channel until the
// context is cancelled.
type PriceSource interface {
	// Name identifies the source.
	Name() string

	// Stream connects and pushes ticks into the channel. It reconnects on
	// transient failures and returns nil once the context is cancelled.
	Stream(ctx context.Context, ticks chan<- PriceTick) error
}
