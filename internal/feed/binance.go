package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atiselsts/cex-dex-arbitrage-anatomy/internal/observability"
)

const defaultBinanceWSURL = "wss://stream.binance.com:9443/ws"

// BinanceOptions configures a Binance price source.
type BinanceOptions struct {
	// Symbol is the lowercase Binance trading pair, e.g. "ethusdt".
	Symbol string

	// URL overrides the stream endpoint. Used in tests.
	URL string

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// BinanceSource streams last-trade prices from the Binance ticker stream.
type BinanceSource struct {
	symbol  string
	url     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBinanceSource creates a Binance price source.
func NewBinanceSource(opts BinanceOptions) (*BinanceSource, error) {
	if opts.Symbol == "" {
		return nil, fmt.Errorf("binance source: symbol is required")
	}
	url := opts.URL
	if url == "" {
		url = defaultBinanceWSURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BinanceSource{
		symbol:  strings.ToLower(opts.Symbol),
		url:     url,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// Compile-time interface check.
var _ PriceSource = (*BinanceSource)(nil)

// Name identifies the source.
func (b *BinanceSource) Name() string {
	return "binance"
}

// Stream connects to the ticker stream and pushes ticks until the context is
// cancelled. Transient failures trigger a reconnect with capped exponential
// backoff.
func (b *BinanceSource) Stream(ctx context.Context, ticks chan<- PriceTick) error {
	streamURL := fmt.Sprintf("%s/%s@ticker", b.url, b.symbol)
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("binance: context cancelled, shutting down")
			return nil
		default:
		}

		b.logger.Info("binance: connecting", "url", streamURL)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
		if err != nil {
			b.logger.Error("binance: connection failed", "error", err)
			if b.metrics != nil {
				b.metrics.FeedReconnects.Inc()
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
				backoff *= 2
				if backoff > 16*time.Second {
					backoff = 16 * time.Second
				}
			}
			continue
		}

		// Reset backoff on successful connection
		backoff = time.Second
		b.logger.Info("binance: connected")

		if err := b.readLoop(ctx, conn, ticks); err != nil {
			b.logger.Error("binance: read loop failed", "error", err)
			if b.metrics != nil {
				b.metrics.FeedReconnects.Inc()
			}
			continue
		}
		return nil
	}
}

// readLoop reads messages until the connection breaks (returns an error to
// trigger reconnect) or the context is cancelled (returns nil).
func (b *BinanceSource) readLoop(ctx context.Context, conn *websocket.Conn, ticks chan<- PriceTick) error {
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info("binance: context cancelled, closing connection")
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		tick, err := parseTicker(message)
		if err != nil {
			b.logger.Warn("binance: skipping malformed ticker", "error", err)
			continue
		}

		select {
		case ticks <- tick:
			if b.metrics != nil {
				b.metrics.FeedTicksReceived.Inc()
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// binanceTicker is the subset of the 24hr ticker stream payload in use.
type binanceTicker struct {
	EventTime int64  `json:"E"` // ms
	Symbol    string `json:"s"`
	LastPrice string `json:"c"`
}

// parseTicker converts a raw ticker stream message into a PriceTick.
func parseTicker(message []byte) (PriceTick, error) {
	var t binanceTicker
	if err := json.Unmarshal(message, &t); err != nil {
		return PriceTick{}, fmt.Errorf("unmarshal ticker: %w", err)
	}
	if t.LastPrice == "" {
		return PriceTick{}, fmt.Errorf("ticker missing last price")
	}

	price, err := strconv.ParseFloat(t.LastPrice, 64)
	if err != nil {
		return PriceTick{}, fmt.Errorf("parse last price %q: %w", t.LastPrice, err)
	}
	if price <= 0 {
		return PriceTick{}, fmt.Errorf("non-positive last price %v", price)
	}

	return PriceTick{
		Exchange: "binance",
		Symbol:   strings.ToLower(t.Symbol),
		Price:    price,
		Time:     time.UnixMilli(t.EventTime).UTC(),
	}, nil
}
