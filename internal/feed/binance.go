// Package feed streams live market data from the Binance 24h mini-ticker
// websocket and folds it into per-coin snapshots for alert evaluation.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kundanmehta01/CryptoHub/pkg/logger"
)

// Ticker is one decoded mini-ticker frame.
type Ticker struct {
	Symbol    string
	Price     float64
	Open      float64
	Volume    float64
	Timestamp int64
}

// Client is a reconnecting Binance mini-ticker websocket consumer.
type Client struct {
	url            string
	symbols        []string
	reconnectDelay time.Duration
	maxReconnect   time.Duration
	log            *logger.Logger

	conn      *websocket.Conn
	connected bool
}

// NewClient creates a feed client for the given stream symbols
// (e.g. "btcusdt").
func NewClient(url string, symbols []string, reconnectDelay, maxReconnect time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		url:            url,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		maxReconnect:   maxReconnect,
		log:            log,
	}
}

// Connect establishes the websocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.log.Info("feed connected", logger.String("url", c.url))
	return nil
}

// Subscribe subscribes to the mini-ticker stream of every configured symbol.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("feed not connected")
	}
	params := make([]string, 0, len(c.symbols))
	for _, s := range c.symbols {
		params = append(params, strings.ToLower(s)+"@miniTicker")
	}
	msg := map[string]any{"method": "SUBSCRIBE", "params": params, "id": 1}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("feed subscribe: %w", err)
	}
	c.log.Info("feed subscribed", logger.Int("streams", len(params)))
	return nil
}

type miniTicker struct {
	Event  string `json:"e"`
	Time   int64  `json:"E"`
	Symbol string `json:"s"`
	Close  string `json:"c"`
	Open   string `json:"o"`
	Volume string `json:"v"`
}

// Read streams Ticker events and errors. The channels close when the
// context is cancelled or the connection fails.
func (c *Client) Read(ctx context.Context) (<-chan Ticker, <-chan error) {
	tickers := make(chan Ticker, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(tickers)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("feed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("feed read: %w", err)
					return
				}
				var m miniTicker
				if err := json.Unmarshal(b, &m); err != nil {
					// subscription acks and other frames
					continue
				}
				if m.Event != "24hrMiniTicker" {
					continue
				}
				t, ok := decodeTicker(m)
				if !ok {
					continue
				}
				select {
				case tickers <- t:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return tickers, errs
}

func decodeTicker(m miniTicker) (Ticker, bool) {
	price, err := strconv.ParseFloat(m.Close, 64)
	if err != nil {
		return Ticker{}, false
	}
	open, err := strconv.ParseFloat(m.Open, 64)
	if err != nil {
		return Ticker{}, false
	}
	volume, err := strconv.ParseFloat(m.Volume, 64)
	if err != nil {
		return Ticker{}, false
	}
	return Ticker{
		Symbol:    m.Symbol,
		Price:     price,
		Open:      open,
		Volume:    volume,
		Timestamp: m.Time,
	}, true
}

// Reconnect closes the connection and retries with exponential backoff
// until the context is cancelled.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	delay := c.reconnectDelay
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if err := c.Connect(ctx); err != nil {
			c.log.Warn("feed reconnect failed", logger.Error(err))
			delay *= 2
			if delay > c.maxReconnect {
				delay = c.maxReconnect
			}
			continue
		}
		return c.Subscribe(ctx)
	}
}

// Close closes the websocket connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
