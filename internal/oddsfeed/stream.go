// Package oddsfeed consumes a live odds WebSocket stream and keeps
// entry odds current in the database.
package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/racedash/internal/metrics"
	"github.com/yourusername/racedash/internal/repository"
)

// ReconnectConfig controls reconnection behavior after a dropped feed.
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// PriceUpdate is one odds change on the feed. Decimal odds arrive as
// strings so no precision is lost on the wire.
type PriceUpdate struct {
	EntryID string `json:"entry_id"`
	RaceID  string `json:"race_id"`
	Odds    string `json:"odds"`
}

// feedMessage is the envelope the odds feed sends.
type feedMessage struct {
	Op      string        `json:"op"`
	Status  int           `json:"status,omitempty"`
	Updates []PriceUpdate `json:"updates,omitempty"`
}

// StreamClient maintains the WebSocket connection to the odds feed and
// writes each price change through the entry repository.
type StreamClient struct {
	conn            *websocket.Conn
	streamURL       string
	apiKey          string
	entries         repository.EntryRepository
	mu              sync.RWMutex
	isConnected     bool
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *logrus.Logger
}

// NewStreamClient creates a new odds feed client.
func NewStreamClient(
	streamURL string,
	apiKey string,
	entries repository.EntryRepository,
	logger *logrus.Logger,
) *StreamClient {
	return &StreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		entries:         entries,
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the WebSocket connection and starts the read loop.
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.streamURL).Info("Connecting to odds feed")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to odds feed: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	s.logger.Info("Connected to odds feed")

	go s.readMessages(ctx)

	return nil
}

// Authenticate sends the authentication message to the feed.
func (s *StreamClient) Authenticate(ctx context.Context) error {
	return s.sendMessage(map[string]interface{}{
		"op":      "auth",
		"api_key": s.apiKey,
	})
}

// Subscribe subscribes the stream to odds for the given races.
func (s *StreamClient) Subscribe(ctx context.Context, raceIDs []string) error {
	s.logger.WithField("races", len(raceIDs)).Info("Subscribing to odds updates")
	return s.sendMessage(map[string]interface{}{
		"op":        "subscribe",
		"race_ids":  raceIDs,
		"heartbeat": true,
	})
}

// Run connects, authenticates, and subscribes, reconnecting with
// exponential backoff until the context is cancelled or retries are
// exhausted.
func (s *StreamClient) Run(ctx context.Context, raceIDs []string) error {
	backoff := s.reconnectConfig.InitialBackoff

	for attempt := 0; attempt <= s.reconnectConfig.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := s.connectAndSubscribe(ctx, raceIDs)
		if err == nil {
			// Connection established; wait for it to drop.
			s.waitForDisconnect(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			backoff = s.reconnectConfig.InitialBackoff
		} else {
			s.logger.WithError(err).Warn("Odds feed connection failed")
		}

		s.logger.WithField("backoff", backoff.String()).Info("Reconnecting to odds feed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}

	return fmt.Errorf("odds feed reconnect retries exhausted")
}

func (s *StreamClient) connectAndSubscribe(ctx context.Context, raceIDs []string) error {
	if err := s.Connect(ctx); err != nil {
		return err
	}
	if err := s.Authenticate(ctx); err != nil {
		s.Close()
		return err
	}
	if len(raceIDs) > 0 {
		if err := s.Subscribe(ctx, raceIDs); err != nil {
			s.Close()
			return err
		}
	}
	return nil
}

func (s *StreamClient) waitForDisconnect(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-ticker.C:
			if !s.IsConnected() {
				return
			}
		}
	}
}

// readMessages reads messages from the WebSocket connection until it
// drops.
func (s *StreamClient) readMessages(ctx context.Context) {
	defer s.Close()

	for {
		var raw json.RawMessage
		if err := s.conn.ReadJSON(&raw); err != nil {
			s.logger.WithError(err).Warn("Odds feed read failed")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var msg feedMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.WithError(err).Warn("Failed to decode odds feed message")
			continue
		}

		if msg.Op != "price_change" || len(msg.Updates) == 0 {
			continue
		}

		s.applyUpdates(ctx, msg.Updates)
	}
}

// applyUpdates writes each price change to the database. A bad update
// is logged and skipped, never fatal to the stream.
func (s *StreamClient) applyUpdates(ctx context.Context, updates []PriceUpdate) {
	for _, update := range updates {
		if update.EntryID == "" {
			continue
		}

		odds, err := decimal.NewFromString(update.Odds)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"entry_id": update.EntryID,
				"odds":     update.Odds,
			}).Warn("Skipping odds update with unparseable price")
			continue
		}
		if odds.LessThanOrEqual(decimal.NewFromInt(1)) {
			// Decimal odds below evens-minus are not quotable prices.
			continue
		}

		if err := s.entries.UpdateOdds(ctx, update.EntryID, odds); err != nil {
			s.logger.WithError(err).WithField("entry_id", update.EntryID).
				Warn("Failed to persist odds update")
			continue
		}

		metrics.RecordOddsUpdate()
	}
}

// sendMessage sends a JSON message to the feed.
func (s *StreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// IsConnected returns whether the stream is connected.
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message.
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection.
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	return s.conn.Close()
}
