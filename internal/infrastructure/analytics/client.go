// Package analytics sends server-side product events to the capture endpoint.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/summitcrest/realty/internal/config"
	"go.uber.org/zap"
)

const (
	queueSize     = 256
	batchSize     = 50
	flushInterval = 10 * time.Second
)

// Event is a single captured event
type Event struct {
	Name       string                 `json:"event"`
	DistinctID string                 `json:"distinct_id"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

type batchPayload struct {
	APIKey string  `json:"api_key"`
	Batch  []Event `json:"batch"`
}

// Client delivers events in batches from a background worker. Capture never
// blocks: when the queue is full the event is dropped and logged. A batch is
// sent when it reaches batchSize, every flushInterval, and on Close.
type Client struct {
	endpoint      string
	apiKey        string
	httpClient    *http.Client
	logger        *zap.Logger
	flushInterval time.Duration

	mu        sync.RWMutex
	closed    bool
	queue     chan Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewClient starts the delivery worker. Without an endpoint or key the
// client is disabled and Capture is a no-op.
func NewClient(cfg config.AnalyticsConfig, logger *zap.Logger) *Client {
	c := &Client{
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:        cfg.APIKey,
		httpClient:    &http.Client{Timeout: 5 * time.Second},
		logger:        logger,
		flushInterval: flushInterval,
	}
	if !c.Enabled() {
		return c
	}
	c.queue = make(chan Event, queueSize)
	c.wg.Add(1)
	go c.run()
	return c
}

// Enabled reports whether events are delivered
func (c *Client) Enabled() bool {
	return c.endpoint != "" && c.apiKey != ""
}

// Capture enqueues an event. Events captured after Close are dropped.
func (c *Client) Capture(e Event) {
	if c.queue == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.Debug("analytics client closed, dropping event", zap.String("event", e.Name))
		return
	}
	select {
	case c.queue <- e:
	default:
		c.logger.Warn("analytics queue full, dropping event", zap.String("event", e.Name))
	}
}

// Close stops accepting events and waits for queued ones to be sent
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.queue == nil {
			return
		}
		c.mu.Lock()
		c.closed = true
		close(c.queue)
		c.mu.Unlock()

		c.wg.Wait()
		c.httpClient.CloseIdleConnections()
	})
}

func (c *Client) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := c.send(context.Background(), batch); err != nil {
			c.logger.Warn("analytics delivery failed", zap.Int("events", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-c.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (c *Client) send(ctx context.Context, events []Event) error {
	body, err := json.Marshal(batchPayload{APIKey: c.apiKey, Batch: events})
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/batch/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("batch returned status %d", resp.StatusCode)
	}
	return nil
}
