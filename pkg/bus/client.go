package bus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/koji-go/pkg/metrics"
)

// Client consumes the message-bus relay over SSE with connection
// management. Each complete SSE event becomes one Frame; the event name
// carries the bus topic.
type Client struct {
	URL           string
	Headers       map[string]string
	Metrics       *metrics.StreamingMetrics
	mu            sync.RWMutex
	conn          *http.Response
	reader        *bufio.Reader
	reconnectChan chan struct{}
	stopChan      chan struct{}
}

// NewClient creates a bus client for the given relay URL.
func NewClient(url string) *Client {
	return &Client{
		URL:           url,
		Headers:       make(map[string]string),
		Metrics:       metrics.NewStreamingMetrics(),
		reconnectChan: make(chan struct{}, 1),
		stopChan:      make(chan struct{}),
	}
}

// Subscribe consumes frames until the context is canceled or the retry
// budget is spent, invoking handler for every decoded frame.
func (c *Client) Subscribe(ctx context.Context, lastFrameID string, handler func(*Frame)) error {
	var retryCount int
	maxRetries := 3
	baseDelay := time.Second
	shouldReconnect := false

	for {
		select {
		case <-ctx.Done():
			c.cleanup()
			return ctx.Err()
		case <-c.stopChan:
			c.cleanup()
			return nil
		case <-c.reconnectChan:
			shouldReconnect = true
		default:
			if shouldReconnect {
				c.cleanup()
				c.Metrics.RecordReconnection()
				shouldReconnect = false
			}

			if err := c.connect(ctx, lastFrameID); err != nil {
				if retryCount >= maxRetries {
					return fmt.Errorf("max retries exceeded: %w", err)
				}
				delay := baseDelay * time.Duration(1<<retryCount)
				time.Sleep(delay)
				retryCount++
				continue
			}

			// Reset retry count after successful connection
			retryCount = 0

			if err := c.processFrames(ctx, handler); err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					shouldReconnect = true
					continue
				}
				return err
			}
		}
	}
}

// cleanup closes any existing connection and resets the client state
func (c *Client) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Body.Close()
		c.conn = nil
		c.reader = nil
	}
}

// connect establishes a new relay connection
func (c *Client) connect(ctx context.Context, lastFrameID string) error {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, "GET", c.URL, nil)
	if err != nil {
		c.Metrics.RecordConnection(false, time.Since(startTime))
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Connection", "keep-alive")
	if lastFrameID != "" {
		req.Header.Set("Last-Event-ID", lastFrameID)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		if os.IsTimeout(err) || strings.Contains(err.Error(), "connection reset by peer") {
			c.Metrics.RecordConnection(false, time.Since(startTime))
			return fmt.Errorf("failed to connect (network error): %w", err)
		}
		c.Metrics.RecordConnection(false, time.Since(startTime))
		return fmt.Errorf("failed to connect: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		respBodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.Metrics.RecordConnection(false, time.Since(startTime))
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBodyBytes))
	}

	c.mu.Lock()
	c.conn = resp
	c.reader = bufio.NewReader(resp.Body)
	c.mu.Unlock()

	c.Metrics.RecordConnection(true, time.Since(startTime))
	return nil
}

// processFrames reads frames off the open connection until it drops
func (c *Client) processFrames(ctx context.Context, handler func(*Frame)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopChan:
			return nil
		case <-c.reconnectChan:
			return io.EOF
		default:
			frame, err := c.readFrame()
			if err != nil {
				return err
			}
			if frame == nil {
				continue
			}

			// Frames without a topic are unroutable.
			if frame.Topic == "" {
				c.Metrics.RecordEvent(true, 0, 0)
				continue
			}

			start := time.Now()
			handler(frame)
			c.Metrics.RecordEvent(false, time.Since(start), time.Since(start))
		}
	}
}

// readFrame reads a single SSE event and decodes it into a Frame
func (c *Client) readFrame() (*Frame, error) {
	c.mu.RLock()
	reader := c.reader
	c.mu.RUnlock()

	if reader == nil {
		return nil, io.EOF
	}

	frame := &Frame{}
	var body strings.Builder
	inEvent := false

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimRight(line, "\n\r")

		// Empty line marks the end of an event
		if line == "" {
			if inEvent {
				if frame.ID == "" {
					frame.ID = uuid.New().String()
				}
				frame.Body = []byte(body.String())
				return frame, nil
			}
			continue
		}

		inEvent = true

		if strings.HasPrefix(line, "id:") {
			frame.ID = strings.TrimSpace(line[3:])
		} else if strings.HasPrefix(line, "event:") {
			frame.Topic = strings.TrimSpace(line[6:])
		} else if strings.HasPrefix(line, "data:") {
			dataLine := strings.TrimPrefix(line, "data:")
			if body.Len() > 0 {
				body.WriteString("\n")
			}
			body.WriteString(strings.TrimPrefix(dataLine, " "))
		} else if strings.HasPrefix(line, ":") {
			// Comment line, ignore
			continue
		}
	}
}

// Close shuts the subscription down
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	close(c.stopChan)
	if c.conn != nil {
		return c.conn.Body.Close()
	}
	return nil
}

// Reconnect triggers a reconnection
func (c *Client) Reconnect() {
	select {
	case c.reconnectChan <- struct{}{}:
	default:
	}
}
