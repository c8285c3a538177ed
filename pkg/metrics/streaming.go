package metrics

import (
	"sync"
	"time"
)

// StreamingMetrics tracks health counters for the bus subscription
type StreamingMetrics struct {
	mu sync.RWMutex

	// Connection metrics
	TotalConnections   int64
	FailedConnections  int64
	Reconnections      int64
	ConnectionDuration time.Duration

	// Frame metrics
	TotalFrames    int64
	DroppedFrames  int64
	FrameLatency   time.Duration
	ProcessingTime time.Duration
}

// NewStreamingMetrics creates a new StreamingMetrics instance
func NewStreamingMetrics() *StreamingMetrics {
	return &StreamingMetrics{}
}

// RecordConnection records a connection attempt
func (m *StreamingMetrics) RecordConnection(success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalConnections++
	if !success {
		m.FailedConnections++
	}
	m.ConnectionDuration += duration
}

// RecordReconnection records a reconnection attempt
func (m *StreamingMetrics) RecordReconnection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reconnections++
}

// RecordEvent records one handled (or dropped) bus frame
func (m *StreamingMetrics) RecordEvent(dropped bool, latency, processingTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalFrames++
	if dropped {
		m.DroppedFrames++
	}
	m.FrameLatency += latency
	m.ProcessingTime += processingTime
}

// Snapshot returns a copy of the current counters for logging
func (m *StreamingMetrics) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := map[string]any{
		"total_connections":   m.TotalConnections,
		"failed_connections":  m.FailedConnections,
		"reconnections":       m.Reconnections,
		"connection_duration": m.ConnectionDuration.Seconds(),
		"total_frames":        m.TotalFrames,
		"dropped_frames":      m.DroppedFrames,
	}
	if m.TotalFrames > 0 {
		snapshot["avg_frame_latency"] = m.FrameLatency.Seconds() / float64(m.TotalFrames)
		snapshot["avg_processing_time"] = m.ProcessingTime.Seconds() / float64(m.TotalFrames)
	}
	return snapshot
}
