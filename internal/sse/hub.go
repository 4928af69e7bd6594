// Package sse implements the live notification channel: an in-memory registry
// of open server-sent-event connections keyed by terminal, used to push
// forced messages to connected terminal displays. All state is process-local;
// a restart drops every registration and clients are expected to reconnect.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Fixed channel policy constants
const (
	// KeepAliveInterval is how often each connection emits a keep-alive
	// comment to detect dead links.
	KeepAliveInterval = 15 * time.Second

	// SweepInterval is how often the hub probes every registered connection
	// with a no-op ping and drops the ones that fail.
	SweepInterval = 30 * time.Second
)

// StreamWriter is the client-facing side of one live connection.
// echo.Response satisfies it.
type StreamWriter interface {
	io.Writer
	Flush()
}

// Event is the JSON payload written on the stream
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ClientID  string    `json:"clientId,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Connection is the handle for one registered stream. One terminal may hold
// several simultaneous connections, so the handle identity is the connection
// id, not the terminal id.
type Connection struct {
	ID         string
	terminalID string

	writeMu sync.Mutex
	w       StreamWriter

	done      chan struct{}
	closeOnce sync.Once
}

func (c *Connection) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writeFrame sends one raw SSE frame. Writes are serialized per connection
// since pushes, keep-alives and sweeps run concurrently.
func (c *Connection) writeFrame(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.w.Write(frame); err != nil {
		return err
	}
	c.w.Flush()
	return nil
}

func (c *Connection) writeEvent(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return c.writeFrame([]byte("data: " + string(data) + "\n\n"))
}

func (c *Connection) writeComment(text string) error {
	return c.writeFrame([]byte(": " + text + "\n\n"))
}

// Hub is the process-wide registry of live connections
type Hub struct {
	mu    sync.Mutex
	conns map[string]*Connection

	stop     chan struct{}
	stopOnce sync.Once
}

// NewHub creates an empty hub and starts its background connection sweep
func NewHub() *Hub {
	h := &Hub{
		conns: make(map[string]*Connection),
		stop:  make(chan struct{}),
	}
	go h.sweepLoop()
	return h
}

// Register opens a live connection for a terminal, emits the initial
// "connected" event and arms the per-connection keep-alive. The returned
// handle must be passed to Unregister when the client goes away.
func (h *Hub) Register(terminalID string, w StreamWriter) (*Connection, error) {
	conn := &Connection{
		ID:         fmt.Sprintf("%s-%s", terminalID, uuid.NewString()),
		terminalID: terminalID,
		w:          w,
		done:       make(chan struct{}),
	}

	if err := conn.writeEvent(Event{
		Type:      "connected",
		Timestamp: time.Now(),
		ClientID:  conn.ID,
	}); err != nil {
		return nil, fmt.Errorf("failed to write connected event: %w", err)
	}

	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.mu.Unlock()

	go h.keepAlive(conn)

	log.Info().Str("client_id", conn.ID).Msg("SSE client connected")
	return conn, nil
}

// Unregister removes a connection from the hub. It is idempotent and is
// called on client disconnect, stream error, or keep-alive write failure.
func (h *Hub) Unregister(connectionID string) {
	h.mu.Lock()
	conn, ok := h.conns[connectionID]
	if ok {
		delete(h.conns, connectionID)
	}
	h.mu.Unlock()

	if ok {
		conn.close()
		log.Info().Str("client_id", connectionID).Msg("SSE client disconnected")
	}
}

// Push writes a "message" event to every connection registered for the
// terminal and returns the number of successful deliveries. A write failure
// unregisters only the failed connection; the rest still receive the message.
func (h *Hub) Push(terminalID, message string) int {
	event := Event{
		Type:      "message",
		Timestamp: time.Now(),
		Message:   message,
	}

	delivered := 0
	for _, conn := range h.connsFor(terminalID) {
		if err := conn.writeEvent(event); err != nil {
			log.Error().Err(err).Str("client_id", conn.ID).Msg("Failed to push message to client")
			h.Unregister(conn.ID)
			continue
		}
		delivered++
	}

	log.Info().
		Str("terminal_id", terminalID).
		Int("delivered", delivered).
		Msg("SSE message pushed")
	return delivered
}

// Count returns the number of live connections registered for a terminal
func (h *Hub) Count(terminalID string) int {
	return len(h.connsFor(terminalID))
}

// Close stops the background sweep and drops every registration
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })

	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[string]*Connection)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.close()
	}
}

func (h *Hub) connsFor(terminalID string) []*Connection {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := make([]*Connection, 0, 2)
	for _, conn := range h.conns {
		if conn.terminalID == terminalID {
			conns = append(conns, conn)
		}
	}
	return conns
}

func (h *Hub) snapshot() []*Connection {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := make([]*Connection, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	return conns
}

// keepAlive emits a comment frame every KeepAliveInterval until the
// connection is unregistered. A failed write drops the connection.
func (h *Hub) keepAlive(conn *Connection) {
	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-conn.done:
			return
		case <-h.stop:
			return
		case <-ticker.C:
			if err := conn.writeComment("keepalive"); err != nil {
				log.Error().Err(err).Str("client_id", conn.ID).Msg("Keepalive failed for client")
				h.Unregister(conn.ID)
				return
			}
		}
	}
}

// sweepLoop periodically probes all registered connections, independent of
// the per-connection keep-alive, so silently-dead connections cannot
// accumulate.
func (h *Hub) sweepLoop() {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			for _, conn := range h.snapshot() {
				if err := conn.writeComment("ping"); err != nil {
					log.Info().Str("client_id", conn.ID).Msg("Removing inactive client")
					h.Unregister(conn.ID)
				}
			}
		}
	}
}
