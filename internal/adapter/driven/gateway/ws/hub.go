package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Wyydra/brocall/internal/core/domain"
	"github.com/Wyydra/brocall/internal/core/port"
	"github.com/rs/zerolog/log"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrSendBufferFull = errors.New("client send buffer full")
	ErrHubStopped     = errors.New("hub stopped")
)

type Options struct {
	// WriteWait bounds a single frame write.
	WriteWait time.Duration
	// PongWait is how long a peer may stay silent before it is dropped.
	PongWait time.Duration
	// MaxMessageSize caps inbound frames; SDP blobs are a few KB.
	MaxMessageSize int64
	// SendBufferSize is the per-client outbound queue length.
	SendBufferSize int
}

func DefaultOptions() Options {
	return Options{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBufferSize: 256,
	}
}

func (o Options) pingPeriod() time.Duration {
	return (o.PongWait * 9) / 10
}

type registration struct {
	client *Client
	done   chan struct{}
}

type inbound struct {
	client *Client
	data   []byte
}

// Hub implements port.Gateway. Run is the single goroutine that feeds every
// connect, message and disconnect event to the handler, in arrival order.
type Hub struct {
	mu      sync.RWMutex
	clients map[domain.ConnID]*Client
	opts    Options

	register   chan registration
	unregister chan *Client
	inbound    chan inbound
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(opts Options) *Hub {
	return &Hub{
		clients:    make(map[domain.ConnID]*Client),
		opts:       opts,
		register:   make(chan registration),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context, handler port.EventHandler) error {
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Stopping hub")
			return nil

		case <-h.quit:
			log.Info().Msg("Stopping hub")
			return nil

		case reg := <-h.register:
			id := handler.Connect(ctx)
			reg.client.id = id
			h.mu.Lock()
			h.clients[id] = reg.client
			count := len(h.clients)
			h.mu.Unlock()
			close(reg.done)
			log.Info().Str("client_id", id.String()).Int("count", count).Msg("Client registered")

		case client := <-h.unregister:
			h.mu.RLock()
			current, ok := h.clients[client.id]
			h.mu.RUnlock()
			if !ok || current != client {
				continue
			}
			handler.Disconnect(ctx, client.id)
			h.remove(client)
			log.Info().Str("client_id", client.id.String()).Msg("Client unregistered")

		case msg := <-h.inbound:
			if err := handler.Handle(ctx, msg.client.id, msg.data); err != nil {
				h.logHandleError(msg.client, err)
			}
		}
	}
}

func (h *Hub) logHandleError(c *Client, err error) {
	l := log.With().Str("client_id", c.id.String()).Logger()
	switch {
	case errors.Is(err, domain.ErrTargetNotInRoom):
		l.Debug().Err(err).Msg("Relay dropped")
	case errors.Is(err, domain.ErrMalformedEvent):
		l.Warn().Err(err).Msg("Discarded malformed event")
	default:
		l.Error().Err(err).Msg("Failed to handle event")
	}
}

// Register hands a fresh client to the run loop and waits for its id.
func (h *Hub) Register(c *Client) error {
	reg := registration{client: c, done: make(chan struct{})}
	select {
	case h.register <- reg:
	case <-h.done:
		return ErrHubStopped
	}
	select {
	case <-reg.done:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) dispatch(c *Client, data []byte) bool {
	select {
	case h.inbound <- inbound{client: c, data: data}:
		return true
	case <-h.done:
		return false
	}
}

// Send encodes msg and queues it for the target's write pump without blocking.
func (h *Hub) Send(ctx context.Context, to domain.ConnID, msg domain.Outbound) error {
	data, err := domain.EncodeOutbound(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type(), err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClientNotFound, to)
	}
	select {
	case client.send <- data:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrSendBufferFull, to)
	}
}

// Len reports the number of attached clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// remove closes the client's queue; its write pump then sends a close frame.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
}
