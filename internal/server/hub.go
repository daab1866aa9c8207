package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
)

// ErrQueueFull is returned when the broadcast queue cannot take an event.
var ErrQueueFull = errors.New("websocket broadcast queue full")

// EventSnapshot is the type of the first message every client receives.
const EventSnapshot = "snapshot"

// Snapshot is the state sent to a client on connect.
type Snapshot struct {
	Type     string         `json:"type"`
	Signals  []model.Signal `json:"signals"`
	Statuses []model.Status `json:"statuses"`
}

// Hub fans pipeline events out to WebSocket clients. Register, unregister
// and broadcast are serialized through the Run loop.
type Hub struct {
	// Snapshot builds the initial state for new clients.
	Snapshot func() Snapshot
	// OnClients is called with the client count after every change.
	OnClients func(n int)

	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}
}

// NewHub creates a Hub. Call Run before serving connections.
func NewHub(snapshot func() Snapshot) *Hub {
	return &Hub{
		Snapshot:   snapshot,
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// Run is the hub loop. It closes every client when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			h.changed()
			close(h.done)
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			if h.Snapshot != nil {
				if msg, err := json.Marshal(h.Snapshot()); err == nil {
					c.send <- msg
				}
			}
			h.changed()

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.changed()
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow consumer
					h.drop(c)
					h.changed()
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) changed() {
	if h.OnClients != nil {
		h.OnClients(len(h.clients))
	}
}

// Clients returns the connected client count, or 0 once the hub stopped.
func (h *Hub) Clients() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Publish queues one event for every client without blocking.
func (h *Hub) Publish(ev notifier.Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (h *Hub) PublishSignal(_ context.Context, sig model.Signal) error {
	return h.Publish(notifier.SignalEvent(sig))
}

func (h *Hub) PublishStatus(_ context.Context, st model.Status) error {
	return h.Publish(notifier.StatusEvent(st))
}

func (h *Hub) PublishDismiss(_ context.Context, id string) error {
	return h.Publish(notifier.DismissEvent(id))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

var _ notifier.Publisher = (*Hub)(nil)
