package ws

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type envelope struct {
	userID  uuid.UUID
	message []byte
}

// Hub tracks open notification sockets per user. Run owns the registry; the
// exported methods only enqueue.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	direct     chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		direct:     make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) String() string { return "ws-hub" }

// Serve runs the hub until ctx is done. It satisfies suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			total := h.countLocked()
			h.mutex.Unlock()
			h.logger.Debug().Str("user_id", client.userID.String()).Int("total_clients", total).Msg("ws connected")

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)

		case env := <-h.direct:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[env.userID]))
			for c := range h.clients[env.userID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, c := range targets {
				select {
				case c.send <- env.message:
				default:
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	set, ok := h.clients[client.userID]
	if ok {
		if _, present := set[client]; present {
			delete(set, client)
			close(client.send)
		}
		if len(set) == 0 {
			delete(h.clients, client.userID)
		}
	}
	total := h.countLocked()
	h.mutex.Unlock()
	h.logger.Debug().Str("user_id", client.userID.String()).Int("total_clients", total).Msg("ws disconnected")
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for uid, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, uid)
	}
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	default:
		h.logger.Warn().Str("user_id", client.userID.String()).Msg("ws unregister queue full")
	}
}

// SendToUser queues message for every socket of userID. Messages are dropped
// when the queue is full.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) {
	if h == nil {
		return
	}
	select {
	case h.direct <- envelope{userID: userID, message: message}:
	default:
		h.logger.Warn().Str("user_id", userID.String()).Msg("ws message dropped, buffer full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.countLocked()
}
