// Package stream pushes published boards to WebSocket subscribers.
package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/metrics"
	"github.com/yourusername/kelly-board/internal/models"
)

const broadcastBufferSize = 64

// MessageTypeBoard marks a message carrying a full board
const MessageTypeBoard = "board"

// Message is the JSON envelope sent to subscribers
type Message struct {
	Type      string        `json:"type"`
	Board     *models.Board `json:"board"`
	Timestamp time.Time     `json:"timestamp"`
}

// SnapshotFunc returns the board new subscribers receive on connect, or nil
type SnapshotFunc func() *models.Board

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub maintains the set of active clients and broadcasts boards to them
type Hub struct {
	clients   map[*Client]struct{}
	clientsMu sync.RWMutex

	broadcast  chan *models.Board
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	snapshot     SnapshotFunc
	writeTimeout time.Duration
	logger       *logrus.Entry
}

// NewHub creates a new Hub. writeTimeout <= 0 uses the default.
func NewHub(snapshot SnapshotFunc, writeTimeout time.Duration, log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteWait
	}

	return &Hub{
		clients:      make(map[*Client]struct{}),
		broadcast:    make(chan *models.Board, broadcastBufferSize),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		snapshot:     snapshot,
		writeTimeout: writeTimeout,
		logger:       log.WithField("component", "stream"),
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Board stream hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			close(h.done)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case board := <-h.broadcast:
			h.broadcastBoard(board)
		}
	}
}

// Publish queues a board for broadcast. Boards are dropped when the buffer is full.
func (h *Hub) Publish(board *models.Board) {
	select {
	case h.broadcast <- board:
	default:
		h.logger.WithField("board_id", board.ID.String()).Warn("Broadcast buffer full, dropping board")
	}
}

// Register adds a client to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ServeHTTP upgrades the request to a WebSocket subscription
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := newClient(uuid.New().String(), conn, h, h.writeTimeout)
	if !h.Register(c) {
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.clientsMu.Unlock()

	metrics.UpdateStreamClients(count)
	h.logger.WithFields(logrus.Fields{"client_id": c.ID, "clients": count}).Info("Stream client connected")

	if h.snapshot != nil {
		if board := h.snapshot(); board != nil {
			c.trySend(newBoardMessage(board))
		}
	}
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.clientsMu.Unlock()

	if ok {
		metrics.UpdateStreamClients(count)
		h.logger.WithFields(logrus.Fields{"client_id": c.ID, "clients": count}).Info("Stream client disconnected")
	}
}

func (h *Hub) broadcastBoard(board *models.Board) {
	message := newBoardMessage(board)

	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.trySend(message) {
			h.logger.WithField("client_id", c.ID).Warn("Stream client too slow, disconnecting")
			h.unregisterClient(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.WithField("clients", len(h.clients)).Info("Board stream hub shutting down")
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.UpdateStreamClients(0)
}

func newBoardMessage(board *models.Board) Message {
	return Message{
		Type:      MessageTypeBoard,
		Board:     board,
		Timestamp: time.Now().UTC(),
	}
}
