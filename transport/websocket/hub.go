package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/cubegames/tictactoe3d/game/engine"
	"github.com/cubegames/tictactoe3d/game/service"
	"github.com/cubegames/tictactoe3d/game/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Client represents one WebSocket connection. Its connection ID is the
// key the game service uses to resolve the seat it acts for.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	mu     sync.Mutex
	closed bool
}

// Hub tracks active clients and their room membership, dispatches
// inbound events to the game service, and broadcasts the resulting
// state to rooms. Membership is mutated in lockstep with the service
// calls that seat and unseat players, so it is guarded by a mutex
// rather than a channel loop.
type Hub struct {
	service service.GameService

	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[*Client]bool
	inRoom  map[*Client]string
}

// NewHub creates a hub backed by the given game service.
func NewHub(svc service.GameService) *Hub {
	return &Hub{
		service: svc,
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[*Client]bool),
		inRoom:  make(map[*Client]string),
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and starts
// the client's read and write pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.NewString(),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	log.Debug().Str("conn", client.id).Msg("client connected")

	go client.writePump()
	go client.readPump()

	h.sendTo(client, newEvent(EventConnected, connectedPayload{
		Message: "connected to server",
	}))
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// joinRoom records that a client belongs to a room, moving it out of
// any previous room first.
func (h *Hub) joinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.inRoom[client]; ok {
		h.removeFromRoomLocked(client, prev)
	}

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	h.inRoom[client] = room
}

func (h *Hub) removeFromRoomLocked(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.inRoom, client)
}

// broadcast sends an event to every client in a room.
func (h *Hub) broadcast(room string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("failed to marshal broadcast")
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		client.enqueue(data)
	}
}

// broadcastExcept sends an event to every client in a room except one.
func (h *Hub) broadcastExcept(room string, skip *Client, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("failed to marshal broadcast")
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		if client != skip {
			members = append(members, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range members {
		client.enqueue(data)
	}
}

// sendTo sends an event to a single client.
func (h *Hub) sendTo(client *Client, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("failed to marshal event")
		return
	}
	client.enqueue(data)
}

// enqueue hands a frame to the write pump, dropping the connection if
// its send buffer is full. Frames enqueued after teardown are
// discarded.
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.conn.Close()
	}
}

// shutdown marks the client closed and releases the write pump.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// sendError reports a failure to the acting connection only. Errors are
// never broadcast to the room.
func (h *Hub) sendError(client *Client, err error) {
	h.sendTo(client, newEvent(EventError, errorPayload{
		Message: err.Error(),
		Code:    string(service.CodeForError(err)),
	}))
}

// handleMessage dispatches one inbound envelope. A panic in a handler
// is contained here: the acting client gets an internal error event and
// every other connection is unaffected.
func (h *Hub) handleMessage(client *Client, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("conn", client.id).Interface("panic", r).Msg("recovered from handler panic")
			h.sendTo(client, newEvent(EventError, errorPayload{
				Message: "internal server error",
				Code:    string(service.CodeInternal),
			}))
		}
	}()

	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		h.sendError(client, fmt.Errorf("malformed message: %w", err))
		return
	}

	ctx := context.Background()

	switch event.Type {
	case EventCreateGame:
		h.handleCreateGame(ctx, client, event.Data)
	case EventJoinGame:
		h.handleJoinGame(ctx, client, event.Data)
	case EventRejoinGame:
		h.handleRejoinGame(ctx, client, event.Data)
	case EventMakeMove:
		h.handleMakeMove(ctx, client, event.Data)
	case EventResetGame:
		h.handleResetGame(ctx, client)
	default:
		h.sendError(client, fmt.Errorf("unknown event type %q", event.Type))
	}
}

func (h *Hub) handleCreateGame(ctx context.Context, client *Client, data json.RawMessage) {
	var req createGameRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			h.sendError(client, fmt.Errorf("malformed create_game payload: %w", err))
			return
		}
	}

	created, err := h.service.CreateGame(ctx, client.id, req.PlayerName)
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.joinRoom(client, created.Room)

	h.sendTo(client, newEvent(EventGameCreated, gameCreatedPayload{
		Room:         created.Room,
		PlayerNumber: created.PlayerNumber,
		PlayerName:   created.PlayerName,
		GameState:    created.State,
	}))
}

func (h *Hub) handleJoinGame(ctx context.Context, client *Client, data json.RawMessage) {
	var req joinGameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, fmt.Errorf("malformed join_game payload: %w", err))
		return
	}

	joined, err := h.service.JoinGame(ctx, client.id, req.Room, req.PlayerName)
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.joinRoom(client, joined.Room)

	h.sendTo(client, newEvent(EventPlayerJoinedSelf, playerJoinedPayload{
		Room:         joined.Room,
		PlayerNumber: joined.PlayerNumber,
		PlayerName:   joined.PlayerName,
		GameState:    joined.State,
	}))

	h.broadcastExcept(joined.Room, client, newEvent(EventPlayerJoined, playerJoinedPayload{
		PlayerNumber: joined.PlayerNumber,
		PlayerName:   joined.PlayerName,
		GameState:    joined.State,
	}))
}

func (h *Hub) handleRejoinGame(ctx context.Context, client *Client, data json.RawMessage) {
	var req rejoinGameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, fmt.Errorf("malformed rejoin_game payload: %w", err))
		return
	}

	rejoined, err := h.service.RejoinGame(ctx, client.id, req.Room, req.PlayerNumber)
	if err != nil {
		// Rejoin failures go back on the response event so the client
		// can fall back to a fresh join.
		h.sendTo(client, newEvent(EventRejoinResponse, rejoinResponsePayload{
			Success: false,
			Message: err.Error(),
		}))
		return
	}

	h.joinRoom(client, rejoined.Room)

	h.sendTo(client, newEvent(EventRejoinResponse, rejoinResponsePayload{
		Success:      true,
		Room:         rejoined.Room,
		PlayerNumber: rejoined.PlayerNumber,
		GameState:    rejoined.State,
	}))

	h.broadcastExcept(rejoined.Room, client, newEvent(EventPlayerReconnected, playerReconnectedPayload{
		PlayerNumber: rejoined.PlayerNumber,
	}))
}

func (h *Hub) handleMakeMove(ctx context.Context, client *Client, data json.RawMessage) {
	var req moveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, fmt.Errorf("malformed make_move payload: %w", err))
		return
	}

	played, err := h.service.MakeMove(ctx, client.id, engine.Coord{Z: req.Z, Y: req.Y, X: req.X})
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.broadcast(played.Room, newEvent(EventMoveMade, moveMadePayload{
		Z:            played.Coord.Z,
		Y:            played.Coord.Y,
		X:            played.Coord.X,
		PlayerNumber: played.PlayerNumber,
		GameState:    played.State,
	}))

	switch played.Result {
	case session.MoveWin:
		h.broadcast(played.Room, newEvent(EventGameOver, gameOverPayload{
			Winner:       *played.Winner,
			WinnerName:   played.PlayerName,
			WinningCells: played.WinningLine,
			GameState:    played.State,
			Message:      played.Message,
		}))
	case session.MoveDraw:
		h.broadcast(played.Room, newEvent(EventGameDraw, gameDrawPayload{
			GameState: played.State,
			Message:   played.Message,
		}))
	}
}

func (h *Hub) handleResetGame(ctx context.Context, client *Client) {
	reset, err := h.service.ResetGame(ctx, client.id)
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.broadcast(reset.Room, newEvent(EventGameReset, gameResetPayload{
		GameState: reset.State,
		Message:   "New game started!",
	}))
}

// handleDisconnect tears down a closed connection: it unseats the
// player, drops room membership, and notifies the remaining player.
func (h *Hub) handleDisconnect(client *Client) {
	h.mu.Lock()
	delete(h.clients, client.id)
	room, wasInRoom := h.inRoom[client]
	if wasInRoom {
		h.removeFromRoomLocked(client, room)
	}
	h.mu.Unlock()

	client.shutdown()

	log.Debug().Str("conn", client.id).Msg("client disconnected")

	left, err := h.service.Disconnect(context.Background(), client.id)
	if err != nil {
		// Connections that never joined a room have nothing to unseat.
		return
	}

	if !left.RoomClosed {
		h.broadcast(left.Room, newEvent(EventPlayerLeft, playerLeftPayload{
			PlayerNumber: left.PlayerNumber,
			PlayerName:   left.PlayerName,
		}))
	}
}

// readPump pumps messages from the WebSocket connection into the hub's
// dispatcher.
func (c *Client) readPump() {
	defer func() {
		c.hub.handleDisconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conn", c.id).Msg("websocket read error")
			}
			break
		}
		c.hub.handleMessage(c, raw)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
