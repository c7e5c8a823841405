package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hexquiz/hexquiz/internal/game"
	"github.com/hexquiz/hexquiz/internal/hexgrid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The game client is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Inbound is the envelope for every client-to-server event. Fields beyond
// Type are set depending on the event.
type Inbound struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Role     string `json:"role,omitempty"`
	Team     string `json:"team,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	CellID   *int   `json:"cellId,omitempty"`
	Correct  *bool  `json:"correct,omitempty"`
}

// gateway resolves inbound WebSocket events to room transitions and fans
// the resulting events back out through the broker.
type gateway struct {
	logger *slog.Logger
	rooms  *game.Registry
	broker *Broker
}

func newGateway(logger *slog.Logger, rooms *game.Registry) *gateway {
	return &gateway{
		logger: logger,
		rooms:  rooms,
		broker: NewBroker(),
	}
}

// wsClient is one live connection. Direct replies and room broadcasts
// both funnel through send; the done channel tears everything down when
// the read loop exits.
type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	room *game.Room
	sub  chan []byte
}

func (g *gateway) handleWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			g.logger.Error("websocket upgrade failed", "error", err)
			return
		}

		c := &wsClient{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan []byte, 32),
			done: make(chan struct{}),
		}

		go c.writePump()
		g.readLoop(r.Context(), c)
	}
}

// readLoop consumes inbound events until the connection drops, then runs
// the disconnect transition through the same per-room serialization as
// any other event.
func (g *gateway) readLoop(ctx context.Context, c *wsClient) {
	defer func() {
		close(c.done)
		g.unbind(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Debug("websocket read ended", "error", err)
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			g.logger.Debug("invalid websocket message", "error", err)
			continue
		}

		g.dispatch(ctx, c, msg)
	}
}

func (g *gateway) dispatch(ctx context.Context, c *wsClient, msg Inbound) {
	// join_room binds the connection to a room; everything else requires
	// that binding. Rebinding to another room leaves the previous one
	// first, so a room never keeps a player whose connection moved on.
	if msg.Type == "join_room" {
		room, ok := g.rooms.Get(msg.RoomCode)
		if !ok {
			c.enqueue(game.Event{Type: game.EventError, Data: game.ErrorData{Message: "room not found"}})
			return
		}
		g.unbind(c)
		c.room = room
		c.sub = g.broker.Subscribe(room.Code())
		go c.pipe(c.sub)

		g.deliver(c, room.Code(), room.Join(c.id, msg.Nickname, game.ParseRole(msg.Role)))
		return
	}

	room := c.room
	if room == nil {
		return
	}

	var res game.Result
	switch msg.Type {
	case "join_team":
		team, ok := hexgrid.ParseTeam(msg.Team)
		if !ok {
			return
		}
		res = room.JoinTeam(c.id, team)
	case "assign_team":
		team, ok := hexgrid.ParseTeam(msg.Team)
		if !ok {
			return
		}
		res = room.AssignTeam(msg.PlayerID, team)
	case "start_game":
		res = room.Start(ctx)
	case "select_cell":
		if msg.CellID == nil {
			return
		}
		res = room.SelectCell(ctx, c.id, *msg.CellID)
	case "buzz_in":
		res = room.Buzz(c.id)
	case "answer_result":
		if msg.Correct == nil {
			return
		}
		team, _ := hexgrid.ParseTeam(msg.Team)
		res = room.Adjudicate(ctx, *msg.Correct, team)
	case "skip_question":
		res = room.Skip()
	case "reset_game":
		res = room.Reset(ctx)
	default:
		return
	}

	g.deliver(c, room.Code(), res)
}

// deliver routes a transition's events: caller events straight to this
// connection, broadcast events through the broker.
func (g *gateway) deliver(c *wsClient, roomCode string, res game.Result) {
	for _, ev := range res.Caller {
		c.enqueue(ev)
	}
	for _, ev := range res.Broadcast {
		g.broker.Publish(roomCode, ev)
	}
}

func (c *wsClient) enqueue(ev game.Event) {
	data, _ := json.Marshal(ev)
	select {
	case c.send <- data:
	default:
	}
}

// unbind detaches the connection from its current room, if any: the
// broker subscription is dropped, the room runs its leave transition, and
// a finished room with nobody left is evicted.
func (g *gateway) unbind(c *wsClient) {
	if c.room == nil {
		return
	}
	code := c.room.Code()
	g.broker.Unsubscribe(code, c.sub)
	g.deliver(c, code, c.room.Leave(c.id))

	if g.broker.Count(code) == 0 && c.room.Status() == game.StatusFinished {
		g.rooms.Remove(code)
		g.logger.Info("room evicted", "room", code)
	}

	c.room = nil
	c.sub = nil
}

// pipe forwards room broadcasts from one broker subscription into the
// connection's send queue. A rebinding connection starts a fresh pipe for
// the new subscription; the old one stops receiving once unsubscribed and
// exits with the connection.
func (c *wsClient) pipe(sub chan []byte) {
	for {
		select {
		case data := <-sub:
			select {
			case c.send <- data:
			default:
			}
		case <-c.done:
			return
		}
	}
}

func (c *wsClient) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
