package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fresh/internal/planner"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = 30 * time.Second
	liveReadLimit  = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// liveMessage is pushed to subscribers whenever the plan changes
type liveMessage struct {
	Type string                  `json:"type"`
	Plan *planner.WeeklyMealPlan `json:"plan"`
}

// liveCommand is the only thing a subscriber may send: {"type":"refresh"}
type liveCommand struct {
	Type string `json:"type"`
}

// liveConn streams one session's plan over a websocket
type liveConn struct {
	conn   *websocket.Conn
	send   chan []byte
	store  *planner.Store
	logger *slog.Logger
}

// LiveMealPlan upgrades the request and streams the caller's plan: the
// current snapshot first, then one message per mutation.
func (a *API) LiveMealPlan(c *gin.Context) {
	store := a.session(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.logger.Warn("Failed to upgrade connection", slog.String("error", err.Error()))
		return
	}

	lc := &liveConn{
		conn:   conn,
		send:   make(chan []byte, 16),
		store:  store,
		logger: a.logger,
	}

	unsubscribe := store.Watch(func(plan *planner.WeeklyMealPlan) {
		lc.push(plan)
	})

	go lc.writePump()
	go lc.readPump(unsubscribe)
}

// push queues plan without blocking. A subscriber too slow to drain its
// queue misses intermediate plans.
func (c *liveConn) push(plan *planner.WeeklyMealPlan) {
	data, err := json.Marshal(liveMessage{Type: "plan", Plan: plan})
	if err != nil {
		c.logger.Error("Failed to encode plan", slog.String("error", err.Error()))
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump handles refresh commands until the peer goes away, then stops
// notifications and closes the send queue
func (c *liveConn) readPump(unsubscribe func()) {
	defer func() {
		unsubscribe()
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(liveReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(livePongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket error", slog.String("error", err.Error()))
			}
			return
		}

		var cmd liveCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.logger.Debug("Ignoring malformed message", slog.String("error", err.Error()))
			continue
		}
		if cmd.Type == "refresh" {
			c.push(c.store.Snapshot())
		}
	}
}

// writePump drains the send queue and keeps the connection alive with pings
func (c *liveConn) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
