package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/gravadigital/convite-api/internal/logger"
)

const (
	writeTimeout   = 10 * time.Second
	heartbeatEvery = 30 * time.Second
)

// Envelope is one frame sent to the dashboard
type Envelope struct {
	Type string    `json:"type"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// SnapshotFunc builds the state sent when a dashboard connects
type SnapshotFunc func(ctx context.Context) (any, error)

// Gateway serves the live feed over websockets. Clients receive a
// snapshot first and then every change; anything they send is ignored.
type Gateway struct {
	hub            *Hub
	snapshot       SnapshotFunc
	originPatterns []string
	log            *log.Logger
}

// NewGateway creates the websocket endpoint
func NewGateway(hub *Hub, snapshot SnapshotFunc, originPatterns []string) *Gateway {
	return &Gateway{
		hub:            hub,
		snapshot:       snapshot,
		originPatterns: originPatterns,
		log:            logger.Realtime(),
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The server write timeout would otherwise close long-lived feeds
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: g.originPatterns,
	})
	if err != nil {
		g.log.Error("Websocket accept failed", "error", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	// Reads are discarded; the returned context ends when the peer goes away
	ctx := conn.CloseRead(r.Context())

	id, changes, leave := g.hub.Subscribe()
	defer leave()
	g.log.Info("Dashboard connected", "subscriber", id, "remote", r.RemoteAddr)

	if g.snapshot != nil {
		data, err := g.snapshot(ctx)
		if err != nil {
			g.log.Error("Failed to build snapshot", "error", err)
			_ = conn.Close(websocket.StatusInternalError, "snapshot failed")
			return
		}
		if err := write(ctx, conn, Envelope{Type: "snapshot", ID: NewID(time.Now()), At: time.Now().UTC(), Data: data}); err != nil {
			g.log.Info("Snapshot write failed", "subscriber", id, "error", err)
			return
		}
	}

	ticker := time.NewTicker(heartbeatEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.log.Info("Dashboard disconnected", "subscriber", id)
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := write(ctx, conn, Envelope{Type: "change", ID: c.ID, At: c.At, Data: c}); err != nil {
				g.log.Info("Change write failed", "subscriber", id, "close_status", websocket.CloseStatus(err), "error", err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				g.log.Info("Heartbeat failed", "subscriber", id, "error", err)
				return
			}
		}
	}
}

func write(parent context.Context, conn *websocket.Conn, env Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(parent, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, b)
}
