package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/usecase"
	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

const maxFrameBytes = 16 << 10

// Handler receives the three lifecycle operations the gateway translates
// socket traffic into.
type Handler interface {
	Open(ctx context.Context, connectionID string) error
	Close(ctx context.Context, connectionID string) error
	Post(ctx context.Context, envelope livechat.SocketEnvelope) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the webinar player and dashboard origins.
		return true
	},
}

// Gateway owns the built-in websocket transport. It assigns connection ids,
// forwards connect/frame/disconnect to the Handler, and delivers broadcast
// payloads back to the sockets it tracks.
type Gateway struct {
	mu      sync.RWMutex
	conns   map[string]*Conn
	handler Handler
}

func NewGateway(handler Handler) *Gateway {
	return &Gateway{conns: make(map[string]*Conn), handler: handler}
}

// SetHandler binds the event handler after construction. The broadcast path
// depends on the gateway while the handler depends on the broadcast path, so
// one of the two links has to be attached late.
func (g *Gateway) SetHandler(handler Handler) {
	g.handler = handler
}

var _ usecase.Transport = (*Gateway)(nil)

// Deliver pushes one payload to the socket behind connectionID. An untracked
// id is reported as gone so the caller can prune the registry.
func (g *Gateway) Deliver(_ context.Context, connectionID string, payload []byte) error {
	g.mu.RLock()
	conn := g.conns[connectionID]
	g.mu.RUnlock()
	if conn == nil {
		return usecase.ErrConnectionGone
	}
	if err := conn.Send(payload); err != nil {
		return usecase.ErrConnectionGone
	}
	return nil
}

// Handle upgrades the HTTP request and runs the read loop until the client
// disconnects.
func (g *Gateway) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		connectionID := uuid.NewString()
		conn := NewConn(connectionID, ws)

		if err := g.handler.Open(c.Request.Context(), connectionID); err != nil {
			log.Printf("gateway: open %s: %v", connectionID, err)
			_ = ws.Close()
			return
		}

		g.mu.Lock()
		g.conns[connectionID] = conn
		g.mu.Unlock()
		conn.Start()

		g.readLoop(conn)

		g.mu.Lock()
		delete(g.conns, connectionID)
		g.mu.Unlock()
		conn.Close(websocket.CloseNormalClosure, "bye")

		// Detached from the request by now; bound so a hung DB cannot leak
		// the goroutine.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := g.handler.Close(ctx, connectionID); err != nil {
			log.Printf("gateway: close %s: %v", connectionID, err)
		}
	}
}

func (g *Gateway) readLoop(conn *Conn) {
	conn.ws.SetReadLimit(maxFrameBytes)
	for {
		_, raw, err := conn.ws.ReadMessage()
		if err != nil {
			return
		}

		post, err := decodePost(raw)
		if err != nil {
			conn.sendError("BAD_REQUEST", err.Error())
			continue
		}

		envelope := livechat.SocketEnvelope{ConnectionID: conn.ID, Post: post}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = g.handler.Post(ctx, envelope)
		cancel()
		if err != nil {
			log.Printf("gateway: post %s: %v", conn.ID, err)
			conn.sendError(usecase.CodeOf(err), "post failed")
		}
	}
}

// decodePost fails closed on any unexpected shape.
func decodePost(raw []byte) (*livechat.MessagePost, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var post livechat.MessagePost
	if err := dec.Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (c *Conn) sendError(code, msg string) {
	b, err := json.Marshal(errorFrame{Type: "error", Code: code, Error: msg})
	if err != nil {
		return
	}
	_ = c.Send(b)
}
