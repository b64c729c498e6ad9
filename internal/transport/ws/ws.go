// Package ws provides the WebSocket push adapter: one sink per connection,
// registered with the book's broadcaster for the lifetime of the socket.
package ws

import (
	"net/http"
	"sync"
	"time"

	"clobengine/internal/engine"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeTimeout = 5 * time.Second

// connSink adapts a *websocket.Conn into a broadcast.Sink. Writes are
// serialized with a mutex since gorilla/websocket forbids concurrent
// writers on the same connection.
type connSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *connSink) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// API wires the registry into the two push routes.
type API struct {
	registry *engine.Registry
}

// New builds a ws.API bound to registry.
func New(registry *engine.Registry) *API {
	return &API{registry: registry}
}

// Register attaches /ws/market/:symbol and /ws/trades/:symbol onto r.
func (a *API) Register(r *gin.Engine) {
	r.GET("/ws/market/:symbol", a.serveMarket)
	r.GET("/ws/trades/:symbol", a.serveTrades)
}

func (a *API) serveMarket(c *gin.Context) {
	symbol := c.Param("symbol")
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("market websocket upgrade failed")
		return
	}

	sink := &connSink{conn: conn}
	book := a.registry.GetOrCreate(symbol)
	detach := book.AttachMarket(sink)
	defer detach()

	drain(conn)
}

func (a *API) serveTrades(c *gin.Context) {
	symbol := c.Param("symbol")
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("trades websocket upgrade failed")
		return
	}

	sink := &connSink{conn: conn}
	book := a.registry.GetOrCreate(symbol)
	detach := book.AttachTrade(sink)
	defer detach()

	drain(conn)
}

// drain blocks reading (and discarding) inbound frames until the client
// disconnects; these are push-only feeds, so anything the client sends is
// ignored. Reading is still required to notice the connection closing and
// to respond to control frames (ping/pong, close).
func drain(conn *websocket.Conn) {
	defer conn.Close()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
