// Package httpapi is the HTTP ingress adapter: it decodes and validates
// wire Order JSON, calls into the engine registry, and never holds any
// matching-relevant state of its own.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"clobengine/internal/engine"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const submitTimeout = 2 * time.Second

// API wires the registry into gin route handlers.
type API struct {
	registry *engine.Registry
}

// New builds an API bound to registry.
func New(registry *engine.Registry) *API {
	return &API{registry: registry}
}

// Register attaches every HTTP route onto r, plus /metrics.
func (a *API) Register(r *gin.Engine, staticRoot, dashboardFile string) {
	r.GET("/", a.banner)
	r.GET("/dashboard", func(c *gin.Context) {
		c.File(dashboardFile)
	})
	r.Static("/static", staticRoot)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/submit_order", a.submitOrder)
	r.GET("/bbo/:symbol", a.bbo)
	r.GET("/depth/:symbol", a.depth)
}

func (a *API) banner(c *gin.Context) {
	c.String(http.StatusOK, "clob matching engine\n")
}

func (a *API) submitOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := req.toOrder()
	if err != nil {
		log.Warn().Err(err).Str("request_id", c.GetHeader("X-Request-Id")).Msg("rejected malformed order")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), submitTimeout)
	defer cancel()

	book := a.registry.GetOrCreate(order.Symbol)
	bbo, err := book.Submit(ctx, order)
	if err != nil {
		log.Error().Err(err).Str("symbol", order.Symbol).Str("order_id", order.ID).Msg("submit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "engine failure"})
		return
	}

	c.JSON(http.StatusOK, bboResponse{BBO: toBBOWire(bbo)})
}

func (a *API) bbo(c *gin.Context) {
	symbol := c.Param("symbol")
	book, ok := a.registry.Lookup(symbol)
	if !ok {
		c.JSON(http.StatusOK, bboWire{})
		return
	}
	c.JSON(http.StatusOK, toBBOWire(book.GetBBO()))
}

func (a *API) depth(c *gin.Context) {
	symbol := c.Param("symbol")
	k := engine.DefaultDepth
	if raw := c.Query("levels"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			k = parsed
		}
	}

	book, ok := a.registry.Lookup(symbol)
	if !ok {
		c.JSON(http.StatusOK, depthResponse{Symbol: symbol})
		return
	}

	snapshot := book.GetDepth(k)
	c.JSON(http.StatusOK, depthResponse{
		Symbol:    snapshot.Symbol,
		Timestamp: snapshot.Timestamp.Format(time.RFC3339Nano),
		Bids:      toWireLevels(snapshot.Bids),
		Asks:      toWireLevels(snapshot.Asks),
	})
}
