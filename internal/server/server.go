// Package server exposes signals, statuses and live events over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/scheduler"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// Server is the HTTP API.
type Server struct {
	Addr      string
	Scheduler *scheduler.Scheduler
	Hub       *Hub
	Metrics   *metrics.Metrics

	engine *gin.Engine
	http   *http.Server
}

// New builds the router. The hub is optional; without it /ws is not served.
func New(addr string, sch *scheduler.Scheduler, hub *Hub, m *metrics.Metrics) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{Addr: addr, Scheduler: sch, Hub: hub, Metrics: m, engine: gin.New()}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.setupRoutes()
	s.http = &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.getHealth)

	api := s.engine.Group("/api/v1")
	api.GET("/signals", s.getSignals)
	api.GET("/signals/:symbol", s.getSymbol)
	api.DELETE("/signals/:id", s.dismissSignal)
	api.GET("/status", s.getStatus)
	api.POST("/refresh", s.refreshAll)
	api.POST("/refresh/:symbol", s.refreshSymbol)

	if s.Hub != nil {
		s.engine.GET("/ws", func(c *gin.Context) { s.Hub.ServeWS(c.Writer, c.Request) })
	}
	if s.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves until Shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) getHealth(c *gin.Context) {
	resp := gin.H{
		"status":  "ok",
		"symbols": len(s.Scheduler.Store.Symbols()),
		"profile": s.Scheduler.Profile.Name,
	}
	if s.Hub != nil {
		resp["connections"] = s.Hub.Clients()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getSignals(c *gin.Context) {
	signals := s.Scheduler.Store.All()
	if signals == nil {
		signals = []model.Signal{}
	}
	c.JSON(http.StatusOK, signals)
}

func (s *Server) getSymbol(c *gin.Context) {
	symbol, ok := s.resolve(c.Param("symbol"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
		return
	}
	status, _ := s.Scheduler.Store.Status(symbol)
	resp := gin.H{"symbol": symbol, "status": status, "signal": nil}
	if sig, ok := s.Scheduler.Store.Get(symbol); ok {
		resp["signal"] = sig
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) dismissSignal(c *gin.Context) {
	id := c.Param("id")
	symbol, ok := s.Scheduler.Dismiss(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "signal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dismissed": id, "symbol": symbol})
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Scheduler.Store.Statuses())
}

func (s *Server) refreshAll(c *gin.Context) {
	s.Scheduler.RunAsync(scheduler.TriggerManual)
	c.JSON(http.StatusAccepted, gin.H{"symbols": s.Scheduler.Store.Symbols()})
}

func (s *Server) refreshSymbol(c *gin.Context) {
	symbol, ok := s.resolve(c.Param("symbol"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
		return
	}
	res, err := s.Scheduler.RefreshSymbol(c.Request.Context(), symbol)
	switch {
	case errors.Is(err, scheduler.ErrUnknownSymbol):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{"symbol": symbol, "state": res.State, "signal": res.Signal}
	if res.Err != nil {
		resp["error"] = res.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// resolve maps a path segment to a configured symbol. Slashes cannot appear
// in a segment, so "EUR-USD", "eur_usd" and "EURUSD" all name EUR/USD.
func (s *Server) resolve(param string) (string, bool) {
	p := strings.ToUpper(param)
	if s.Scheduler.Store.Has(p) {
		return p, true
	}
	if alt := strings.NewReplacer("-", "/", "_", "/").Replace(p); s.Scheduler.Store.Has(alt) {
		return alt, true
	}
	for _, sym := range s.Scheduler.Store.Symbols() {
		if strings.ReplaceAll(sym, "/", "") == p {
			return sym, true
		}
	}
	return "", false
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}
