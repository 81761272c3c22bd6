// Package server exposes the runner database query surface over HTTP.
//
// The JSON API mirrors the three read-only store operations; live-results
// pages load it cross-origin, so every response carries CORS headers.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dvoa-timing/runnerdb/internal/record"
	"github.com/dvoa-timing/runnerdb/internal/runnerdb"
)

// maxPortAttempts bounds the walk to the next free port when the
// configured one is already taken.
const maxPortAttempts = 10

type Server struct {
	store  *runnerdb.Store
	log    *slog.Logger
	engine *gin.Engine
}

func New(store *runnerdb.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), cors())

	s := &Server{store: store, log: log, engine: engine}

	api := engine.Group("/api")
	{
		api.GET("/search", s.handleSearch)
		api.GET("/runners", s.handleRunners)
		api.GET("/stats", s.handleStats)
	}
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API on addr until ctx is cancelled. When the port is in
// use it tries the next ones, up to maxPortAttempts, so a stale instance
// or the desktop software holding the port does not block startup.
func (s *Server) Run(ctx context.Context, addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	var ln net.Listener
	for i := 0; i < maxPortAttempts; i++ {
		ln, err = net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port+i)))
		if err != nil {
			if errors.Is(err, syscall.EADDRINUSE) {
				s.log.Warn("port in use, trying next", "port", port+i)
				continue
			}
			return err
		}
		break
	}
	if ln == nil {
		return err
	}

	srv := &http.Server{Handler: s.engine}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", "addr", ln.Addr().String())

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// runnerJSON is the wire shape of one runner. Optional fields are omitted
// when absent.
type runnerJSON struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CardNumber  int    `json:"cardNumber,omitempty"`
	ClubNumber  int    `json:"clubNumber,omitempty"`
	BirthYear   int    `json:"birthYear,omitempty"`
	Sex         string `json:"sex,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

func toJSON(runners []record.Runner) []runnerJSON {
	out := make([]runnerJSON, len(runners))
	for i, r := range runners {
		out[i] = runnerJSON{
			ID:          r.ExternalID,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			CardNumber:  r.CardNumber,
			ClubNumber:  r.ClubNumber,
			BirthYear:   r.BirthYear,
			Sex:         r.Sex.String(),
			Nationality: r.Nationality,
		}
	}
	return out
}

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")

	limit := runnerdb.DefaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	results, err := s.store.Search(query, limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": toJSON(results),
	})
}

func (s *Server) handleRunners(c *gin.Context) {
	runners, err := s.store.AllRunners()
	if err != nil {
		s.fail(c, err)
		return
	}

	// Cache hit: the refresh already ran for this request.
	if stats, err := s.store.Stats(); err == nil {
		c.Header("X-File-Path", stats.FilePath)
		c.Header("Last-Modified", stats.LastModified.UTC().Format(http.TimeFormat))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(runners),
		"runners": toJSON(runners),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.Stats()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalRunners": stats.TotalRunners,
		"filePath":     stats.FilePath,
		"lastModified": stats.LastModified.UTC().Format(time.RFC3339),
		"lastChecked":  stats.LastChecked.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps store errors onto HTTP statuses: a missing database is a
// service-level 503 (it may appear later), everything else is a 500.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, runnerdb.ErrNoDatabase) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
