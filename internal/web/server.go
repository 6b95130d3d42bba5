package web

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chat-analyzer/internal/analytics"
	"chat-analyzer/internal/store"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Chat Analyzer</title></head>
<body>
<h1>Chat Analyzer</h1>
<ul>
<li><a href="/messages">/messages</a> ?date=YYYYMMDD&amp;group_id=...&amp;limit=N</li>
<li><a href="/summaries">/summaries</a> ?group_id=...&amp;type=auto|manual</li>
<li><a href="/stats">/stats</a> ?date=YYYYMMDD</li>
</ul>
</body>
</html>`

// Server exposes read-only access to stored messages and summaries.
type Server struct {
	messages  *store.MessageStore
	summaries *store.SummaryStore
	password  string
	clock     func() time.Time
}

func New(messages *store.MessageStore, summaries *store.SummaryStore, password string) *Server {
	return &Server{
		messages:  messages,
		summaries: summaries,
		password:  password,
		clock:     time.Now,
	}
}

// Router builds the HTTP handler. Split out from Run for tests.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.basicAuth)

	r.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, indexHTML)
	})
	r.GET("/messages", s.handleMessages)
	r.GET("/summaries", s.handleSummaries)
	r.GET("/stats", s.handleStats)
	return r
}

// basicAuth checks the Basic Auth password only. The username is ignored.
func (s *Server) basicAuth(c *gin.Context) {
	_, password, ok := c.Request.BasicAuth()
	if !ok || password != s.password {
		c.Header("WWW-Authenticate", `Basic realm="Restricted Access"`)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Next()
}

func (s *Server) handleMessages(c *gin.Context) {
	date := c.DefaultQuery("date", store.PartitionKey(s.clock()))
	filter := store.EventFilter{GroupID: c.Query("group_id")}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	events := s.messages.Scan(date, filter, limit)
	if events == nil {
		events = []store.ChatEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "count": len(events), "messages": events})
}

func (s *Server) handleSummaries(c *gin.Context) {
	filter := store.SummaryFilter{
		GroupID: c.Query("group_id"),
		Kind:    c.Query("type"),
	}
	summaries := s.summaries.Query(filter)
	if summaries == nil {
		summaries = []store.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(summaries), "summaries": summaries})
}

func (s *Server) handleStats(c *gin.Context) {
	date := c.DefaultQuery("date", store.PartitionKey(s.clock()))
	events := s.messages.Scan(date, store.EventFilter{}, 0)
	c.JSON(http.StatusOK, analytics.AnalyzeDay(events, date))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🌐 Web interface listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
