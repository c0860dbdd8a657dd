package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/opsdash-api/internal/models"
)

// AuditEntry describes one audited request.
type AuditEntry struct {
	Action     string
	Resource   string
	ResourceID string
	Actor      string
	Method     string
	Path       string
	Status     int
	Latency    time.Duration
	IPAddress  string
	UserAgent  string
	At         time.Time
}

// AuditSink persists audit entries.
type AuditSink interface {
	RecordAudit(ctx context.Context, entry AuditEntry)
}

// Audit records successful requests after the handler has run. A nil sink
// disables auditing.
func Audit(sink AuditSink, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sink == nil {
			c.Next()
			return
		}
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		entry := AuditEntry{
			Action:     action,
			Resource:   resource,
			ResourceID: c.Param("id"),
			Method:     c.Request.Method,
			Path:       c.FullPath(),
			Status:     c.Writer.Status(),
			Latency:    time.Since(start),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			At:         start,
		}
		if claims, ok := c.Get(ContextUserKey); ok {
			if user, ok := claims.(*models.JWTClaims); ok {
				entry.Actor = user.Actor()
			}
		}
		sink.RecordAudit(c.Request.Context(), entry)
	}
}

// LogAuditSink writes entries to the "audit" named logger.
type LogAuditSink struct {
	logger *zap.Logger
}

// NewLogAuditSink builds the sink on top of logger.
func NewLogAuditSink(logger *zap.Logger) *LogAuditSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogAuditSink{logger: logger.Named("audit")}
}

// RecordAudit implements AuditSink.
func (s *LogAuditSink) RecordAudit(_ context.Context, entry AuditEntry) {
	s.logger.Info("audit",
		zap.String("action", entry.Action),
		zap.String("resource", entry.Resource),
		zap.String("resource_id", entry.ResourceID),
		zap.String("actor", entry.Actor),
		zap.String("method", entry.Method),
		zap.String("path", entry.Path),
		zap.Int("status", entry.Status),
		zap.Duration("latency", entry.Latency),
		zap.String("ip", entry.IPAddress),
		zap.String("user_agent", entry.UserAgent),
		zap.Time("at", entry.At),
	)
}
