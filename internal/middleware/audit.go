package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/rekod-api/internal/models"
	"github.com/sekolahku/rekod-api/internal/service"
)

// Context keys handlers use to enrich the audit entry for a request.
const (
	ContextRecordKey  = "auditRecordKey"
	ContextOutcomeKey = "auditOutcome"
)

// Audit creates a middleware that records an audit entry after a
// successful write request. With the audit trail disabled it is a
// pass-through.
func Audit(auditSvc *service.AuditService, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auditSvc.Enabled() {
			c.Next()
			return
		}

		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		actor := ""
		if claims, ok := c.Get(ContextUserKey); ok {
			if user, ok := claims.(*models.JWTClaims); ok {
				actor = user.Email
			}
		}

		payload, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		auditSvc.Record(c.Request.Context(), models.AuditEntry{
			Actor:     actor,
			Action:    action,
			Resource:  resource,
			RecordKey: c.GetString(ContextRecordKey),
			Outcome:   c.GetString(ContextOutcomeKey),
			Payload:   payload,
			IPAddress: c.ClientIP(),
		})
	}
}
