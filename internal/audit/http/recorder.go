package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gorgija/ehour/internal/api/http/middleware"
	"github.com/Gorgija/ehour/internal/audit/domain"
	"github.com/Gorgija/ehour/internal/auth"
)

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, e *domain.AuditEntry) error
}

const recordTimeout = 3 * time.Second

// Middleware records every mutating request once it has been handled.
// Reads pass through untouched. A failed write is logged by the recorder and
// never changes the response.
func Middleware(rec Recorder, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		actionType, audited := actionTypes[c.Request.Method]
		if !audited {
			c.Next()
			return
		}

		c.Next()

		e := &domain.AuditEntry{
			Action:     c.Request.Method + " " + c.Request.URL.Path,
			Page:       c.FullPath(),
			Success:    c.Writer.Status() < http.StatusBadRequest,
			ActionType: actionType,
			RequestID:  middleware.GetRequestID(c.Request.Context()),
			Parameters: parameters(c),
		}
		if u, ok := auth.CurrentUser(c); ok {
			id := u.ID
			e.UserID = &id
			e.UserFullName = u.FullName()
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), recordTimeout)
		defer cancel()
		if err := rec.Record(ctx, e); err != nil {
			logger.Debug("audit middleware", "error", err)
		}
	}
}

var actionTypes = map[string]string{
	http.MethodPost:   domain.ActionCreate,
	http.MethodPut:    domain.ActionUpdate,
	http.MethodPatch:  domain.ActionUpdate,
	http.MethodDelete: domain.ActionDelete,
}

// parameters captures path and query parameters; request bodies may hold
// passwords and are never stored.
func parameters(c *gin.Context) json.RawMessage {
	params := map[string]any{}
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	for k, v := range c.Request.URL.Query() {
		if len(v) == 1 {
			params[k] = v[0]
		} else {
			params[k] = v
		}
	}
	if len(params) == 0 {
		return nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil
	}
	return raw
}
