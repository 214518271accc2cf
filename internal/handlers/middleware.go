package handlers

import (
	"net/http"
	"time"

	"catalog_api/internal/models"
	"catalog_api/internal/service"

	"github.com/gin-gonic/gin"
)

// gin context keys
const (
	identityKey    = "identity"
	identityErrKey = "identityErr"
)

// sessionMiddleware resolves the caller from the session cookie. A missing or
// invalid cookie yields the anonymous identity; a session-store failure is
// kept so that routes needing an identity can report it.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, err := c.Cookie(h.opts.CookieName)
	if err != nil || token == "" {
		c.Set(identityKey, models.Anonymous)
		c.Next()
		return
	}

	who, err := h.services.Identify(c.Request.Context(), token)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("session_resolve_failed", "err", err)
		}
		c.Set(identityErrKey, err)
		who = models.Anonymous
	}
	c.Set(identityKey, who)
	c.Next()
}

// requireAuth rejects anonymous callers with 401.
func (h *Handler) requireAuth(c *gin.Context) {
	if err, ok := c.Get(identityErrKey); ok {
		h.respondError(c, err.(error), "session_resolve_failed")
		return
	}
	if identityFrom(c).IsAnonymous() {
		h.respondError(c, service.ErrUnauthorized, "")
		return
	}
	c.Next()
}

func identityFrom(c *gin.Context) models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Anonymous
	}
	who, _ := v.(models.Identity)
	return who
}

// requestLogger writes one line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}

// respondError maps a service error to its status and aborts the request.
// Internal errors are logged with detail and answered generically.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code := statusFor(service.KindOf(err))
	if code == http.StatusInternalServerError && h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": service.PublicMessage(err)})
}

func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
