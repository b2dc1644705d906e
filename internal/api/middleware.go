package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/state"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"

	ctxKeyRequestID = "request_id"
	ctxKeyStore     = "state_store"

	sessionKeyID = "sid"

	sessionMaxAge = 86400 * 30
)

// NewSessionStore creates the signed cookie store holding the session id
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(sessionMaxAge)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set(ctxKeyRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

// loggerMiddleware logs every request with zap
func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", requestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

// sessionMiddleware attaches the session's state store to the request. The
// cookie only carries the session id; carts stay server-side.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := h.sessions.Get(c.Request, h.opts.SessionCookie)
		if err != nil {
			// tampered or stale cookie; gorilla hands back a fresh session
			h.logger.Debug("Discarding unreadable session cookie", zap.Error(err))
		}

		sid, _ := sess.Values[sessionKeyID].(string)
		if sid == "" {
			sid = uuid.New().String()
			sess.Values[sessionKeyID] = sid
			if err := sess.Save(c.Request, c.Writer); err != nil {
				h.logger.Error("Failed to save session", zap.Error(err))
			}
		}

		st := h.registry.Get(sid)
		h.cart.RestoreGuestCart(c.Request.Context(), st)

		c.Set(ctxKeyStore, st)
		c.Next()
	}
}

// authMiddleware verifies the auth token of the request and records the
// outcome in the session's auth slice. The authenticated cart mirror belongs
// to one user and is dropped when another user, or nobody, takes the session.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := storeFrom(c)

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(h.opts.AuthCookie)
		}

		var claims *Claims
		if token != "" {
			var err error
			claims, err = h.verifier.Verify(token)
			if err != nil {
				h.logger.Debug("Rejected auth token",
					zap.String("request_id", requestID(c)),
					zap.Error(err))
			}
		}

		userID := ""
		if claims != nil {
			userID = string(claims.UserID)
		}
		if prev := st.State().Auth.UserID; prev != "" && prev != userID {
			st.Dispatch(state.CartCleared{})
		}

		if claims == nil {
			st.Dispatch(state.AuthCleared{})
		} else {
			st.Dispatch(state.AuthTokenSet{Token: token, UserID: userID, Role: claims.Role})
		}
		c.Next()
	}
}

// requireAdmin stops requests whose session is not an admin's
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := storeFrom(c).State().Auth
		if !auth.LoggedIn() {
			h.renderError(c, apperr.UnauthorizedErr("Please log in."), "")
			c.Abort()
			return
		}
		if !auth.IsAdmin() {
			h.renderError(c, apperr.ForbiddenErr("Admins only."), "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func storeFrom(c *gin.Context) *state.Store {
	return c.MustGet(ctxKeyStore).(*state.Store)
}
