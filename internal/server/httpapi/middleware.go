package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dkoval/companyportal/internal/server/session"
)

type ctxKey string

const sessionContextKey ctxKey = "portal.session"

// SessionFromContext returns the session manager the middleware attached to
// the request.
func SessionFromContext(ctx context.Context) *session.Manager {
	m, _ := ctx.Value(sessionContextKey).(*session.Manager)
	return m
}

// sessionWriter defers session-cookie emission until the first byte of the
// response, so handlers may mutate the session at any point before writing.
type sessionWriter struct {
	http.ResponseWriter
	mgr       *session.Manager
	boundID   string
	secretKey []byte
	done      bool
}

func (w *sessionWriter) finalize() {
	if w.done {
		return
	}
	w.done = true

	id := w.mgr.ID()
	switch {
	case id != "" && id != w.boundID:
		token, err := session.SignSessionID(id, w.secretKey)
		if err == nil {
			setSessionCookie(w.ResponseWriter, token)
		}
	case id == "" && w.boundID != "":
		clearSessionCookie(w.ResponseWriter)
	}
}

func (w *sessionWriter) WriteHeader(status int) {
	w.finalize()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(p []byte) (int, error) {
	w.finalize()
	return w.ResponseWriter.Write(p)
}

// withSession binds the client's session (from the signed session cookie) and
// runs the remember-cookie restoration exactly once, before any route logic.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mgr := session.NewManager(s.sessions)
		if c, err := r.Cookie(SessionCookieName); err == nil {
			if id, err := session.SessionIDFromToken(c.Value, s.secretKey); err == nil {
				mgr.Bind(id)
			}
		}

		sw := &sessionWriter{ResponseWriter: w, mgr: mgr, boundID: mgr.ID(), secretKey: s.secretKey}

		if c, err := r.Cookie(RememberCookieName); err == nil {
			res, err := s.auth.RestoreFromCookie(r.Context(), mgr, c.Value)
			if err != nil {
				// credential store unreachable: fail this request only
				s.logger.Error(r.Context(), "cookie restoration failed", "error", err.Error())
				writeErrors(sw, http.StatusInternalServerError, "Something went wrong. Please try again.")
				return
			}
			if res.ClearCookie {
				clearRememberCookie(sw.ResponseWriter)
			}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, mgr)
		next.ServeHTTP(sw, r.WithContext(ctx))
		sw.finalize()
	})
}

// requireAuthenticated short-circuits anonymous requests: the requested path
// is stashed for a post-login redirect and the request is aborted.
func (s *Server) requireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mgr := SessionFromContext(r.Context())
		if mgr == nil || mgr.Current() == nil {
			if mgr != nil {
				mgr.SetRedirectTo(r.URL.RequestURI())
			}
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"errors":   []string{"authentication required"},
				"redirect": "/login",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRequestLog records one structured line per request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error(r.Context(), "panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
				)
				writeErrors(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
