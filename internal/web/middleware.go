package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/auth"
	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/dispatch"
	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/model"
	"github.com/erazemk/unifind/internal/session"
	"github.com/erazemk/unifind/internal/store"
)

// CookieName is the session cookie.
const CookieName = "unifind_session"

type webContextKey string

const visitKey webContextKey = "visit"

// visit is the per-request view of a browser session.
type visit struct {
	id       string
	jti      string
	expires  time.Time
	state    *collection.State
	record   session.Record
	signedIn bool
}

// Credential implements gateway.CredentialSource.
func (v *visit) Credential() string {
	if !v.signedIn {
		return ""
	}
	return v.record.Credential
}

func (v *visit) user() *model.User {
	if !v.signedIn {
		return nil
	}
	return v.record.Profile
}

func (v *visit) userID() string {
	if u := v.user(); u != nil {
		return u.ID
	}
	return ""
}

func getVisit(ctx context.Context) *visit {
	v, _ := ctx.Value(visitKey).(*visit)
	return v
}

// env binds a dispatch environment to the visit's credential.
func (s *Server) env(v *visit) dispatch.Env {
	return dispatch.Env{
		Session: v.id,
		UserID:  v.userID(),
		State:   v.state,
		Backend: s.Gateway.WithCredential(v),
	}
}

// SessionMiddleware attaches a session to every request, issuing a fresh
// cookie when the presented one is missing, invalid or revoked. Signed-in
// sessions are re-verified on page loads at most once per verify interval.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		v, err := s.resumeVisit(ctx, r)
		if err != nil {
			s.Logger.Error("failed to resume session", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if v == nil {
			v, err = s.newVisit(w)
			if err != nil {
				s.Logger.Error("failed to start session", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}
		v.state = s.States.Get(v.id)

		rec, st, err := s.Sessions.Current(ctx, v.id)
		if err != nil {
			s.Logger.Error("failed to load session", zap.String("session", v.id), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		v.record, v.signedIn = rec, st == session.LoggedIn

		if v.signedIn && r.Method == http.MethodGet && s.now().Sub(v.state.VerifiedAt()) >= s.verifyInterval {
			rec, err := s.Sessions.Verify(ctx, v.id)
			switch {
			case err == nil:
				v.record = rec
				v.state.MarkVerified(s.now())
			case gateway.IsTransport(err):
				// Storage is kept; this request renders signed out.
				v.signedIn = false
			case errors.Is(err, session.ErrNotAuthenticated):
				s.forget(v)
				v.state = s.States.Get(v.id)
				v.signedIn = false
				if r.URL.Path != "/" {
					http.Redirect(w, r, "/", http.StatusSeeOther)
					return
				}
			default:
				s.Logger.Error("failed to verify session", zap.String("session", v.id), zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, visitKey, v)))
	})
}

func (s *Server) resumeVisit(ctx context.Context, r *http.Request) (*visit, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	claims, err := auth.ValidateToken(s.cookieSecret, cookie.Value)
	if err != nil {
		return nil, nil
	}
	revoked, err := store.IsCookieRevoked(ctx, s.DB, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, nil
	}
	return &visit{id: claims.SessionID, jti: claims.ID, expires: claims.ExpiresAt.Time}, nil
}

func (s *Server) newVisit(w http.ResponseWriter) (*visit, error) {
	return s.issueCookie(w, uuid.NewString())
}

// issueCookie sets a freshly signed cookie for session id.
func (s *Server) issueCookie(w http.ResponseWriter, id string) (*visit, error) {
	token, err := auth.GenerateToken(s.cookieSecret, id, s.cookieTTL)
	if err != nil {
		return nil, err
	}
	claims, err := auth.ValidateToken(s.cookieSecret, token)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return &visit{id: id, jti: claims.ID, expires: claims.ExpiresAt.Time}, nil
}

// forget drops everything held in memory for a session.
func (s *Server) forget(v *visit) {
	s.States.Drop(v.id)
	s.Dispatcher.DropSession(v.id)
}

// endSession signs the visit out, revokes its cookie and sends the browser
// to the landing page.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request, v *visit) {
	ctx := r.Context()
	if err := s.Sessions.Logout(ctx, v.id); err != nil {
		s.Logger.Error("failed to clear session", zap.String("session", v.id), zap.Error(err))
	}
	if err := store.RevokeCookie(ctx, s.DB, v.jti, v.expires); err != nil {
		s.Logger.Error("failed to revoke cookie", zap.String("session", v.id), zap.Error(err))
	}
	s.forget(v)
	clearSessionCookie(w, s.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// clearSessionCookie clears the session cookie with consistent attributes.
func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireUser redirects signed-out visitors to the login page.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := getVisit(r.Context())
		if v == nil || !v.signedIn {
			if v != nil {
				v.state.SetFlash(dispatch.LevelError.String(), "Please log in to continue")
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin sends non-admins back to the landing page.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return s.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := getVisit(r.Context())
		if u := v.user(); u == nil || !u.IsAdmin {
			v.state.SetFlash(dispatch.LevelError.String(), "Admin access required")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// AccessLog logs every request and records HTTP metrics.
func (s *Server) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				s.Logger.Error("handler panic", zap.Any("panic", p), zap.String("path", r.URL.Path), zap.Stack("stack"))
				http.Error(rec, "internal error", http.StatusInternalServerError)
			}

			latency := time.Since(start)
			pattern := r.Pattern
			if pattern == "" {
				pattern = "unmatched"
			}
			s.metrics.observe(pattern, rec.status, latency)

			s.Logger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("latency", latency),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}
