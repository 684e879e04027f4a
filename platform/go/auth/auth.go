// Package auth carries the signed-in back-office user on the request context
// and gates handlers on login and on per-form menu grants.
package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/zenGate-Global/haulage-backoffice/platform/go/httpx"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/session"
)

type ctxKey string

const (
	ctxIdentity ctxKey = "BACKOFFICE_IDENTITY"
)

// LoginPath is where anonymous browser requests are sent.
const LoginPath = "/login"

// Identity is the signed-in user as held in the session.
type Identity struct {
	UserID   string
	Tenant   string
	MenuKeys []string
}

// IsLoggedIn reports whether a user id is present.
func (i Identity) IsLoggedIn() bool {
	return strings.TrimSpace(i.UserID) != ""
}

// HasMenuAccess reports whether menuKey is among the granted keys.
// Comparison is case-insensitive.
func (i Identity) HasMenuAccess(menuKey string) bool {
	if !i.IsLoggedIn() || menuKey == "" {
		return false
	}
	return slices.ContainsFunc(i.MenuKeys, func(k string) bool {
		return strings.EqualFold(k, menuKey)
	})
}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// FromContext returns the identity loaded for the request, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(ctxIdentity).(Identity)
	return id, ok
}

// SessionReader is the part of the session manager the gate needs.
type SessionReader interface {
	Get(r *http.Request) (session.Data, error)
	SetIntended(w http.ResponseWriter, r *http.Request, url string) error
}

// Gate loads the identity from the session and enforces login and menu grants.
type Gate struct {
	sessions SessionReader
	logger   *zap.Logger
}

// NewGate builds a Gate.
func NewGate(sessions SessionReader, logger *zap.Logger) *Gate {
	if sessions == nil {
		panic("auth gate requires a session reader")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{sessions: sessions, logger: logger}
}

// Load reads the session and stores the identity on the context. Anonymous
// requests pass through unchanged.
func (g *Gate) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := g.sessions.Get(r)
		if err != nil {
			platformlogging.Or(r.Context(), g.logger).Warn("read session", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if data.UserID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithIdentity(r.Context(), Identity(data))
		ctx = platformlogging.Enrich(ctx, zap.String("user_id", data.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests. Browser navigation is redirected to
// the login page after remembering the requested URL; XHR and JSON callers get
// a 401 envelope.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := FromContext(r.Context()); ok && id.IsLoggedIn() {
			next.ServeHTTP(w, r)
			return
		}

		if httpx.WantsJSON(r) {
			httpx.WriteJSON(w, http.StatusUnauthorized, httpx.Fail("Your session has expired. Please sign in again."))
			return
		}

		if r.Method == http.MethodGet {
			if err := g.sessions.SetIntended(w, r, r.URL.RequestURI()); err != nil {
				platformlogging.Or(r.Context(), g.logger).Warn("remember intended url", zap.Error(err))
			}
		}
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	})
}

// RequireMenuPermission answers 404 unless the signed-in user holds menuKey.
// It must run after RequireAuth.
func (g *Gate) RequireMenuPermission(menuKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := FromContext(r.Context())
			if !id.HasMenuAccess(menuKey) {
				platformlogging.Or(r.Context(), g.logger).Info("menu access denied",
					zap.String("menu_key", menuKey),
					zap.String("user_id", id.UserID),
				)
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
