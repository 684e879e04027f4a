// Package handler serves the login and logout endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/haulage-backoffice/domains/sessions/be/service"
	platformauth "github.com/zenGate-Global/haulage-backoffice/platform/go/auth"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/httpx"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/session"
)

const (
	msgInvalidLogin = "Invalid user ID or password."
	msgMissingLogin = "User ID, password and company are required."
	msgUnavailable  = "Sign in is unavailable. Please try again."
)

// Service is the login contract.
type Service interface {
	Tenants(ctx context.Context) ([]service.Option, error)
	Login(ctx context.Context, input service.LoginInput) (session.Data, error)
}

// Sessions is the part of the session manager login and logout need.
type Sessions interface {
	Put(w http.ResponseWriter, r *http.Request, data session.Data) error
	Clear(w http.ResponseWriter, r *http.Request) error
	PopIntended(w http.ResponseWriter, r *http.Request) (string, error)
	AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) error
	Flashes(w http.ResponseWriter, r *http.Request) ([]session.Flash, error)
}

// Handler implements /login and /logout.
type Handler struct {
	svc      Service
	sessions Sessions
	logger   *zap.Logger
}

// New constructs a Handler.
func New(svc Service, sessions Sessions, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("login service is required")
	}
	if sessions == nil {
		panic("session manager is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, sessions: sessions, logger: logger}
}

// Register adds the login routes to r. They must stay outside RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get(platformauth.LoginPath, h.loginForm)
	r.Post(platformauth.LoginPath, h.login)
	r.Post("/logout", h.logout)
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.Tenants(r.Context())
	if err != nil {
		h.loggerFrom(r.Context()).Error("list tenants", zap.Error(err))
		tenants = []service.Option{}
	}
	flashes, err := h.sessions.Flashes(w, r)
	if err != nil {
		h.loggerFrom(r.Context()).Warn("read flashes", zap.Error(err))
	}
	if flashes == nil {
		flashes = []session.Flash{}
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
		"tenants": tenants,
		"flashes": flashes,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Login(r.Context(), service.LoginInput{
		UserID:   r.FormValue("user_id"),
		Password: r.FormValue("password"),
		Tenant:   r.FormValue("tenant"),
	})
	if err != nil {
		h.loginFailed(w, r, err)
		return
	}

	intended, err := h.sessions.PopIntended(w, r)
	if err != nil {
		h.loggerFrom(r.Context()).Warn("read intended url", zap.Error(err))
	}
	if err := h.sessions.Put(w, r, data); err != nil {
		h.loggerFrom(r.Context()).Error("store session", zap.Error(err))
		h.loginFailed(w, r, err)
		return
	}

	to := safeRedirect(intended)
	if httpx.WantsJSON(r) {
		httpx.WriteJSON(w, http.StatusOK, httpx.OK("Signed in.", httpx.Envelope{"redirect": to}))
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.loggerFrom(r.Context()).Warn("clear session", zap.Error(err))
	}
	http.Redirect(w, r, platformauth.LoginPath, http.StatusSeeOther)
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusUnauthorized, msgInvalidLogin
	switch {
	case errors.Is(err, service.ErrMissingFields):
		status, message = http.StatusUnprocessableEntity, msgMissingLogin
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnknownTenant):
	default:
		status, message = http.StatusInternalServerError, msgUnavailable
		h.loggerFrom(r.Context()).Error("login failed", zap.Error(err))
	}

	if httpx.WantsJSON(r) {
		httpx.WriteJSON(w, status, httpx.Fail(message))
		return
	}
	if err := h.sessions.AddFlash(w, r, session.FlashError, message); err != nil {
		h.loggerFrom(r.Context()).Warn("store flash", zap.Error(err))
	}
	http.Redirect(w, r, platformauth.LoginPath, http.StatusSeeOther)
}

func (h *Handler) loggerFrom(ctx context.Context) *zap.Logger {
	return platformlogging.Or(ctx, h.logger)
}

// safeRedirect only follows local paths.
func safeRedirect(to string) string {
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.HasPrefix(to, "/\\") {
		return "/"
	}
	if to == platformauth.LoginPath {
		return "/"
	}
	return to
}
