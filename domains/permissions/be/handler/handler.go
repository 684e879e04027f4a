// Package handler serves the user security admin screen.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/haulage-backoffice/domains/permissions/be/service"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/httpx"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/requesttrace"
)

const (
	Path    = "/admin/user-security"
	MenuKey = "mnuUserSecurity"
)

// MenuRefresher replaces the permission set cached in the caller's session.
type MenuRefresher interface {
	SetMenuKeys(w http.ResponseWriter, r *http.Request, keys []string) error
}

// Handler exposes the permission service over HTTP.
type Handler struct {
	svc      service.Service
	sessions MenuRefresher
	logger   *zap.Logger
}

// New constructs a Handler.
func New(svc service.Service, sessions MenuRefresher, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("permission service is required")
	}
	if sessions == nil {
		panic("session manager is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, sessions: sessions, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.getUserPermissions)
	r.Post("/save", h.savePermissionChanges)
	r.Post("/apply-role", h.applyRoleTemplate)
	return r
}

func (h *Handler) getUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		httpx.WriteJSON(w, http.StatusOK, httpx.OK("", httpx.Envelope{
			"user_id":     "",
			"permissions": []service.Permission{},
		}))
		return
	}

	perms, err := h.svc.UserPermissions(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, "load permissions", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("", httpx.Envelope{
		"user_id":     userID,
		"permissions": perms,
	}))
}

// savePermissionChanges reads the menu keys shown on the form from menu_keys
// and the checked ones from granted.
func (h *Handler) savePermissionChanges(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.Fail("The form could not be read."))
		return
	}
	userID := strings.TrimSpace(r.PostForm.Get("user_id"))

	checked := make(map[string]bool, len(r.PostForm["granted"]))
	for _, key := range r.PostForm["granted"] {
		checked[key] = true
	}
	changes := make(map[string]bool, len(r.PostForm["menu_keys"]))
	for _, key := range r.PostForm["menu_keys"] {
		changes[key] = checked[key]
	}

	report, err := h.svc.SaveChanges(r.Context(), userID, changes)
	if err != nil {
		h.writeError(w, r, "save permissions", err)
		return
	}
	h.refreshOwnSession(w, r, userID)
	h.writeReport(w, report, "Permissions saved.")
}

func (h *Handler) applyRoleTemplate(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.FormValue("user_id"))
	role := strings.TrimSpace(r.FormValue("role"))

	report, err := h.svc.ApplyRoleTemplate(r.Context(), userID, role)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, httpx.Fail(fmt.Sprintf("Role %q not found.", role)))
			return
		}
		h.writeError(w, r, "apply role", err)
		return
	}
	h.refreshOwnSession(w, r, userID)
	h.writeReport(w, report, fmt.Sprintf("Role %q applied.", role))
}

func (h *Handler) writeReport(w http.ResponseWriter, report service.SaveReport, message string) {
	if !report.OK() {
		body := httpx.Fail(fmt.Sprintf("Failed to save %d permission(s).", len(report.Failed)))
		body["failed"] = report.Failed
		httpx.WriteJSON(w, http.StatusOK, body)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK(message, httpx.Envelope{"saved": report.Saved}))
}

// refreshOwnSession reloads the cached menu keys when admins edit themselves.
func (h *Handler) refreshOwnSession(w http.ResponseWriter, r *http.Request, userID string) {
	actor := requesttrace.FromContextOrAnonymous(r.Context()).UserID
	if actor == "" || !strings.EqualFold(actor, userID) {
		return
	}

	logger := h.loggerFrom(r.Context())
	keys, err := h.svc.GrantedKeys(r.Context(), userID)
	if err != nil {
		logger.Warn("reload own permissions", zap.Error(err))
		return
	}
	if err := h.sessions.SetMenuKeys(w, r, keys); err != nil {
		logger.Warn("store own permissions", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger := h.loggerFrom(r.Context()).With(zap.String("operation", op), zap.Error(err))
	if errors.Is(err, service.ErrUserRequired) {
		logger.Warn("request rejected")
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, httpx.Fail("A user is required."))
		return
	}
	logger.Error("request failed")
	httpx.WriteJSON(w, http.StatusInternalServerError, httpx.Fail("Database error occurred."))
}

func (h *Handler) loggerFrom(ctx context.Context) *zap.Logger {
	return platformlogging.Or(ctx, h.logger)
}
