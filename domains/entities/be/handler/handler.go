// Package handler exposes the entity maintenance screens over chi: a JSON view
// model for the form, redirects with flashes for browser posts and JSON
// envelopes for the AJAX satellites.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/haulage-backoffice/domains/entities/be/repo"
	"github.com/zenGate-Global/haulage-backoffice/domains/entities/be/service"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/httpx"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/requesttrace"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/session"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

const msgDatabaseError = "Database error occurred."

// FlashStore is the part of the session manager the screens use.
type FlashStore interface {
	AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) error
	Flashes(w http.ResponseWriter, r *http.Request) ([]session.Flash, error)
}

// View is the form view model.
type View[T any] struct {
	Entity       string              `json:"entity"`
	Path         string              `json:"path"`
	KeyField     string              `json:"key_field"`
	Record       T                   `json:"record"`
	IsNew        bool                `json:"is_new"`
	CanCreateNew bool                `json:"can_create_new"`
	CanDelete    bool                `json:"can_delete"`
	HasJunctions bool                `json:"has_junctions"`
	Errors       map[string][]string `json:"errors,omitempty"`
	Flashes      []session.Flash     `json:"flashes"`
}

// Maintenance serves one entity's maintenance screen.
type Maintenance[T repo.Record[T]] struct {
	svc     service.Service[T]
	desc    repo.Descriptor
	flashes FlashStore
	logger  *zap.Logger
}

// New constructs a Maintenance handler.
func New[T repo.Record[T]](svc service.Service[T], flashes FlashStore, logger *zap.Logger) *Maintenance[T] {
	if svc == nil {
		panic("maintenance service is required")
	}
	if flashes == nil {
		panic("flash store is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Maintenance[T]{svc: svc, desc: svc.Descriptor(), flashes: flashes, logger: logger}
}

func (h *Maintenance[T]) Descriptor() repo.Descriptor {
	return h.desc
}

// Routes returns the screen's router, to be mounted at Descriptor().Path().
func (h *Maintenance[T]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.index)
	r.Post("/search", h.search)
	r.Get("/autocomplete", h.autocomplete)
	r.Get("/load/*", h.load)
	r.Post("/create-new", h.createNew)
	r.Post("/save", h.save)
	r.Post("/delete", h.delete)

	if h.desc.HasJunctions {
		r.Get("/get-address", h.getAddress)
		r.Post("/get-address", h.getAddress)
		r.Post("/save-address", h.saveAddress)
		r.Get("/get-contacts", h.getContacts)
		r.Post("/get-contacts", h.getContacts)
		r.Post("/save-contact", h.saveContact)
		r.Post("/delete-contact", h.deleteContact)
		r.Get("/get-comments", h.getComments)
		r.Post("/get-comments", h.getComments)
		r.Post("/save-comment", h.saveComment)
		r.Post("/delete-comment", h.deleteComment)
	}
	return r
}

// index shows an empty form, or the new record template with ?new=1.
func (h *Maintenance[T]) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("new") != "" {
		h.render(w, r, http.StatusOK, h.svc.Template(), true, nil)
		return
	}
	var blank T
	h.render(w, r, http.StatusOK, blank, false, nil)
}

func (h *Maintenance[T]) search(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.FormValue(h.desc.FormKey))

	record, err := h.svc.Search(r.Context(), input)
	switch {
	case err == nil:
		h.render(w, r, http.StatusOK, record, false, nil, session.Flash{
			Kind:    session.FlashSuccess,
			Message: fmt.Sprintf("%s loaded.", h.desc.Name),
		})
	case errors.Is(err, service.ErrEmptySearch):
		h.redirect(w, r, h.desc.Path(), session.FlashError, fmt.Sprintf("Please enter a %s to search for.", h.desc.Name))
	case errors.Is(err, service.ErrNotFound):
		h.redirect(w, r, h.desc.Path(), session.FlashWarning, fmt.Sprintf("%s %q not found.", h.desc.Name, input))
	default:
		h.loggerFrom(r.Context()).Error("search failed", zap.String("entity", h.desc.Name), zap.Error(err))
		h.render(w, r, http.StatusInternalServerError, h.svc.Template(), true, nil, errorFlash(msgDatabaseError))
	}
}

func (h *Maintenance[T]) autocomplete(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))

	suggestions, err := h.svc.Autocomplete(r.Context(), r.URL.Query().Get("term"), includeInactive)
	if err != nil {
		h.loggerFrom(r.Context()).Error("autocomplete failed", zap.String("entity", h.desc.Name), zap.Error(err))
		httpx.WriteJSON(w, http.StatusInternalServerError, []repo.Suggestion{})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, suggestions)
}

func (h *Maintenance[T]) load(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "*")
	key, err := repo.ParsePathKey(h.desc, raw, r.URL.RawPath != "")
	if err != nil {
		h.redirect(w, r, h.desc.Path(), session.FlashWarning, fmt.Sprintf("%s %q not found.", h.desc.Name, raw))
		return
	}

	record, err := h.svc.Get(r.Context(), key)
	switch {
	case err == nil:
		h.render(w, r, http.StatusOK, record, false, nil)
	case errors.Is(err, service.ErrNotFound):
		h.redirect(w, r, h.desc.Path(), session.FlashWarning, fmt.Sprintf("%s %q not found.", h.desc.Name, key.String()))
	default:
		h.loggerFrom(r.Context()).Error("load failed", zap.String("entity", h.desc.Name), zap.String("key", raw), zap.Error(err))
		h.render(w, r, http.StatusInternalServerError, h.svc.Template(), true, nil, errorFlash(msgDatabaseError))
	}
}

func (h *Maintenance[T]) createNew(w http.ResponseWriter, r *http.Request) {
	key, err := h.svc.CreateNew(r.Context(), actor(r.Context()))
	if err != nil {
		h.writeFailure(w, r, "create", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK(fmt.Sprintf("New %s created.", h.desc.Name), httpx.Envelope{
		h.desc.FormKey: keyValue(key),
	}))
}

func (h *Maintenance[T]) save(w http.ResponseWriter, r *http.Request) {
	var record T
	if fields, err := httpx.DecodeForm(r, &record); err != nil {
		if fields == nil {
			h.loggerFrom(r.Context()).Warn("decode form", zap.String("entity", h.desc.Name), zap.Error(err))
			fields = map[string][]string{"form": {"The form could not be read."}}
		}
		h.render(w, r, http.StatusUnprocessableEntity, record, record.EntityKey().IsZero(), fields, errorFlash(joinMessages(fields)))
		return
	}

	result, err := h.svc.Save(r.Context(), record, actor(r.Context()))
	if err == nil {
		message := fmt.Sprintf("%s saved.", h.desc.Name)
		if result.Inserted {
			message = fmt.Sprintf("%s created.", h.desc.Name)
		}
		h.redirect(w, r, h.desc.Path()+"/load/"+result.Key.Path(), session.FlashSuccess, message)
		return
	}

	isNew := record.EntityKey().IsZero()
	var validationErr *service.ValidationError
	var statusErr *sproc.StatusError
	switch {
	case errors.As(err, &validationErr):
		h.loggerFrom(r.Context()).Info("save rejected", zap.String("entity", h.desc.Name), zap.Strings("messages", validationErr.Messages()))
		h.render(w, r, http.StatusUnprocessableEntity, record, isNew, validationErr.Fields, errorFlash(strings.Join(validationErr.Messages(), " ")))
	case errors.As(err, &statusErr):
		h.render(w, r, http.StatusOK, record, isNew, nil, errorFlash(fmt.Sprintf("Failed to save %s.", h.desc.Name)))
	default:
		h.loggerFrom(r.Context()).Error("save failed", zap.String("entity", h.desc.Name), zap.Error(err))
		h.render(w, r, http.StatusInternalServerError, record, isNew, nil, errorFlash(msgDatabaseError))
	}
}

func (h *Maintenance[T]) delete(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), key); err != nil {
		h.writeFailure(w, r, "delete", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK(fmt.Sprintf("%s deleted.", h.desc.Name), nil))
}

func (h *Maintenance[T]) getAddress(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	address, err := h.svc.GetAddress(r.Context(), key)
	if err != nil {
		h.writeFailure(w, r, "load address", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("", httpx.Envelope{"address": address}))
}

func (h *Maintenance[T]) saveAddress(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	var address repo.Address
	if !h.decodeJSONForm(w, r, &address) {
		return
	}
	saved, err := h.svc.SaveAddress(r.Context(), key, address)
	if err != nil {
		h.writeFailure(w, r, "save address", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("Address saved.", httpx.Envelope{"address": saved}))
}

func (h *Maintenance[T]) getContacts(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	contacts, err := h.svc.GetContacts(r.Context(), key)
	if err != nil {
		h.writeFailure(w, r, "load contacts", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("", httpx.Envelope{"contacts": contacts}))
}

func (h *Maintenance[T]) saveContact(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	var contact repo.Contact
	if !h.decodeJSONForm(w, r, &contact) {
		return
	}
	saved, err := h.svc.SaveContact(r.Context(), key, contact)
	if err != nil {
		h.writeFailure(w, r, "save contact", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("Contact saved.", httpx.Envelope{"contact": saved}))
}

func (h *Maintenance[T]) deleteContact(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	contactKey, _ := strconv.ParseInt(r.FormValue("contact_key"), 10, 64)
	if err := h.svc.DeleteContact(r.Context(), key, contactKey); err != nil {
		h.writeFailure(w, r, "delete contact", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("Contact deleted.", nil))
}

func (h *Maintenance[T]) getComments(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	comments, err := h.svc.GetComments(r.Context(), key)
	if err != nil {
		h.writeFailure(w, r, "load comments", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("", httpx.Envelope{"comments": comments}))
}

func (h *Maintenance[T]) saveComment(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	var comment repo.Comment
	if !h.decodeJSONForm(w, r, &comment) {
		return
	}
	saved, err := h.svc.SaveComment(r.Context(), key, comment, actor(r.Context()))
	if err != nil {
		h.writeFailure(w, r, "save comment", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("Comment saved.", httpx.Envelope{"comment": saved}))
}

func (h *Maintenance[T]) deleteComment(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromForm(w, r)
	if !ok {
		return
	}
	commentKey, _ := strconv.ParseInt(r.FormValue("comment_key"), 10, 64)
	if err := h.svc.DeleteComment(r.Context(), key, commentKey); err != nil {
		h.writeFailure(w, r, "delete comment", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK("Comment deleted.", nil))
}

func (h *Maintenance[T]) render(w http.ResponseWriter, r *http.Request, status int, record T, isNew bool, fields map[string][]string, extra ...session.Flash) {
	flashes, err := h.flashes.Flashes(w, r)
	if err != nil {
		h.loggerFrom(r.Context()).Warn("read flashes", zap.Error(err))
	}
	flashes = append(flashes, extra...)

	httpx.WriteJSON(w, status, View[T]{
		Entity:       h.desc.Name,
		Path:         h.desc.Path(),
		KeyField:     h.desc.FormKey,
		Record:       record,
		IsNew:        isNew,
		CanCreateNew: h.desc.KeyKind == repo.SurrogateKey,
		CanDelete:    h.desc.Deletable,
		HasJunctions: h.desc.HasJunctions,
		Errors:       fields,
		Flashes:      flashes,
	})
}

func (h *Maintenance[T]) redirect(w http.ResponseWriter, r *http.Request, to, kind, message string) {
	if err := h.flashes.AddFlash(w, r, kind, message); err != nil {
		h.loggerFrom(r.Context()).Warn("store flash", zap.Error(err))
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Maintenance[T]) keyFromForm(w http.ResponseWriter, r *http.Request) (repo.Key, bool) {
	key, err := repo.ParseKey(h.desc, r.FormValue(h.desc.FormKey))
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.Fail(fmt.Sprintf("A valid %s is required.", strings.ToLower(h.desc.Name))))
		return repo.Key{}, false
	}
	return key, true
}

func (h *Maintenance[T]) decodeJSONForm(w http.ResponseWriter, r *http.Request, dst any) bool {
	fields, err := httpx.DecodeForm(r, dst)
	if err == nil {
		return true
	}
	if fields == nil {
		h.loggerFrom(r.Context()).Warn("decode form", zap.String("entity", h.desc.Name), zap.Error(err))
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.Fail("The form could not be read."))
		return false
	}
	out := httpx.Fail(joinMessages(fields))
	out["errors"] = fields
	httpx.WriteJSON(w, http.StatusUnprocessableEntity, out)
	return false
}

// writeFailure classifies err into a JSON envelope.
func (h *Maintenance[T]) writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, body := h.classifyError(op, err)
	logger := h.loggerFrom(r.Context()).With(
		zap.String("entity", h.desc.Name),
		zap.String("operation", op),
		zap.Int("status", status),
		zap.Error(err),
	)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed")
	case status == http.StatusNotFound:
		logger.Info("resource not found")
	default:
		logger.Warn("request rejected")
	}
	httpx.WriteJSON(w, status, body)
}

func (h *Maintenance[T]) classifyError(op string, err error) (int, httpx.Envelope) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		body := httpx.Fail(strings.Join(validationErr.Messages(), " "))
		body["errors"] = validationErr.Fields
		return http.StatusUnprocessableEntity, body
	}
	if errors.Is(err, service.ErrNotFound) {
		return http.StatusNotFound, httpx.Fail(fmt.Sprintf("%s not found.", h.desc.Name))
	}
	if errors.Is(err, service.ErrUnsupported) {
		return http.StatusNotFound, httpx.Fail(fmt.Sprintf("%s does not support %s.", h.desc.Plural, op))
	}
	var statusErr *sproc.StatusError
	if errors.As(err, &statusErr) {
		return http.StatusOK, httpx.Fail(fmt.Sprintf("Failed to %s.", op))
	}
	return http.StatusInternalServerError, httpx.Fail(msgDatabaseError)
}

func (h *Maintenance[T]) loggerFrom(ctx context.Context) *zap.Logger {
	return platformlogging.Or(ctx, h.logger)
}

func actor(ctx context.Context) string {
	return requesttrace.FromContextOrAnonymous(ctx).UserID
}

func keyValue(key repo.Key) any {
	if len(key.Parts) == 0 {
		return key.ID
	}
	return key.String()
}

func errorFlash(message string) session.Flash {
	return session.Flash{Kind: session.FlashError, Message: message}
}

func joinMessages(fields map[string][]string) string {
	return strings.Join((&service.ValidationError{Fields: service.FieldErrors(fields)}).Messages(), " ")
}
