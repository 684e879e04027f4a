// Package session keeps the back-office login state in a signed cookie:
// identity, selected tenant, granted menu keys, flashes and the URL to return
// to after login.
package session

import (
	"encoding/gob"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// CookieName is the session cookie.
	CookieName = "backoffice_session"

	keyUserID   = "user_id"
	keyTenant   = "tenant"
	keyMenuKeys = "menu_keys"
	keyIntended = "intended_url"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered view.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func init() {
	gob.Register(Flash{})
}

// Data is the identity part of the session.
type Data struct {
	UserID   string
	Tenant   string
	MenuKeys []string
}

// Config configures the cookie store.
type Config struct {
	HashKey  []byte
	BlockKey []byte
	Secure   bool
	// MaxAge in seconds; zero keeps the cookie for the browser session.
	MaxAge int
}

// Manager reads and writes the session cookie.
type Manager struct {
	store sessions.Store
}

// NewCookieManager builds a Manager over a gorilla cookie store.
func NewCookieManager(cfg Config) *Manager {
	if len(cfg.HashKey) < 32 {
		panic("session hash key must be at least 32 bytes")
	}
	keys := [][]byte{cfg.HashKey}
	if len(cfg.BlockKey) > 0 {
		keys = append(keys, cfg.BlockKey)
	}

	store := sessions.NewCookieStore(keys...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return New(store)
}

// New wraps an existing store.
func New(store sessions.Store) *Manager {
	if store == nil {
		panic("session store is required")
	}
	return &Manager{store: store}
}

// Get returns the identity stored in the session. A missing or unreadable
// cookie yields empty Data.
func (m *Manager) Get(r *http.Request) (Data, error) {
	s, err := m.session(r)
	if err != nil {
		return Data{}, err
	}

	data := Data{}
	data.UserID, _ = s.Values[keyUserID].(string)
	data.Tenant, _ = s.Values[keyTenant].(string)
	data.MenuKeys, _ = s.Values[keyMenuKeys].([]string)
	return data, nil
}

// Put stores the identity after a successful login.
func (m *Manager) Put(w http.ResponseWriter, r *http.Request, data Data) error {
	s, err := m.session(r)
	if err != nil {
		return err
	}
	s.Values[keyUserID] = data.UserID
	s.Values[keyTenant] = data.Tenant
	s.Values[keyMenuKeys] = append([]string(nil), data.MenuKeys...)
	return s.Save(r, w)
}

// SetMenuKeys replaces the cached permission set.
func (m *Manager) SetMenuKeys(w http.ResponseWriter, r *http.Request, keys []string) error {
	s, err := m.session(r)
	if err != nil {
		return err
	}
	s.Values[keyMenuKeys] = append([]string(nil), keys...)
	return s.Save(r, w)
}

// Clear expires the cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	s, err := m.session(r)
	if err != nil {
		return err
	}
	for key := range s.Values {
		delete(s.Values, key)
	}
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// AddFlash queues a message for the next view.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) error {
	s, err := m.session(r)
	if err != nil {
		return err
	}
	s.AddFlash(Flash{Kind: kind, Message: message})
	return s.Save(r, w)
}

// Flashes returns and consumes pending messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	s, err := m.session(r)
	if err != nil {
		return []Flash{}, err
	}
	raw := s.Flashes()
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	if len(raw) == 0 {
		return out, nil
	}
	return out, s.Save(r, w)
}

// SetIntended remembers where to send the user after login.
func (m *Manager) SetIntended(w http.ResponseWriter, r *http.Request, url string) error {
	s, err := m.session(r)
	if err != nil {
		return err
	}
	s.Values[keyIntended] = url
	return s.Save(r, w)
}

// PopIntended returns and forgets the remembered URL.
func (m *Manager) PopIntended(w http.ResponseWriter, r *http.Request) (string, error) {
	s, err := m.session(r)
	if err != nil {
		return "", err
	}
	url, _ := s.Values[keyIntended].(string)
	if url == "" {
		return "", nil
	}
	delete(s.Values, keyIntended)
	return url, s.Save(r, w)
}

// session returns the request's session. A cookie that no longer decodes
// (rotated keys) is replaced by a fresh session.
func (m *Manager) session(r *http.Request) (*sessions.Session, error) {
	s, err := m.store.Get(r, CookieName)
	if s == nil {
		if err == nil {
			err = errors.New("session store returned no session")
		}
		return nil, err
	}
	return s, nil
}
