package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/haulage-backoffice/domains/sessions/be/service"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/session"
)

type mockService struct {
	tenantsFn func(ctx context.Context) ([]service.Option, error)
	loginFn   func(ctx context.Context, input service.LoginInput) (session.Data, error)
}

func (m *mockService) Tenants(ctx context.Context) ([]service.Option, error) {
	if m.tenantsFn == nil {
		panic("tenantsFn not configured")
	}
	return m.tenantsFn(ctx)
}

func (m *mockService) Login(ctx context.Context, input service.LoginInput) (session.Data, error) {
	if m.loginFn == nil {
		panic("loginFn not configured")
	}
	return m.loginFn(ctx, input)
}

func newManager() *session.Manager {
	return session.NewCookieManager(session.Config{HashKey: []byte(strings.Repeat("k", 32))})
}

func newRouter(t *testing.T, svc Service, sessions Sessions) http.Handler {
	r := chi.NewRouter()
	New(svc, sessions, zaptest.NewLogger(t)).Register(r)
	return r
}

// withSessionCookie copies the most recent session cookie of rec onto req.
func withSessionCookie(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	var last *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			last = c
		}
	}
	if last != nil {
		req.AddCookie(last)
	}
	return req
}

func loginRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginRedirectsToIntendedURL(t *testing.T) {
	t.Parallel()

	mgr := newManager()
	svc := &mockService{loginFn: func(_ context.Context, input service.LoginInput) (session.Data, error) {
		assert.Equal(t, service.LoginInput{UserID: "JSMITH", Password: "s3cret", Tenant: "acme"}, input)
		return session.Data{UserID: "JSMITH", Tenant: "acme", MenuKeys: []string{"mnuAgentMaint"}}, nil
	}}
	router := newRouter(t, svc, mgr)

	first := httptest.NewRecorder()
	require.NoError(t, mgr.SetIntended(first, httptest.NewRequest(http.MethodGet, "/operations/agent-maintenance", nil), "/operations/agent-maintenance"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withSessionCookie(loginRequest(url.Values{
		"user_id":  {"JSMITH"},
		"password": {"s3cret"},
		"tenant":   {"acme"},
	}), first))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/operations/agent-maintenance", rec.Header().Get("Location"))

	data, err := mgr.Get(withSessionCookie(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	require.NoError(t, err)
	assert.Equal(t, "JSMITH", data.UserID)
	assert.Equal(t, "acme", data.Tenant)
	assert.Equal(t, []string{"mnuAgentMaint"}, data.MenuKeys)

	again := httptest.NewRecorder()
	intended, err := mgr.PopIntended(again, withSessionCookie(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	require.NoError(t, err)
	assert.Empty(t, intended)
}

func TestLoginRejectedFlashesAndReturnsToForm(t *testing.T) {
	t.Parallel()

	mgr := newManager()
	svc := &mockService{
		loginFn: func(context.Context, service.LoginInput) (session.Data, error) {
			return session.Data{}, service.ErrInvalidCredentials
		},
		tenantsFn: func(context.Context) ([]service.Option, error) {
			return []service.Option{{Slug: "acme", DisplayName: "Acme Freight"}}, nil
		},
	}
	router := newRouter(t, svc, mgr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginRequest(url.Values{"user_id": {"JSMITH"}, "password": {"bad"}, "tenant": {"acme"}}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	form := httptest.NewRecorder()
	router.ServeHTTP(form, withSessionCookie(httptest.NewRequest(http.MethodGet, "/login", nil), rec))

	require.Equal(t, http.StatusOK, form.Code)
	assert.JSONEq(t, `{
		"tenants": [{"slug": "acme", "display_name": "Acme Freight"}],
		"flashes": [{"kind": "error", "message": "Invalid user ID or password."}]
	}`, form.Body.String())
}

func TestLoginJSONClients(t *testing.T) {
	t.Parallel()

	svc := &mockService{loginFn: func(context.Context, service.LoginInput) (session.Data, error) {
		return session.Data{}, service.ErrMissingFields
	}}
	router := newRouter(t, svc, newManager())

	req := loginRequest(url.Values{"user_id": {"JSMITH"}})
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"User ID, password and company are required."}`, rec.Body.String())
}

func TestLogoutClearsSession(t *testing.T) {
	t.Parallel()

	mgr := newManager()
	router := newRouter(t, &mockService{}, mgr)

	seeded := httptest.NewRecorder()
	require.NoError(t, mgr.Put(seeded, httptest.NewRequest(http.MethodPost, "/login", nil), session.Data{UserID: "JSMITH", Tenant: "acme"}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withSessionCookie(httptest.NewRequest(http.MethodPost, "/logout", nil), seeded))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[len(cookies)-1].MaxAge)
}

func TestSafeRedirect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/", safeRedirect(""))
	assert.Equal(t, "/", safeRedirect("https://evil.test/"))
	assert.Equal(t, "/", safeRedirect("//evil.test"))
	assert.Equal(t, "/", safeRedirect("/login"))
	assert.Equal(t, "/admin/team-maintenance/load/4", safeRedirect("/admin/team-maintenance/load/4"))
}
