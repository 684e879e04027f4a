package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/haulage-backoffice/contracts"
	platformauth "github.com/zenGate-Global/haulage-backoffice/platform/go/auth"
)

func signedIn(r *http.Request) *http.Request {
	id := platformauth.Identity{UserID: "jdoe", Tenant: "acme", MenuKeys: []string{"mnuAgentMaint"}}
	return r.WithContext(platformauth.WithIdentity(r.Context(), id))
}

func TestValidateSessionViaContract(t *testing.T) {
	input := func(r *http.Request, scheme string) *openapi3filter.AuthenticationInput {
		return &openapi3filter.AuthenticationInput{
			RequestValidationInput: &openapi3filter.RequestValidationInput{Request: r},
			SecuritySchemeName:     scheme,
		}
	}

	t.Run("signed in", func(t *testing.T) {
		r := signedIn(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NoError(t, ValidateSessionViaContract(context.Background(), input(r, SessionSchemeName)))
	})

	t.Run("anonymous", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.ErrorIs(t, ValidateSessionViaContract(context.Background(), input(r, SessionSchemeName)), errNoSession)
	})

	t.Run("other scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.NoError(t, ValidateSessionViaContract(context.Background(), input(r, "bearerAuth")))
	})
}

func TestContractValidator(t *testing.T) {
	doc, err := contracts.Load(context.Background())
	require.NoError(t, err)

	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	h := ContractValidator(doc)(next)

	serve := func(r *http.Request) *httptest.ResponseRecorder {
		reached = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}
	form := func(path string, values url.Values) *http.Request {
		r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return signedIn(r)
	}

	t.Run("valid save comment passes", func(t *testing.T) {
		rec := serve(form("/operations/agent-maintenance/save-comment", url.Values{
			"agent_key": {"7"}, "comment_key": {"54"}, "comment": {"Called back"},
		}))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})

	t.Run("multi part admin key passes", func(t *testing.T) {
		rec := serve(signedIn(httptest.NewRequest(http.MethodGet, "/admin/department-maintenance/load/ACME/WEST/OPS", nil)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})

	t.Run("non numeric comment key", func(t *testing.T) {
		rec := serve(form("/operations/agent-maintenance/delete-comment", url.Values{
			"agent_key": {"7"}, "comment_key": {"54;DROP"},
		}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
		assert.False(t, reached)
	})

	t.Run("json body on a form route", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/operations/agent-maintenance/save-contact", strings.NewReader(`{"contact_key":"1"}`))
		r.Header.Set("Content-Type", "application/json")
		rec := serve(signedIn(r))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, reached)
	})

	t.Run("bad boolean query", func(t *testing.T) {
		rec := serve(signedIn(httptest.NewRequest(http.MethodGet, "/admin/company-maintenance/autocomplete?term=ac&include_inactive=maybe", nil)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, reached)
	})

	t.Run("route outside the contract", func(t *testing.T) {
		rec := serve(form("/operations/agent-maintenance/delete", url.Values{"agent_key": {"7"}}))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "404 page not found\n", rec.Body.String())
		assert.False(t, reached)
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := serve(httptest.NewRequest(http.MethodGet, "/admin/user-security?user_id=jdoe", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})
}
