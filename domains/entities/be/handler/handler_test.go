package handler

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/haulage-backoffice/domains/entities/be/repo"
	"github.com/zenGate-Global/haulage-backoffice/domains/entities/be/service"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/requesttrace"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/session"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

type flashRecorder struct {
	added   []session.Flash
	pending []session.Flash
}

func (f *flashRecorder) AddFlash(_ http.ResponseWriter, _ *http.Request, kind, message string) error {
	f.added = append(f.added, session.Flash{Kind: kind, Message: message})
	return nil
}

func (f *flashRecorder) Flashes(http.ResponseWriter, *http.Request) ([]session.Flash, error) {
	out := f.pending
	f.pending = nil
	return out, nil
}

func newProvider(t *testing.T) (sproc.Provider, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gw := sproc.New(db, zaptest.NewLogger(t), nil)
	return sproc.ProviderFunc(func(context.Context) (*sproc.Gateway, error) { return gw, nil }), mock
}

func unreachableProvider(t *testing.T) sproc.Provider {
	return sproc.ProviderFunc(func(context.Context) (*sproc.Gateway, error) {
		t.Fatalf("unexpected database access")
		return nil, nil
	})
}

func callSQL(name string, params int) string {
	return "SET NOCOUNT ON; EXEC " + name + placeholders(params)
}

func statusSQL(name string, params int) string {
	return "SET NOCOUNT ON; DECLARE @ret INT; EXEC @ret = " + name + placeholders(params) + "; SELECT @ret AS ret"
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("@p%d", i+1)
	}
	if n == 0 {
		return ""
	}
	return " " + strings.Join(parts, ", ")
}

func expectNextKey(mock sqlmock.Sqlmock, table string, key int64) {
	mock.ExpectQuery("SET NOCOUNT ON; DECLARE @key INT; EXEC spGetNextKey @p1, @key OUTPUT; SELECT @key AS next_key").
		WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"next_key"}).AddRow(key))
}

func expectStatus(mock sqlmock.Sqlmock, name string, code int64, params ...any) {
	values := make([]driver.Value, len(params))
	for i, p := range params {
		values[i] = p
	}
	mock.ExpectQuery(statusSQL(name, len(params))).
		WithArgs(values...).
		WillReturnRows(sqlmock.NewRows([]string{"ret"}).AddRow(code))
}

func agentScreen(t *testing.T, gateways sproc.Provider, flashes FlashStore) *Maintenance[repo.Agent] {
	t.Helper()
	return screen(Deps{Gateways: gateways, Flashes: flashes, Logger: zaptest.NewLogger(t)},
		repo.AgentDescriptor, repo.ScanAgent, repo.NewAgent)
}

func driverScreen(t *testing.T, gateways sproc.Provider, flashes FlashStore) *Maintenance[repo.Driver] {
	t.Helper()
	return screen(Deps{Gateways: gateways, Flashes: flashes, Logger: zaptest.NewLogger(t)},
		repo.DriverDescriptor, repo.ScanDriver, repo.NewDriver)
}

func asUser(req *http.Request, userID string) *http.Request {
	ctx := requesttrace.IntoContext(req.Context(), requesttrace.AuditInfo{
		ActorKind: "user",
		UserID:    userID,
		Tenant:    "acme",
	})
	return req.WithContext(ctx)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCreateNewThenLoadAgent(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	flashes := &flashRecorder{}
	routes := agentScreen(t, provider, flashes).Routes()

	created := repo.NewAgent().WithKey(repo.SurrogateID(1001)).EditedBy("JSMITH")
	expectNextKey(mock, "Agents", 1001)
	expectStatus(mock, "spAgent_Save", sproc.SrvNormal, created.SaveParams()...)
	expectNextKey(mock, "NameAddress", 900)
	expectStatus(mock, "spNameAddress_Save", sproc.SrvNormal, repo.Address{NameKey: 900, NameQual: "AG"}.SaveParams()...)
	expectStatus(mock, "spAgentNameAddresses_Save", sproc.SrvNormal, int64(1001), int64(900))

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, asUser(postForm("/create-new", url.Values{}), "JSMITH"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "New Agent created.", body["message"])
	assert.Equal(t, float64(1001), body["agent_key"])

	mock.ExpectQuery(callSQL("spAgent_Get", 1)).
		WithArgs(int64(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"Name", "Active"}).AddRow("New Agent", true))

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/load/1001", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view View[repo.Agent]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(1001), view.Record.AgentKey)
	assert.Equal(t, "New Agent", view.Record.Name)
	assert.True(t, view.Record.Active)
	assert.False(t, view.IsNew)
	assert.True(t, view.HasJunctions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRejectsActiveDriverWithEndDate(t *testing.T) {
	t.Parallel()

	flashes := &flashRecorder{}
	routes := driverScreen(t, unreachableProvider(t), flashes).Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, asUser(postForm("/save", url.Values{
		"driver_key": {"5"},
		"first_name": {"Ann"},
		"last_name":  {"Cole"},
		"active":     {"on"},
		"end_date":   {"2025-01-01"},
	}), "JSMITH"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var view View[repo.Driver]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotEmpty(t, view.Flashes)
	assert.Equal(t, session.FlashError, view.Flashes[0].Kind)
	assert.Contains(t, view.Flashes[0].Message, "cannot have an End Date")
	assert.Contains(t, view.Errors, "end_date")
	assert.Equal(t, "Ann", view.Record.FirstName)
}

func TestSaveRedirectsToLoadedRecord(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	flashes := &flashRecorder{}
	routes := agentScreen(t, provider, flashes).Routes()

	agent := repo.Agent{AgentKey: 12, Name: "Acme Freight", Active: true}.EditedBy("JSMITH")
	expectStatus(mock, "spAgent_Save", sproc.SrvNormal, agent.SaveParams()...)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, asUser(postForm("/save", url.Values{
		"agent_key": {"12"},
		"name":      {"Acme Freight"},
		"active":    {"1"},
	}), "JSMITH"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/operations/agent-maintenance/load/12", rec.Header().Get("Location"))
	require.Len(t, flashes.added, 1)
	assert.Equal(t, session.Flash{Kind: session.FlashSuccess, Message: "Agent saved."}, flashes.added[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReportsProcedureFailure(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	routes := agentScreen(t, provider, &flashRecorder{}).Routes()

	agent := repo.Agent{AgentKey: 12, Name: "Acme Freight", Active: true}.EditedBy("JSMITH")
	expectStatus(mock, "spAgent_Save", sproc.SrvError, agent.SaveParams()...)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, asUser(postForm("/save", url.Values{
		"agent_key": {"12"},
		"name":      {"Acme Freight"},
		"active":    {"true"},
	}), "JSMITH"))

	require.Equal(t, http.StatusOK, rec.Code)
	var view View[repo.Agent]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Flashes, 1)
	assert.Equal(t, "Failed to save Agent.", view.Flashes[0].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRedirects(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		flashes := &flashRecorder{}
		routes := agentScreen(t, unreachableProvider(t), flashes).Routes()

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, postForm("/search", url.Values{"agent_key": {"  "}}))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/operations/agent-maintenance", rec.Header().Get("Location"))
		require.Len(t, flashes.added, 1)
		assert.Equal(t, session.FlashError, flashes.added[0].Kind)
		assert.Contains(t, flashes.added[0].Message, "to search for")
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		provider, mock := newProvider(t)
		flashes := &flashRecorder{}
		routes := agentScreen(t, provider, flashes).Routes()

		mock.ExpectQuery(callSQL("spAgent_Get", 1)).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"AgentKey"}))

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, postForm("/search", url.Values{"agent_key": {"77"}}))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Len(t, flashes.added, 1)
		assert.Equal(t, session.Flash{Kind: session.FlashWarning, Message: `Agent "77" not found.`}, flashes.added[0])
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveContactKeepsExtraFields(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	routes := agentScreen(t, provider, &flashRecorder{}).Routes()

	mock.ExpectQuery(callSQL("spAgentNameAddresses_Get", 1)).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"NameKey"}).AddRow(int64(900)))
	expectNextKey(mock, "Contacts", 300)
	expectStatus(mock, "spContact_Save", sproc.SrvNormal, int64(300), "Dana Ruiz", "Dispatch", "214-555-0199")
	expectStatus(mock, "spContacts_Save", sproc.SrvNormal, int64(900), int64(300))

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, postForm("/save-contact", url.Values{
		"agent_key":        {"12"},
		"contact_name":     {"Dana Ruiz"},
		"contact_function": {"Dispatch"},
		"telephone_no":     {"214-555-0199"},
		"cell_no":          {"214-555-0111"},
		"email":            {"dana@acme.test"},
		"primary_contact":  {"on"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Contact repo.Contact `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(300), body.Contact.ContactKey)
	assert.Equal(t, "dana@acme.test", body.Contact.Email)
	assert.True(t, body.Contact.PrimaryContact)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSatelliteRequiresKey(t *testing.T) {
	t.Parallel()

	routes := agentScreen(t, unreachableProvider(t), &flashRecorder{}).Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, postForm("/get-contacts", url.Values{"agent_key": {"abc"}}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"A valid agent is required."}`, rec.Body.String())
}

func TestDeleteUnsupportedEntity(t *testing.T) {
	t.Parallel()

	routes := agentScreen(t, unreachableProvider(t), &flashRecorder{}).Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, postForm("/delete", url.Values{"agent_key": {"12"}}))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Agents does not support delete.")
}

func TestCreateNewUnavailableForBusinessKeys(t *testing.T) {
	t.Parallel()

	deps := Deps{Gateways: unreachableProvider(t), Flashes: &flashRecorder{}, Logger: zaptest.NewLogger(t)}
	routes := screen[repo.Company](deps, repo.CompanyDescriptor, repo.ScanCompany, nil).Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, postForm("/create-new", url.Values{}))

	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, postForm("/get-address", url.Values{"company_id": {"ACME"}}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMountAppliesGuardPerScreen(t *testing.T) {
	t.Parallel()

	screens := Screens(Deps{Gateways: unreachableProvider(t), Flashes: &flashRecorder{}, Logger: zaptest.NewLogger(t)})
	require.Len(t, screens, 8)

	allowed := map[string]bool{"mnuAgentMaint": true}
	guard := func(menuKey string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !allowed[menuKey] {
					http.NotFound(w, r)
					return
				}
				next.ServeHTTP(w, r)
			})
		}
	}

	r := chi.NewRouter()
	Mount(r, guard, screens...)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/operations/agent-maintenance/?new=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view View[repo.Agent]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Agent", view.Entity)
	assert.True(t, view.IsNew)
	assert.True(t, view.CanCreateNew)
	assert.Equal(t, "New Agent", view.Record.Name)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/operations/driver-maintenance/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	h := agentScreen(t, unreachableProvider(t), &flashRecorder{})

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.ValidationError{Fields: service.FieldErrors{"name": {"Name is required."}}}, http.StatusUnprocessableEntity},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"procedure status", &sproc.StatusError{Procedure: "spAgent_Save", Code: sproc.SrvInvalidParent}, http.StatusOK},
		{"driver", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := h.classifyError("save", tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestIndexShowsTemplateOnlyWhenAskedForNew(t *testing.T) {
	t.Parallel()

	routes := agentScreen(t, unreachableProvider(t), &flashRecorder{}).Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var blank View[repo.Agent]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blank))
	assert.False(t, blank.IsNew)
	assert.Empty(t, blank.Record.Name)
	assert.False(t, blank.Record.Active)

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?new=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var fresh View[repo.Agent]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fresh))
	assert.True(t, fresh.IsNew)
	assert.Equal(t, "New Agent", fresh.Record.Name)
	assert.True(t, fresh.Record.Active)
}

func TestCreateNewThenSaveAddressKeepsSingleLink(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	routes := agentScreen(t, provider, &flashRecorder{}).Routes()

	created := repo.NewAgent().WithKey(repo.SurrogateID(1001)).EditedBy("JSMITH")
	expectNextKey(mock, "Agents", 1001)
	expectStatus(mock, "spAgent_Save", sproc.SrvNormal, created.SaveParams()...)
	expectNextKey(mock, "NameAddress", 900)
	expectStatus(mock, "spNameAddress_Save", sproc.SrvNormal, repo.Address{NameKey: 900, NameQual: "AG"}.SaveParams()...)
	expectStatus(mock, "spAgentNameAddresses_Save", sproc.SrvNormal, int64(1001), int64(900))

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, asUser(postForm("/create-new", url.Values{}), "JSMITH"))
	require.Equal(t, http.StatusOK, rec.Code)

	stored := repo.Address{NameKey: 900, NameQual: "AG", Name1: "Acme Freight", City: "Dallas", State: "TX"}
	mock.ExpectQuery(callSQL("spAgentNameAddresses_Get", 1)).
		WithArgs(int64(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"AgentKey", "NameKey"}).AddRow(int64(1001), int64(900)))
	expectStatus(mock, "spNameAddress_Save", sproc.SrvNormal, stored.SaveParams()...)

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, postForm("/save-address", url.Values{
		"agent_key": {"1001"},
		"name1":     {"Acme Freight"},
		"city":      {"Dallas"},
		"state":     {"TX"},
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	mock.ExpectQuery(callSQL("spAgentNameAddresses_Get", 1)).
		WithArgs(int64(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"AgentKey", "NameKey"}).AddRow(int64(1001), int64(900)))
	mock.ExpectQuery(callSQL("spNameAddress_Get", 1)).
		WithArgs(int64(900)).
		WillReturnRows(sqlmock.NewRows([]string{"NameQual", "Name1", "City", "State"}).
			AddRow("AG", "Acme Freight", "Dallas", "TX"))

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, postForm("/get-address", url.Values{"agent_key": {"1001"}}))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Address repo.Address `json:"address"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(900), body.Address.NameKey)
	assert.Equal(t, "Acme Freight", body.Address.Name1)
	assert.Equal(t, "Dallas", body.Address.City)
	assert.Equal(t, "TX", body.Address.State)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCommentOfAnotherEntityIsNotFound(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	routes := agentScreen(t, provider, &flashRecorder{}).Routes()

	mock.ExpectQuery(callSQL("spAgentComments_Get", 1)).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"CommentKey"}).AddRow(int64(55)))

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, asUser(postForm("/save-comment", url.Values{
		"agent_key":   {"12"},
		"comment_key": {"77"},
		"comment":     {"rewritten"},
	}), "EVE"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Agent not found."}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNewRecordFlashesCreated(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	flashes := &flashRecorder{}
	routes := agentScreen(t, provider, flashes).Routes()

	agent := repo.Agent{AgentKey: 1002, Name: "Acme Freight", Active: true}.EditedBy("JSMITH")
	expectNextKey(mock, "Agents", 1002)
	expectStatus(mock, "spAgent_Save", sproc.SrvNormal, agent.SaveParams()...)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, asUser(postForm("/save", url.Values{
		"name":   {"Acme Freight"},
		"active": {"on"},
	}), "JSMITH"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/operations/agent-maintenance/load/1002", rec.Header().Get("Location"))
	require.Len(t, flashes.added, 1)
	assert.Equal(t, session.Flash{Kind: session.FlashSuccess, Message: "Agent created."}, flashes.added[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEscapesBusinessKeyInRedirect(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	flashes := &flashRecorder{}
	deps := Deps{Gateways: provider, Flashes: flashes, Logger: zaptest.NewLogger(t)}
	routes := screen[repo.Company](deps, repo.CompanyDescriptor, repo.ScanCompany, nil).Routes()

	company := repo.Company{CompanyID: "ACME 01", CompanyName: "Acme Freight", Active: true}.EditedBy("JSMITH")
	expectStatus(mock, "spCompany_Save", sproc.SrvNormal, company.SaveParams()...)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, asUser(postForm("/save", url.Values{
		"company_id":   {"ACME 01"},
		"company_name": {"Acme Freight"},
		"active":       {"on"},
	}), "JSMITH"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/company-maintenance/load/ACME%2001", rec.Header().Get("Location"))
	assert.Equal(t, "Company saved.", flashes.added[0].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadDecodesEscapedKeyParts(t *testing.T) {
	t.Parallel()

	provider, mock := newProvider(t)
	deps := Deps{Gateways: provider, Flashes: &flashRecorder{}, Logger: zaptest.NewLogger(t)}
	routes := screen[repo.Division](deps, repo.DivisionDescriptor, repo.ScanDivision, nil).Routes()

	mock.ExpectQuery(callSQL("spDivision_Get", 2)).
		WithArgs("A/B", "WEST").
		WillReturnRows(sqlmock.NewRows([]string{"CompanyID", "DivisionID", "Name"}).AddRow("A/B", "WEST", "West Region"))

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/load/A%2FB/WEST", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view View[repo.Division]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "A/B", view.Record.CompanyID)
	assert.Equal(t, "WEST", view.Record.DivisionID)
	require.NoError(t, mock.ExpectationsWereMet())
}
