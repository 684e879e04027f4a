package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/haulage-backoffice/domains/entities/be/repo"
)

type memoryStore struct {
	menus     []repo.Menu
	grants    map[string]map[string]bool
	templates map[string][]string
	failKeys  map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		menus: []repo.Menu{
			{MenuKey: "mnuAgentMaint", Section: "operations"},
			{MenuKey: "mnuDriverMaint", Section: "operations"},
			{MenuKey: "mnuOwnerMaint", Section: "operations"},
			{MenuKey: "mnuCompanyMaint", Section: "admin"},
			{MenuKey: "mnuUserSecurity", Section: "admin"},
		},
		grants: map[string]map[string]bool{},
		templates: map[string][]string{
			"dispatch": {"mnuDriverMaint", "mnuAgentMaint"},
		},
		failKeys: map[string]bool{},
	}
}

func (m *memoryStore) Menus(context.Context) ([]repo.Menu, error) {
	return m.menus, nil
}

func (m *memoryStore) Grants(_ context.Context, userID string) (map[string]bool, error) {
	out := map[string]bool{}
	for k, v := range m.grants[userID] {
		out[k] = v
	}
	return out, nil
}

func (m *memoryStore) GrantedKeys(_ context.Context, userID string) ([]string, error) {
	keys := []string{}
	for k, v := range m.grants[userID] {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryStore) SetGrant(_ context.Context, userID, menuKey string, granted bool) error {
	if m.failKeys[menuKey] {
		return errors.New("spUserSecurity_Save returned 1 (generic failure)")
	}
	if m.grants[userID] == nil {
		m.grants[userID] = map[string]bool{}
	}
	m.grants[userID][menuKey] = granted
	return nil
}

func (m *memoryStore) RoleTemplate(_ context.Context, role string) ([]string, error) {
	keys, ok := m.templates[role]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return keys, nil
}

func TestApplyRoleTemplateOverwritesGrants(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.grants["JDOE"] = map[string]bool{
		"mnuOwnerMaint":   true,
		"mnuUserSecurity": true,
		"mnuDriverMaint":  false,
	}
	svc := New(store, zaptest.NewLogger(t))

	report, err := svc.ApplyRoleTemplate(context.Background(), "JDOE", "dispatch")
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Len(t, report.Saved, 5)

	for _, menu := range store.menus {
		want := menu.MenuKey == "mnuAgentMaint" || menu.MenuKey == "mnuDriverMaint"
		assert.Equal(t, want, store.grants["JDOE"][menu.MenuKey], menu.MenuKey)
	}

	keys, err := svc.GrantedKeys(context.Background(), "JDOE")
	require.NoError(t, err)
	assert.Equal(t, []string{"mnuAgentMaint", "mnuDriverMaint"}, keys)
}

func TestApplyRoleTemplateUnknownRole(t *testing.T) {
	t.Parallel()

	svc := New(newMemoryStore(), zaptest.NewLogger(t))

	_, err := svc.ApplyRoleTemplate(context.Background(), "JDOE", "billing")
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestUserPermissionsListsEveryMenu(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.grants["JDOE"] = map[string]bool{"mnuCompanyMaint": true}
	svc := New(store, zaptest.NewLogger(t))

	perms, err := svc.UserPermissions(context.Background(), " JDOE ")
	require.NoError(t, err)
	require.Len(t, perms, 5)
	assert.Equal(t, Permission{MenuKey: "mnuCompanyMaint", Section: "admin", Granted: true}, perms[0])
	assert.Equal(t, "mnuUserSecurity", perms[1].MenuKey)
	assert.False(t, perms[1].Granted)
	assert.Equal(t, "operations", perms[2].Section)
}

func TestSaveChangesReportsFailedKeys(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.failKeys["mnuOwnerMaint"] = true
	svc := New(store, zaptest.NewLogger(t))

	report, err := svc.SaveChanges(context.Background(), "JDOE", map[string]bool{
		"mnuAgentMaint": true,
		"mnuOwnerMaint": true,
		"":              true,
	})
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"mnuAgentMaint"}, report.Saved)
	assert.Equal(t, []string{"mnuOwnerMaint"}, report.Failed)
	assert.True(t, store.grants["JDOE"]["mnuAgentMaint"])
}

func TestUserRequired(t *testing.T) {
	t.Parallel()

	svc := New(newMemoryStore(), zaptest.NewLogger(t))

	_, err := svc.UserPermissions(context.Background(), "  ")
	require.ErrorIs(t, err, ErrUserRequired)
	_, err = svc.SaveChanges(context.Background(), "", map[string]bool{"mnuAgentMaint": true})
	require.ErrorIs(t, err, ErrUserRequired)
	_, err = svc.ApplyRoleTemplate(context.Background(), "", "dispatch")
	require.ErrorIs(t, err, ErrUserRequired)
}
