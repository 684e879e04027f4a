package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

const (
	procMenusGet         = "spMenus_Get"
	procUserSecurityGet  = "spUserSecurity_Get"
	procUserSecuritySave = "spUserSecurity_Save"
	procRoleTemplateGet  = "spRoleTemplate_Get"
	procUserLogin        = "spUser_Login"
)

// Menu is one permission-bearing menu entry.
type Menu struct {
	MenuKey     string `json:"menu_key"`
	Description string `json:"description"`
	Section     string `json:"section"`
}

// UserSecurity reads and writes (UserID, MenuKey) grants.
type UserSecurity struct {
	gateways sproc.Provider
}

func NewUserSecurity(gateways sproc.Provider) *UserSecurity {
	if gateways == nil {
		panic("gateway provider is required")
	}
	return &UserSecurity{gateways: gateways}
}

// Menus lists every known menu key.
func (s *UserSecurity) Menus(ctx context.Context) ([]Menu, error) {
	gw, err := s.gateways.Gateway(ctx)
	if err != nil {
		return []Menu{}, err
	}
	rows, err := gw.Call(ctx, procMenusGet)
	if err != nil {
		return []Menu{}, err
	}

	menus := make([]Menu, 0, len(rows))
	for _, row := range rows {
		key := row.String("MenuKey")
		if key == "" {
			continue
		}
		menus = append(menus, Menu{
			MenuKey:     key,
			Description: row.String("Description"),
			Section:     row.String("Section"),
		})
	}
	return menus, nil
}

// Grants returns the user's menu keys with their granted flag.
func (s *UserSecurity) Grants(ctx context.Context, userID string) (map[string]bool, error) {
	gw, err := s.gateways.Gateway(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := gw.Call(ctx, procUserSecurityGet, userID)
	if err != nil {
		return nil, err
	}

	grants := make(map[string]bool, len(rows))
	for _, row := range rows {
		if key := row.String("MenuKey"); key != "" {
			grants[key] = row.Bool("Granted")
		}
	}
	return grants, nil
}

// GrantedKeys returns the sorted menu keys the user holds.
func (s *UserSecurity) GrantedKeys(ctx context.Context, userID string) ([]string, error) {
	grants, err := s.Grants(ctx, userID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(grants))
	for key, granted := range grants {
		if granted {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// SetGrant writes one permission bit.
func (s *UserSecurity) SetGrant(ctx context.Context, userID, menuKey string, granted bool) error {
	gw, err := s.gateways.Gateway(ctx)
	if err != nil {
		return err
	}
	return callStatus(ctx, gw, procUserSecuritySave, userID, menuKey, sproc.Bit(granted))
}

// RoleTemplate returns the menu keys a named role grants.
func (s *UserSecurity) RoleTemplate(ctx context.Context, role string) ([]string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, ErrNotFound
	}
	gw, err := s.gateways.Gateway(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := gw.Call(ctx, procRoleTemplateGet, role)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		if key := row.String("MenuKey"); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, ErrNotFound
	}
	return keys, nil
}

// Authenticate checks the credentials with spUser_Login. Only a driver failure
// is an error; rejected credentials report false.
func (s *UserSecurity) Authenticate(ctx context.Context, userID, password string) (bool, error) {
	gw, err := s.gateways.Gateway(ctx)
	if err != nil {
		return false, err
	}
	code, err := gw.CallForStatus(ctx, procUserLogin, userID, password)
	if err != nil {
		return false, err
	}
	return code == sproc.SrvNormal, nil
}
