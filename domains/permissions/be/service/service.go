// Package service edits the (user, menu key) permission grants of other users.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/zenGate-Global/haulage-backoffice/domains/entities/be/repo"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
)

// Domain errors.
var (
	ErrUserRequired = errors.New("user id is required")
	ErrRoleNotFound = errors.New("role template not found")
)

// Permission is one menu entry with the target user's grant.
type Permission struct {
	MenuKey     string `json:"menu_key"`
	Description string `json:"description"`
	Section     string `json:"section"`
	Granted     bool   `json:"granted"`
}

// SaveReport lists the keys written and the keys whose write failed.
type SaveReport struct {
	Saved  []string `json:"saved"`
	Failed []string `json:"failed"`
}

func (r SaveReport) OK() bool {
	return len(r.Failed) == 0
}

// Store is the permission table access the service needs.
type Store interface {
	Menus(ctx context.Context) ([]repo.Menu, error)
	Grants(ctx context.Context, userID string) (map[string]bool, error)
	GrantedKeys(ctx context.Context, userID string) ([]string, error)
	SetGrant(ctx context.Context, userID, menuKey string, granted bool) error
	RoleTemplate(ctx context.Context, role string) ([]string, error)
}

// Service is the admin permission contract.
type Service interface {
	UserPermissions(ctx context.Context, userID string) ([]Permission, error)
	SaveChanges(ctx context.Context, userID string, changes map[string]bool) (SaveReport, error)
	ApplyRoleTemplate(ctx context.Context, userID, role string) (SaveReport, error)
	GrantedKeys(ctx context.Context, userID string) ([]string, error)
}

type service struct {
	store  Store
	logger *zap.Logger
}

// New constructs the permission service.
func New(store Store, logger *zap.Logger) Service {
	if store == nil {
		panic("permission store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{store: store, logger: logger}
}

// UserPermissions returns every known menu with the user's grant, ordered by
// section then key.
func (s *service) UserPermissions(ctx context.Context, userID string) ([]Permission, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserRequired
	}

	menus, err := s.store.Menus(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	grants, err := s.store.Grants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load grants for %s: %w", userID, err)
	}

	out := make([]Permission, 0, len(menus))
	for _, menu := range menus {
		out = append(out, Permission{
			MenuKey:     menu.MenuKey,
			Description: menu.Description,
			Section:     menu.Section,
			Granted:     grants[menu.MenuKey],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].MenuKey < out[j].MenuKey
	})
	return out, nil
}

// SaveChanges writes each changed bit independently. A failed key does not
// stop the others; it is reported in the result.
func (s *service) SaveChanges(ctx context.Context, userID string, changes map[string]bool) (SaveReport, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return SaveReport{}, ErrUserRequired
	}

	keys := make([]string, 0, len(changes))
	for key := range changes {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	report := SaveReport{Saved: []string{}, Failed: []string{}}
	for _, key := range keys {
		s.write(ctx, userID, key, changes[key], &report)
	}
	return report, nil
}

// ApplyRoleTemplate grants every key of the role and denies every other known
// menu key. The result is a full overwrite of the user's grants.
func (s *service) ApplyRoleTemplate(ctx context.Context, userID, role string) (SaveReport, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return SaveReport{}, ErrUserRequired
	}

	template, err := s.store.RoleTemplate(ctx, role)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return SaveReport{}, ErrRoleNotFound
		}
		return SaveReport{}, fmt.Errorf("load role %s: %w", role, err)
	}
	menus, err := s.store.Menus(ctx)
	if err != nil {
		return SaveReport{}, fmt.Errorf("list menus: %w", err)
	}

	granted := make(map[string]bool, len(template))
	for _, key := range template {
		granted[key] = true
	}
	grants := make([]string, 0, len(granted))
	for key := range granted {
		grants = append(grants, key)
	}
	sort.Strings(grants)

	denies := make([]string, 0, len(menus))
	for _, menu := range menus {
		if !granted[menu.MenuKey] {
			denies = append(denies, menu.MenuKey)
		}
	}
	sort.Strings(denies)

	report := SaveReport{Saved: []string{}, Failed: []string{}}
	for _, key := range grants {
		s.write(ctx, userID, key, true, &report)
	}
	for _, key := range denies {
		s.write(ctx, userID, key, false, &report)
	}

	platformlogging.Or(ctx, s.logger).Info("role template applied",
		zap.String("target_user", userID),
		zap.String("role", role),
		zap.Int("granted", len(grants)),
		zap.Int("denied", len(denies)),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

func (s *service) GrantedKeys(ctx context.Context, userID string) ([]string, error) {
	return s.store.GrantedKeys(ctx, userID)
}

func (s *service) write(ctx context.Context, userID, key string, granted bool, report *SaveReport) {
	if err := s.store.SetGrant(ctx, userID, key, granted); err != nil {
		platformlogging.Or(ctx, s.logger).Warn("permission not saved",
			zap.String("target_user", userID),
			zap.String("menu_key", key),
			zap.Bool("granted", granted),
			zap.Error(err),
		)
		report.Failed = append(report.Failed, key)
		return
	}
	report.Saved = append(report.Saved, key)
}
