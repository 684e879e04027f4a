package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/haulage-backoffice/domains/entities/be/repo"
	"github.com/zenGate-Global/haulage-backoffice/domains/entities/be/service"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/validation"
)

// Screen is a mountable maintenance screen.
type Screen interface {
	Descriptor() repo.Descriptor
	Routes() chi.Router
}

// Guard wraps a screen in the permission check for its menu key.
type Guard func(menuKey string) func(http.Handler) http.Handler

// Mount registers every screen at its path behind guard.
func Mount(r chi.Router, guard Guard, screens ...Screen) {
	for _, s := range screens {
		desc := s.Descriptor()
		r.With(guard(desc.MenuKey)).Mount(desc.Path(), s.Routes())
	}
}

// Deps are shared by every screen.
type Deps struct {
	Gateways  sproc.Provider
	Flashes   FlashStore
	Validator *validation.Validator
	Logger    *zap.Logger
}

// Screens builds the maintenance screen of every entity.
func Screens(deps Deps) []Screen {
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}
	return []Screen{
		screen(deps, repo.AgentDescriptor, repo.ScanAgent, repo.NewAgent),
		screen(deps, repo.DriverDescriptor, repo.ScanDriver, repo.NewDriver),
		screen(deps, repo.OwnerDescriptor, repo.ScanOwner, repo.NewOwner),
		screen[repo.Company](deps, repo.CompanyDescriptor, repo.ScanCompany, nil),
		screen[repo.Division](deps, repo.DivisionDescriptor, repo.ScanDivision, nil),
		screen[repo.Department](deps, repo.DepartmentDescriptor, repo.ScanDepartment, nil),
		screen(deps, repo.TeamDescriptor, repo.ScanTeam, repo.NewTeam),
		screen[repo.User](deps, repo.UserDescriptor, repo.ScanUser, nil),
	}
}

func screen[T repo.Record[T]](deps Deps, desc repo.Descriptor, scan func(sproc.Row) T, defaults func() T) *Maintenance[T] {
	cfg := service.Config[T]{
		Repository: repo.NewTable(desc, deps.Gateways, scan),
		Defaults:   defaults,
		Validator:  deps.Validator,
		Logger:     deps.Logger,
	}
	if desc.HasJunctions {
		cfg.Junctions = repo.NewJunctions(desc, deps.Gateways)
	}
	return New[T](service.New(cfg), deps.Flashes, deps.Logger)
}
