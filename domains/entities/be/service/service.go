// Package service implements the maintenance workflow shared by every entity
// screen: search, load, save with validation, create-new and the address,
// contact and comment satellites.
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
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/validation"
)

// FieldErrors maps form fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when a record fails validation or a business rule.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Messages returns every message ordered by field name.
func (v *ValidationError) Messages() []string {
	fields := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, v.Fields[field]...)
	}
	return out
}

// Domain sentinel errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrEmptySearch = errors.New("search term is required")
	ErrUnsupported = errors.New("operation not supported")
)

// SaveResult reports the key a record was saved under.
type SaveResult struct {
	Key      repo.Key
	Inserted bool
}

// Junctions is the satellite record store of entities with address, contact
// and comment links.
type Junctions interface {
	GetAddress(ctx context.Context, key repo.Key) (repo.Address, error)
	SaveAddress(ctx context.Context, key repo.Key, address repo.Address) (repo.Address, error)
	CreateBlankAddress(ctx context.Context, key repo.Key) (repo.Address, error)
	GetContacts(ctx context.Context, key repo.Key) ([]repo.Contact, error)
	SaveContact(ctx context.Context, key repo.Key, contact repo.Contact) (repo.Contact, error)
	DeleteContact(ctx context.Context, key repo.Key, contactKey int64) error
	GetComments(ctx context.Context, key repo.Key) ([]repo.Comment, error)
	SaveComment(ctx context.Context, key repo.Key, comment repo.Comment) (repo.Comment, error)
	DeleteComment(ctx context.Context, key repo.Key, commentKey int64) error
}

// Service is the maintenance contract the HTTP handler drives.
type Service[T repo.Record[T]] interface {
	Descriptor() repo.Descriptor
	Template() T
	Get(ctx context.Context, key repo.Key) (T, error)
	Search(ctx context.Context, input string) (T, error)
	Autocomplete(ctx context.Context, term string, includeInactive bool) ([]repo.Suggestion, error)
	CreateNew(ctx context.Context, userID string) (repo.Key, error)
	Save(ctx context.Context, record T, userID string) (SaveResult, error)
	Delete(ctx context.Context, key repo.Key) error

	GetAddress(ctx context.Context, key repo.Key) (repo.Address, error)
	SaveAddress(ctx context.Context, key repo.Key, address repo.Address) (repo.Address, error)
	GetContacts(ctx context.Context, key repo.Key) ([]repo.Contact, error)
	SaveContact(ctx context.Context, key repo.Key, contact repo.Contact) (repo.Contact, error)
	DeleteContact(ctx context.Context, key repo.Key, contactKey int64) error
	GetComments(ctx context.Context, key repo.Key) ([]repo.Comment, error)
	SaveComment(ctx context.Context, key repo.Key, comment repo.Comment, userID string) (repo.Comment, error)
	DeleteComment(ctx context.Context, key repo.Key, commentKey int64) error
}

// Config wires one entity's maintenance service.
type Config[T repo.Record[T]] struct {
	Repository repo.Repository[T]
	// Junctions is nil for entities without satellites.
	Junctions Junctions
	// Defaults builds the record create-new saves. Nil disables create-new.
	Defaults  func() T
	Validator *validation.Validator
	Logger    *zap.Logger
}

// Maintenance implements Service for one entity type.
type Maintenance[T repo.Record[T]] struct {
	desc      repo.Descriptor
	repo      repo.Repository[T]
	junctions Junctions
	defaults  func() T
	validator *validation.Validator
	logger    *zap.Logger
}

// New constructs a maintenance service from cfg.
func New[T repo.Record[T]](cfg Config[T]) *Maintenance[T] {
	if cfg.Repository == nil {
		panic("entity repository is required")
	}
	desc := cfg.Repository.Descriptor()
	if desc.HasJunctions && cfg.Junctions == nil {
		panic(desc.Name + " junctions are required")
	}
	if cfg.Validator == nil {
		cfg.Validator = validation.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Maintenance[T]{
		desc:      desc,
		repo:      cfg.Repository,
		junctions: cfg.Junctions,
		defaults:  cfg.Defaults,
		validator: cfg.Validator,
		logger:    cfg.Logger,
	}
}

func (s *Maintenance[T]) Descriptor() repo.Descriptor {
	return s.desc
}

// Template is the blank record shown for ?new=1.
func (s *Maintenance[T]) Template() T {
	if s.defaults != nil {
		return s.defaults()
	}
	var blank T
	return blank
}

func (s *Maintenance[T]) Get(ctx context.Context, key repo.Key) (T, error) {
	record, err := s.repo.Get(ctx, key)
	return record, mapRepoError(err)
}

// Search looks input up as a key first. Surrogate-key entities stop there;
// business-key entities fall back to a name search on a miss.
func (s *Maintenance[T]) Search(ctx context.Context, input string) (T, error) {
	var zero T
	input = strings.TrimSpace(input)
	if input == "" {
		return zero, ErrEmptySearch
	}

	if key, err := repo.ParseKey(s.desc, input); err == nil {
		record, err := s.repo.Get(ctx, key)
		if err == nil || s.desc.KeyKind == repo.SurrogateKey || !errors.Is(err, repo.ErrNotFound) {
			return record, mapRepoError(err)
		}
	}

	record, err := s.repo.SearchByName(ctx, input)
	return record, mapRepoError(err)
}

func (s *Maintenance[T]) Autocomplete(ctx context.Context, term string, includeInactive bool) ([]repo.Suggestion, error) {
	return s.repo.SearchForAutocomplete(ctx, term, includeInactive)
}

// CreateNew saves the default record to obtain a real key straight away, then
// gives junction entities a blank linked address.
func (s *Maintenance[T]) CreateNew(ctx context.Context, userID string) (repo.Key, error) {
	if s.defaults == nil || s.desc.KeyKind != repo.SurrogateKey {
		return repo.Key{}, ErrUnsupported
	}

	result, err := s.Save(ctx, s.defaults(), userID)
	if err != nil {
		return repo.Key{}, err
	}

	if s.junctions != nil {
		if _, err := s.junctions.CreateBlankAddress(ctx, result.Key); err != nil {
			// The entity exists; saving an address or contact later links a new one.
			platformlogging.Or(ctx, s.logger).Warn("blank address not created",
				zap.String("entity", s.desc.Name),
				zap.String("key", result.Key.String()),
				zap.Error(err),
			)
		}
	}
	return result.Key, nil
}

// Save validates record, applies the Active/End Date rule where the entity
// enforces it, and saves. Nothing reaches the database when validation fails.
func (s *Maintenance[T]) Save(ctx context.Context, record T, userID string) (SaveResult, error) {
	record = record.EditedBy(userID)

	fields := FieldErrors{}
	for field, messages := range s.validator.Struct(record) {
		for _, message := range messages {
			fields.add(field, message)
		}
	}
	s.checkLifecycle(record, fields)
	if len(fields) > 0 {
		return SaveResult{}, &ValidationError{Fields: fields}
	}

	inserted := s.desc.KeyKind == repo.SurrogateKey && record.EntityKey().IsZero()
	key, err := s.repo.Save(ctx, record)
	if err != nil {
		var statusErr *sproc.StatusError
		if errors.As(err, &statusErr) {
			platformlogging.Or(ctx, s.logger).Warn("save rejected",
				zap.String("entity", s.desc.Name),
				zap.String("procedure", statusErr.Procedure),
				zap.Int("status", statusErr.Code),
				zap.String("status_text", sproc.StatusText(statusErr.Code)),
			)
		}
		return SaveResult{}, mapRepoError(err)
	}

	return SaveResult{Key: key, Inserted: inserted}, nil
}

func (s *Maintenance[T]) Delete(ctx context.Context, key repo.Key) error {
	if !s.desc.Deletable {
		return ErrUnsupported
	}
	return mapRepoError(s.repo.Delete(ctx, key))
}

func (s *Maintenance[T]) GetAddress(ctx context.Context, key repo.Key) (repo.Address, error) {
	if s.junctions == nil {
		return repo.Address{}, ErrUnsupported
	}
	address, err := s.junctions.GetAddress(ctx, key)
	return address, mapRepoError(err)
}

func (s *Maintenance[T]) SaveAddress(ctx context.Context, key repo.Key, address repo.Address) (repo.Address, error) {
	if s.junctions == nil {
		return repo.Address{}, ErrUnsupported
	}
	if err := s.validate(address); err != nil {
		return repo.Address{}, err
	}
	saved, err := s.junctions.SaveAddress(ctx, key, address)
	return saved, mapRepoError(err)
}

func (s *Maintenance[T]) GetContacts(ctx context.Context, key repo.Key) ([]repo.Contact, error) {
	if s.junctions == nil {
		return []repo.Contact{}, ErrUnsupported
	}
	contacts, err := s.junctions.GetContacts(ctx, key)
	return contacts, mapRepoError(err)
}

func (s *Maintenance[T]) SaveContact(ctx context.Context, key repo.Key, contact repo.Contact) (repo.Contact, error) {
	if s.junctions == nil {
		return repo.Contact{}, ErrUnsupported
	}
	if err := s.validate(contact); err != nil {
		return repo.Contact{}, err
	}
	saved, err := s.junctions.SaveContact(ctx, key, contact)
	return saved, mapRepoError(err)
}

func (s *Maintenance[T]) DeleteContact(ctx context.Context, key repo.Key, contactKey int64) error {
	if s.junctions == nil {
		return ErrUnsupported
	}
	return mapRepoError(s.junctions.DeleteContact(ctx, key, contactKey))
}

func (s *Maintenance[T]) GetComments(ctx context.Context, key repo.Key) ([]repo.Comment, error) {
	if s.junctions == nil {
		return []repo.Comment{}, ErrUnsupported
	}
	comments, err := s.junctions.GetComments(ctx, key)
	return comments, mapRepoError(err)
}

func (s *Maintenance[T]) SaveComment(ctx context.Context, key repo.Key, comment repo.Comment, userID string) (repo.Comment, error) {
	if s.junctions == nil {
		return repo.Comment{}, ErrUnsupported
	}
	comment.Comment = strings.TrimSpace(comment.Comment)
	comment.UserID = userID
	if err := s.validate(comment); err != nil {
		return repo.Comment{}, err
	}
	saved, err := s.junctions.SaveComment(ctx, key, comment)
	return saved, mapRepoError(err)
}

func (s *Maintenance[T]) DeleteComment(ctx context.Context, key repo.Key, commentKey int64) error {
	if s.junctions == nil {
		return ErrUnsupported
	}
	return mapRepoError(s.junctions.DeleteComment(ctx, key, commentKey))
}

// checkLifecycle enforces that active records have no end date and inactive
// ones have one. Only Agent and Driver opt in.
func (s *Maintenance[T]) checkLifecycle(record T, fields FieldErrors) {
	if !s.desc.EnforceActiveEndDate {
		return
	}
	active, endDate := record.Lifecycle()
	switch {
	case active && endDate.IsSet():
		fields.add("end_date", fmt.Sprintf("Active %s cannot have an End Date.", s.desc.Plural))
	case !active && !endDate.IsSet():
		fields.add("end_date", fmt.Sprintf("Inactive %s must have an End Date.", s.desc.Plural))
	}
}

func (s *Maintenance[T]) validate(v any) error {
	fields := FieldErrors{}
	for field, messages := range s.validator.Struct(v) {
		for _, message := range messages {
			fields.add(field, message)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrUnsupported):
		return ErrUnsupported
	case errors.Is(err, repo.ErrInvalidKey):
		return &ValidationError{Fields: FieldErrors{"key": {"A key is required."}}}
	default:
		return err
	}
}

func (f FieldErrors) add(field, message string) {
	if f == nil {
		return
	}
	f[field] = append(f[field], message)
}
