package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Space is the resolved tenant for a request: which company database the
// stored procedures run against.
type Space struct {
	TenantID    uuid.UUID
	Slug        string
	DisplayName string
	Database    string
}

type ctxKey string

const spaceKey ctxKey = "BACKOFFICE_TENANT_SPACE"

// WithSpace returns a derived context carrying the tenant Space.
func WithSpace(ctx context.Context, space Space) context.Context {
	return context.WithValue(ctx, spaceKey, space)
}

// FromContext extracts the tenant Space and a boolean indicating presence.
func FromContext(ctx context.Context) (Space, bool) {
	if ctx == nil {
		return Space{}, false
	}
	space, ok := ctx.Value(spaceKey).(Space)
	return space, ok
}
