// Package requesttrace carries who is acting on a request so services can
// stamp the editing user on every stored-procedure write.
package requesttrace

import (
	"context"
	"errors"

	platformauth "github.com/zenGate-Global/haulage-backoffice/platform/go/auth"
)

type contextKey string

const (
	ctxAuditInfo contextKey = "BACKOFFICE_REQUEST_TRACE"
)

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindUser      ActorKind = "user"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// SystemUserID is stamped on writes made by the CLI.
const SystemUserID = "SYSTEM"

// AuditInfo is the request-scoped actor. UserID and Tenant are empty for
// anonymous requests.
type AuditInfo struct {
	ActorKind ActorKind
	UserID    string
	Tenant    string
	RequestID string
}

// IntoContext stores the AuditInfo in the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, ctxAuditInfo, audit)
}

// FromContext extracts the AuditInfo from context, returning false when not present.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	audit, ok := ctx.Value(ctxAuditInfo).(AuditInfo)
	return audit, ok
}

// FromContextOrAnonymous returns the AuditInfo stored on the context, or an anonymous record when absent.
func FromContextOrAnonymous(ctx context.Context) AuditInfo {
	if audit, ok := FromContext(ctx); ok {
		return audit
	}
	return Anonymous("")
}

// FromIdentity builds an AuditInfo for a signed-in user.
func FromIdentity(id platformauth.Identity, requestID string) (AuditInfo, error) {
	if !id.IsLoggedIn() {
		return AuditInfo{}, errors.New("user id is required to build audit info")
	}
	return AuditInfo{
		ActorKind: ActorKindUser,
		UserID:    id.UserID,
		Tenant:    id.Tenant,
		RequestID: requestID,
	}, nil
}

// Anonymous builds an AuditInfo for requests made before login.
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindAnonymous, RequestID: requestID}
}

// System builds an AuditInfo for CLI and background operations.
func System(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindSystem, UserID: SystemUserID, RequestID: requestID}
}
