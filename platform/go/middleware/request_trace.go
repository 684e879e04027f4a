package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/haulage-backoffice/platform/go/auth"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/requesttrace"
)

// RequestTrace populates the context with the acting user so services can stamp the editing user.
// It must run after the session gate has loaded the identity.
func RequestTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		audit := requesttrace.Anonymous(requestID)
		if id, ok := platformauth.FromContext(r.Context()); ok {
			traced, err := requesttrace.FromIdentity(id, requestID)
			if err != nil {
				platformlogging.Or(r.Context(), nil).Error("build audit info from identity", zap.Error(err))
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			audit = traced
		}

		ctx := requesttrace.IntoContext(r.Context(), audit)
		ctx = platformlogging.Enrich(ctx, zap.String("actor_kind", string(audit.ActorKind)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
