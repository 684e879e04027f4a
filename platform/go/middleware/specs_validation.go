package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"

	platformauth "github.com/zenGate-Global/haulage-backoffice/platform/go/auth"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/httpx"
)

// SessionSchemeName is the security scheme the back-office contract declares.
const SessionSchemeName = "sessionCookie"

var errNoSession = errors.New("no signed-in session")

// ValidateSessionViaContract satisfies operations that declare the session
// cookie scheme. RequireAuth runs first, so the identity is already on the
// request context.
func ValidateSessionViaContract(_ context.Context, input *openapi3filter.AuthenticationInput) error {
	if input == nil || input.SecuritySchemeName != SessionSchemeName {
		return nil
	}
	r := input.RequestValidationInput.Request
	if r == nil {
		return errNoSession
	}
	if id, ok := platformauth.FromContext(r.Context()); !ok || !id.IsLoggedIn() {
		return errNoSession
	}
	return nil
}

// ContractValidator rejects requests that do not match doc. Routes missing
// from the contract answer like a missing chi route; malformed requests get
// the JSON failure envelope.
func ContractValidator(doc *openapi3.T) func(http.Handler) http.Handler {
	if doc == nil {
		panic("contract document is required")
	}
	return oapimiddleware.OapiRequestValidatorWithOptions(doc, &oapimiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: ValidateSessionViaContract,
		},
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			if statusCode == http.StatusNotFound {
				http.Error(w, "404 page not found", http.StatusNotFound)
				return
			}
			httpx.WriteJSON(w, statusCode, httpx.Fail(message))
		},
	})
}
