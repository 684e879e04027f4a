// Package contracts embeds the OpenAPI document of the authenticated
// back-office routes.
package contracts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed backoffice.yaml
var backoffice []byte

// Load parses and validates the embedded back-office contract.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(backoffice)
	if err != nil {
		return nil, fmt.Errorf("load backoffice contract: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate backoffice contract: %w", err)
	}
	return doc, nil
}
