package tenant

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidSlug is returned for slugs outside [a-z0-9-].
	ErrInvalidSlug = errors.New("invalid tenant slug")
	// ErrInvalidDatabase is returned for database names that are not plain identifiers.
	ErrInvalidDatabase = errors.New("invalid tenant database name")
)

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	databasePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,127}$`)
)

// NormalizeSlug lowercases and trims slug, then validates it.
func NormalizeSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return "", ErrInvalidSlug
	}
	return slug, nil
}

// ValidateDatabase checks a SQL Server database name before it is placed in a
// connection string.
func ValidateDatabase(name string) error {
	if !databasePattern.MatchString(name) {
		return ErrInvalidDatabase
	}
	return nil
}

// DisplayNameOr returns name, or the slug in title form when name is blank.
func DisplayNameOr(name, slug string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
