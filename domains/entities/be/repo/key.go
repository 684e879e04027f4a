package repo

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// KeyKind tells how an entity is identified.
type KeyKind int

const (
	// SurrogateKey entities are keyed by an integer handed out by spGetNextKey.
	SurrogateKey KeyKind = iota
	// BusinessKey entities are keyed by one or more user-entered codes.
	BusinessKey
)

// ErrInvalidKey is returned when raw input cannot be read as an entity key.
var ErrInvalidKey = errors.New("invalid entity key")

// Key identifies one entity row. Surrogate keys use ID, business keys use Parts.
type Key struct {
	ID    int64
	Parts []string
}

func SurrogateID(id int64) Key {
	return Key{ID: id}
}

func BusinessID(parts ...string) Key {
	return Key{Parts: parts}
}

// IsZero reports whether the key is unassigned. A business key with any blank
// part counts as unassigned.
func (k Key) IsZero() bool {
	if len(k.Parts) == 0 {
		return k.ID == 0
	}
	for _, part := range k.Parts {
		if strings.TrimSpace(part) == "" {
			return true
		}
	}
	return false
}

// String renders the key the way it appears in URLs: composite parts joined by "/".
func (k Key) String() string {
	if len(k.Parts) == 0 {
		return strconv.FormatInt(k.ID, 10)
	}
	return strings.Join(k.Parts, "/")
}

// Path renders the key as URL path segments, each part escaped on its own.
func (k Key) Path() string {
	if len(k.Parts) == 0 {
		return strconv.FormatInt(k.ID, 10)
	}
	parts := make([]string, len(k.Parts))
	for i, part := range k.Parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// Params returns the key as leading stored procedure parameters.
func (k Key) Params() []any {
	if len(k.Parts) == 0 {
		return []any{k.ID}
	}
	params := make([]any, len(k.Parts))
	for i, part := range k.Parts {
		params[i] = part
	}
	return params
}

// ParseKey reads raw search or URL input as a key of desc's shape.
func ParseKey(desc Descriptor, raw string) (Key, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "/")
	if raw == "" {
		return Key{}, ErrInvalidKey
	}

	if desc.KeyKind == SurrogateKey {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return Key{}, fmt.Errorf("%w: %q is not a %s key", ErrInvalidKey, raw, desc.Name)
		}
		return SurrogateID(id), nil
	}

	return businessKey(desc, strings.Split(raw, "/"))
}

// ParsePathKey reads the key segments of a load URL. When escaped is set the
// segments are still percent-encoded, as written by Key.Path.
func ParsePathKey(desc Descriptor, tail string, escaped bool) (Key, error) {
	if !escaped || desc.KeyKind == SurrogateKey {
		return ParseKey(desc, tail)
	}
	parts := strings.Split(strings.Trim(tail, "/"), "/")
	for i, part := range parts {
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return Key{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		parts[i] = decoded
	}
	return businessKey(desc, parts)
}

func businessKey(desc Descriptor, parts []string) (Key, error) {
	if len(parts) != len(desc.KeyColumns) {
		return Key{}, fmt.Errorf("%w: %s keys have %d parts", ErrInvalidKey, desc.Name, len(desc.KeyColumns))
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
		if parts[i] == "" {
			return Key{}, fmt.Errorf("%w: blank %s", ErrInvalidKey, desc.KeyColumns[i])
		}
	}
	return BusinessID(parts...), nil
}
