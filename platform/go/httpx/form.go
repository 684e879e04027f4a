package httpx

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	d.RegisterConverter(false, convertFlag)
	return d
}

// convertFlag accepts the values checkboxes and legacy forms post for a bit.
func convertFlag(value string) reflect.Value {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "on", "y", "yes", "t", "true":
		return reflect.ValueOf(true)
	case "", "0", "off", "n", "no", "f", "false":
		return reflect.ValueOf(false)
	}
	return reflect.Value{}
}

// DecodeForm parses the request form into dst using `schema` tags. Fields that
// fail conversion are reported as field → message.
func DecodeForm(r *http.Request, dst any) (map[string][]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	err := decoder.Decode(dst, r.Form)
	if err == nil {
		return nil, nil
	}

	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return nil, err
	}

	fields := make(map[string][]string, len(multi))
	for key, fieldErr := range multi {
		var conv schema.ConversionError
		if errors.As(fieldErr, &conv) {
			fields[key] = append(fields[key], "Invalid value.")
			continue
		}
		return nil, fieldErr
	}
	return fields, nil
}
