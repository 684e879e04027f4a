package sproc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NoDate is the legacy schema's "unset" date. Columns never hold NULL for
// an empty date; they hold this value instead.
var NoDate = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const dateLayout = "2006-01-02"

var inputLayouts = []string{dateLayout, "01/02/2006", "1/2/2006", time.RFC3339}

// Date is a calendar date where the zero value means "unset".
type Date struct {
	time.Time
}

// NewDate truncates t to a calendar date. The sentinel maps to the zero Date.
func NewDate(t time.Time) Date {
	if IsUnsetDate(t) {
		return Date{}
	}
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts ISO and US-style form input. Blank input is an unset date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", raw)
}

// IsUnsetDate reports whether t is the zero time or the sentinel date.
func IsUnsetDate(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	y, m, d := t.Date()
	return y == 1899 && m == time.December && d == 30
}

func (d Date) IsSet() bool {
	return !d.Time.IsZero()
}

// Param is the value sent to a stored procedure: the sentinel when unset.
func (d Date) Param() any {
	if !d.IsSet() {
		return NoDate
	}
	return d.Time
}

func (d Date) String() string {
	if !d.IsSet() {
		return ""
	}
	return d.Time.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText lets form decoders fill a Date from raw input.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Bit converts a flag to the 0/1 value the legacy schema stores.
func Bit(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
