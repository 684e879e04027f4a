package sproc

import (
	"fmt"
)

// Return codes shared with the stored procedures. Callers branch on the exact
// values, so they must stay in sync with the database.
const (
	SrvNormal        = 0
	SrvError         = 1
	SrvNotFound      = 2
	SrvInvalidParent = 3

	// StatusUnissued is reported when the status batch never reached the server
	// or returned no status row.
	StatusUnissued = -1
)

// StatusText returns the log-friendly meaning of a stored procedure return code.
func StatusText(code int) string {
	switch code {
	case SrvNormal:
		return "normal"
	case SrvError:
		return "generic failure"
	case SrvNotFound:
		return "not found"
	case SrvInvalidParent:
		return "invalid parent reference"
	case StatusUnissued:
		return "not issued"
	default:
		return fmt.Sprintf("unknown status %d", code)
	}
}

// StatusError reports a nonzero return code from a mutating procedure.
type StatusError struct {
	Procedure string
	Code      int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d (%s)", e.Procedure, e.Code, StatusText(e.Code))
}

// CheckStatus converts a return code into a *StatusError unless it is SrvNormal.
func CheckStatus(procedure string, code int) error {
	if code == SrvNormal {
		return nil
	}
	return &StatusError{Procedure: procedure, Code: code}
}
