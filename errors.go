package structus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/structus/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeDuplicateMember   = "duplicate_member"
	CodeUnknownMember     = "unknown_member"
	CodeIndexOutOfRange   = "index_out_of_range"
	CodeInvalidOption     = "invalid_option"
	CodeInvalidArgument   = "invalid_argument"
	CodeInvalidOnWrite    = "invalid_on_write"
	CodeInvalidOnRead     = "invalid_on_read"
	CodeUnmanageableValue = "unmanageable_value"
	CodeFrozen            = "frozen"
	CodeLockedMember      = "locked_member"
	CodeClosedType        = "closed_type"
)

// Sentinels for errors.Is. An Issues error matches a sentinel when any of its
// entries carries the corresponding code.
var (
	ErrDuplicateMember   = errors.New("structus: duplicate member")
	ErrUnknownMember     = errors.New("structus: unknown member")
	ErrIndexOutOfRange   = errors.New("structus: index out of range")
	ErrInvalidOption     = errors.New("structus: invalid option")
	ErrInvalidArgument   = errors.New("structus: invalid argument")
	ErrInvalidOnWrite    = errors.New("structus: invalid on write")
	ErrInvalidOnRead     = errors.New("structus: invalid on read")
	ErrUnmanageableValue = errors.New("structus: unmanageable value")
	ErrFrozen            = errors.New("structus: frozen")
	ErrLockedMember      = errors.New("structus: locked member")
	ErrClosedType        = errors.New("structus: closed type")
)

var sentinels = map[string]error{
	CodeDuplicateMember:   ErrDuplicateMember,
	CodeUnknownMember:     ErrUnknownMember,
	CodeIndexOutOfRange:   ErrIndexOutOfRange,
	CodeInvalidOption:     ErrInvalidOption,
	CodeInvalidArgument:   ErrInvalidArgument,
	CodeInvalidOnWrite:    ErrInvalidOnWrite,
	CodeInvalidOnRead:     ErrInvalidOnRead,
	CodeUnmanageableValue: ErrUnmanageableValue,
	CodeFrozen:            ErrFrozen,
	CodeLockedMember:      ErrLockedMember,
	CodeClosedType:        ErrClosedType,
}

// Issue represents a single failed operation on a schema or an instance.
type Issue struct {
	Path    string // Type-qualified member path (for example: Bank.account).
	Code    string // One of the codes listed above.
	Message string
	Member  string // Member name as requested by the caller (may be an alias).
	Value   any    // Offending value, when there is one.
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_on_write at Sth.foo: value is deficient ...
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
		if it.Cause != nil {
			fmt.Fprintf(b, " (%v)", it.Cause)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue carries the code behind target.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if s, ok := sentinels[it.Code]; ok && s == target {
			return true
		}
	}
	return false
}

// Unwrap exposes the underlying causes so errors.Is/As can reach them.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// issueFor builds a single-entry Issues for the given schema/member with a
// translated message.
func issueFor(s *Schema, member, code string, value any, cause error) Issues {
	typ := s.displayName()
	path := typ
	if member != "" {
		path = typ + "." + member
	}
	data := map[string]string{"member": member, "type": typ}
	if code == CodeIndexOutOfRange {
		data["index"] = fmt.Sprint(value)
	}
	return Issues{{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, data),
		Member:  member,
		Value:   value,
		Cause:   cause,
	}}
}
