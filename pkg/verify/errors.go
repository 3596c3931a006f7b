package verify

import (
	"fmt"

	"go.llib.dev/frameless/pkg/errorkit"
)

const (
	ErrFieldNotFound    errorkit.Error = "field not found"
	ErrUnknownFieldKind errorkit.Error = "unknown field kind"
	ErrUnexpectedShape  errorkit.Error = "unexpected field shape"
)

// MismatchError reports that the persisted state of a field doesn't match the expectation.
// For multi-valued relations, Expected is the missing identifier and Actual is the relation's current members.
type MismatchError struct {
	Field    string
	Expected any
	Actual   any
}

func (err MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %#v, got %#v", err.Field, err.Expected, err.Actual)
}
