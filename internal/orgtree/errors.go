package orgtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors returned (wrapped) by tree operations. Callers match them
// with errors.Is. A failed operation never changes the tree.
var (
	ErrNotFound         = errors.New("node not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidFields    = errors.New("invalid node fields")
	ErrInvalidSeed      = errors.New("invalid seed chart")
	ErrDuplicateID      = errors.New("duplicate node id")
	ErrInconsistent     = errors.New("inconsistent chart")
)

// fieldError turns a validator failure into an ErrInvalidFields error that
// names the offending field. field overrides the name validator reports,
// which is empty for Var checks.
func fieldError(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidFields, field, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = strings.ToLower(fe.Field())
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, name+" cannot be empty")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", name, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q check", name, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidFields, strings.Join(msgs, "; "))
}
