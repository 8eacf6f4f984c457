package catalog

import (
	"errors"
)

// NotFoundError reports that an id or natural key did not resolve to a live
// entity. Kind names the entity kind so callers can surface "menu not found"
// vs "dish not found" distinctly, including the parent kind on creates.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found"
}

// NewNotFound creates a NotFoundError for the given entity kind.
func NewNotFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
