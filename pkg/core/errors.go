package core

import "errors"

// Common errors.
var (
	// ErrUnknownProperty signals a name that is not declared in the schema.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrDuplicateName signals a malformed schema definition with two fields
	// sharing a name. Fatal to that definition.
	ErrDuplicateName = errors.New("duplicate property name")

	// ErrTypeMismatch signals a value whose runtime kind disagrees with the
	// kind declared for the property. Recoverable by the caller.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrClosed signals a write against a model that has been closed.
	ErrClosed = errors.New("model is closed")
)
