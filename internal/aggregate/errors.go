package aggregate

import "errors"

var (
	// ErrDescriptorNotFound indicates a source has no component descriptor at its start path.
	ErrDescriptorNotFound = errors.New("component descriptor not found")

	// ErrInvalidDescriptor indicates a component descriptor lacks a name or version or does not parse.
	ErrInvalidDescriptor = errors.New("invalid component descriptor")
)
