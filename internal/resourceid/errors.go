package resourceid

import "errors"

var (
	// ErrInvalidSyntax indicates a resource ID string that the grammar cannot parse.
	ErrInvalidSyntax = errors.New("invalid resource ID syntax")

	// ErrInvalidCoordinates indicates coordinates missing a field required by their family.
	ErrInvalidCoordinates = errors.New("invalid resource coordinates")
)
