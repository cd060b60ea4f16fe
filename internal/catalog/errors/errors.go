package errors

// Package errors provides sentinel errors for content catalog operations.
// Catalog methods wrap them in classified errors; match with errors.Is.

import "errors"

var (
	// ErrDuplicateResource indicates two files map to the same coordinate tuple.
	ErrDuplicateResource = errors.New("duplicate resource")

	// ErrDuplicateComponentVersion indicates a component version was registered twice.
	ErrDuplicateComponentVersion = errors.New("duplicate component version")

	// ErrMissingComponentName indicates a component version registration without a name.
	ErrMissingComponentName = errors.New("component name is required")

	// ErrMissingComponentVersion indicates a component version registration without a version.
	ErrMissingComponentVersion = errors.New("component version is required")

	// ErrStartPageNotFound indicates an explicit start page does not resolve to a page.
	ErrStartPageNotFound = errors.New("start page not found")

	// ErrUnknownAliasComponent indicates an alias names an unknown component without a version.
	ErrUnknownAliasComponent = errors.New("alias refers to unknown component")

	// ErrSelfReferencingAlias indicates an alias resolves to its own target.
	ErrSelfReferencingAlias = errors.New("alias refers to its own target")

	// ErrAliasConflict indicates an alias collides with an existing page.
	ErrAliasConflict = errors.New("alias collides with existing page")

	// ErrDuplicateAlias indicates an alias was already registered.
	ErrDuplicateAlias = errors.New("duplicate alias")

	// ErrCatalogFrozen indicates a mutation was attempted after the catalog was frozen.
	ErrCatalogFrozen = errors.New("catalog is frozen")
)
