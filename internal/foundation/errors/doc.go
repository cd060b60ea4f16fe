// Package errors classifies docatlas failures.
//
// Every error that reaches the command line carries an ErrorCategory that
// picks the exit code, a severity, and context naming the coordinate, key,
// spec string or path involved. Domain packages keep their sentinel errors
// as causes, so errors.Is keeps working through the classification:
//
//	err := errors.DuplicateError("page registered twice").
//		WithKey(coords.Key()).
//		WithPath(f.Path).
//		Build()
package errors
