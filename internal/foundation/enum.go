// Package foundation provides generic helpers shared by the domain packages.
package foundation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidValue is returned for spellings outside an Enum.
var ErrInvalidValue = errors.New("invalid value")

// Enum parses configured strings onto a closed set of string-typed values.
// Matching ignores case and surrounding space.
type Enum[T ~string] struct {
	name     string
	fallback T
	accepted map[string]T
}

// NewEnum builds an Enum accepting each value's own spelling. Empty input
// parses to fallback.
func NewEnum[T ~string](name string, fallback T, values ...T) *Enum[T] {
	e := &Enum[T]{name: name, fallback: fallback, accepted: make(map[string]T, len(values))}
	for _, v := range values {
		e.accepted[fold(string(v))] = v
	}
	return e
}

// Alias accepts an extra spelling for v.
func (e *Enum[T]) Alias(spelling string, v T) *Enum[T] {
	e.accepted[fold(spelling)] = v
	return e
}

func (e *Enum[T]) Parse(raw string) (T, error) {
	key := fold(raw)
	if key == "" {
		return e.fallback, nil
	}
	if v, ok := e.accepted[key]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q (valid: %s)", ErrInvalidValue, e.name, raw, strings.Join(e.Spellings(), ", "))
}

// Spellings returns the accepted spellings in sorted order.
func (e *Enum[T]) Spellings() []string {
	out := make([]string, 0, len(e.accepted))
	for k := range e.accepted {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
