// Package sets holds a small generic set used for membership checks.
package sets

import "slices"

// Set is a hash set of comparable values. The zero value is not usable; call New.
type Set[T comparable] map[T]struct{}

func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	s.Add(vals...)
	return s
}

func (s Set[T]) Add(vals ...T) {
	for _, v := range vals {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// HasAny reports whether at least one of vals is a member.
func (s Set[T]) HasAny(vals ...T) bool {
	return slices.ContainsFunc(vals, s.Has)
}
