package enums

import (
	"fmt"
	"slices"
)

// closedSet is the ordered list of accepted values for a string enum.
// Matching is exact; wire tags are case sensitive.
type closedSet[T ~string] []T

func (s closedSet[T]) has(v T) bool {
	return slices.Contains(s, v)
}

func (s closedSet[T]) parse(kind, raw string) (T, error) {
	if v := T(raw); s.has(v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, raw)
}

// edges maps a state to the states reachable from it in one step.
type edges[T ~string] map[T]closedSet[T]

func (e edges[T]) allows(from, to T) bool {
	return e[from].has(to)
}

func (e edges[T]) terminal(s T) bool {
	return len(e[s]) == 0
}
