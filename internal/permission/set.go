package permission

import "sort"

// Set is an immutable set of permissions.
type Set struct {
	m map[Permission]struct{}
}

// NewSet builds a set from the given permissions. Duplicates are collapsed.
func NewSet(perms ...Permission) Set {
	m := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		m[p] = struct{}{}
	}

	return Set{m: m}
}

// Has reports membership. The zero Set is empty.
func (s Set) Has(p Permission) bool {
	_, ok := s.m[p]
	return ok
}

// Len returns the number of permissions in the set.
func (s Set) Len() int {
	return len(s.m)
}

// Slice returns the members sorted.
func (s Set) Slice() []Permission {
	out := make([]Permission, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Strings returns the members as sorted plain strings.
func (s Set) Strings() []string {
	perms := s.Slice()

	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}

	return out
}

// FromStrings converts raw identifiers, as sent by the backend, to permissions.
func FromStrings(raw []string) []Permission {
	out := make([]Permission, len(raw))
	for i, r := range raw {
		out[i] = Permission(r)
	}

	return out
}
