package domain

// Set is an unordered collection of unique domain tokens.
type Set map[string]struct{}

func NewSet(domains ...string) Set {
	s := make(Set, len(domains))
	for _, d := range domains {
		s[d] = struct{}{}
	}
	return s
}

func (s Set) Add(d string) {
	s[d] = struct{}{}
}

func (s Set) Remove(d string) {
	delete(s, d)
}

func (s Set) Has(d string) bool {
	_, ok := s[d]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for d := range s {
		out[d] = struct{}{}
	}
	return out
}

// Union adds every member of other to s.
func (s Set) Union(other Set) {
	for d := range other {
		s[d] = struct{}{}
	}
}

// Subtract removes every member of other from s (exact matches only).
func (s Set) Subtract(other Set) {
	for d := range other {
		delete(s, d)
	}
}
