package genref

// Releaser is anything that owns arena storage, such as an Owner.
type Releaser interface {
	Release()
}

// Scope ties the lifetime of several owners to one enclosing scope, e.g. a
// UI component holding the state its callbacks reference.
//
//	s := genref.NewScope(arena)
//	defer s.Close()
//
//	count := genref.Scoped(s, 0)
//	label := genref.Scoped(s, "clicks")
type Scope struct {
	arena  *Arena
	owned  []Releaser
	closed bool
}

// NewScope creates an empty scope allocating from a.
func NewScope(a *Arena) *Scope {
	return &Scope{arena: a}
}

// Arena returns the arena the scope allocates from.
func (s *Scope) Arena() *Arena {
	return s.arena
}

// Track hands r over to the scope. Tracking on a closed scope releases r
// immediately.
func (s *Scope) Track(r Releaser) {
	if s.closed {
		r.Release()
		return
	}
	s.owned = append(s.owned, r)
}

// Len returns the number of tracked releasers.
func (s *Scope) Len() int {
	return len(s.owned)
}

// Close releases every tracked owner, most recently tracked first.
//
// An owner leaves the scope only once its Release returned. If one panics,
// for instance with *OwnerInUseError, it and every owner tracked before it
// stay in the scope, and a later Close resumes with them. Close is
// idempotent once it completed.
func (s *Scope) Close() {
	if s.closed {
		return
	}

	for len(s.owned) > 0 {
		last := len(s.owned) - 1
		s.owned[last].Release()
		s.owned[last] = nil
		s.owned = s.owned[:last]
	}
	s.closed = true
}

// Scoped stores value in the scope's arena, lets the scope own it and
// returns a reference to it. It panics like New on allocation failure.
func Scoped[T any](s *Scope, value T) Ref[T] {
	o := New(s.arena, value)
	s.Track(o)
	return o.Ref()
}
