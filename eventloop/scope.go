package eventloop

// A Scope is a node in the tree of dynamic extents. Every continuation the
// loop runs is bound to a scope; continuations scheduled while a scope is
// current inherit that scope. A scope can tag its extent with an opaque owner
// key and can install an Interceptor that wraps every resumption inside the
// extent.
type Scope struct {
	parent      *Scope
	owner       any
	interceptor Interceptor
}

// Fork creates a child scope. Either argument may be nil: a nil owner makes
// the child report its nearest ancestor's owner, a nil interceptor adds no
// wrapping at this level.
func (s *Scope) Fork(owner any, interceptor Interceptor) *Scope {
	return &Scope{
		parent:      s,
		owner:       owner,
		interceptor: interceptor,
	}
}

// Owner returns the owner key of the nearest enclosing scope that set one,
// or nil if the chain up to the root is untagged.
func (s *Scope) Owner() any {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.owner != nil {
			return cur.owner
		}
	}

	return nil
}

// Parent returns the scope this scope was forked from, or nil for the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}
