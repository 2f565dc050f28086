package eventloop

// An Outcome is the result shape of an action run on the loop: either a value
// that is ready immediately or a Deferred that will carry it once settled.
type Outcome struct {
	value    any
	deferred *Deferred
}

// Immediate wraps a value that is ready now.
func Immediate(value any) Outcome {
	return Outcome{value: value}
}

// Pending wraps a Deferred that will settle later.
func Pending(d *Deferred) Outcome {
	if d == nil {
		panic("eventloop: pending outcome with nil deferred")
	}

	return Outcome{deferred: d}
}

// IsPending reports whether the outcome carries a Deferred.
func (o Outcome) IsPending() bool {
	return o.deferred != nil
}

// Value returns the immediate value. It panics on a pending outcome.
func (o Outcome) Value() any {
	if o.deferred != nil {
		panic("eventloop: value of pending outcome")
	}

	return o.value
}

// Deferred returns the pending Deferred. It panics on an immediate outcome.
func (o Outcome) Deferred() *Deferred {
	if o.deferred == nil {
		panic("eventloop: deferred of immediate outcome")
	}

	return o.deferred
}
