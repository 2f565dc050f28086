package eventloop

import "sync"

type deferredState int

const (
	deferredPending deferredState = iota
	deferredResolved
	deferredRejected
)

type deferredCallback struct {
	scope    *Scope
	resolved func(any)
	settled  func(any, error)
}

// A Deferred is a loop-bound placeholder for a value that is not ready yet.
// It is settled exactly once, with Resolve or Reject, possibly from another
// goroutine. Callbacks run as continuations on the loop, in registration
// order, each bound to the scope that was current when it was registered.
type Deferred struct {
	loop *Loop

	mu        sync.Mutex
	state     deferredState
	value     any
	err       error
	callbacks []deferredCallback
}

// NewDeferred creates a pending Deferred bound to loop.
func NewDeferred(loop *Loop) *Deferred {
	return &Deferred{loop: loop}
}

// Loop returns the loop the Deferred is bound to.
func (d *Deferred) Loop() *Loop {
	return d.loop
}

// IsSettled reports whether the Deferred has been resolved or rejected.
func (d *Deferred) IsSettled() bool {
	d.mu.Lock()
	settled := d.state != deferredPending
	d.mu.Unlock()

	return settled
}

// Resolve settles the Deferred with a value. Settling twice is a bug in the
// caller and panics.
func (d *Deferred) Resolve(value any) {
	d.settle(deferredResolved, value, nil)
}

// Reject settles the Deferred with a non-nil error. Settling twice is a bug
// in the caller and panics.
func (d *Deferred) Reject(err error) {
	if err == nil {
		panic("eventloop: reject with nil error")
	}

	d.settle(deferredRejected, nil, err)
}

func (d *Deferred) settle(state deferredState, value any, err error) {
	d.mu.Lock()
	if d.state != deferredPending {
		d.mu.Unlock()
		panic("eventloop: deferred already settled")
	}

	d.state = state
	d.value = value
	d.err = err
	callbacks := d.callbacks
	d.callbacks = nil
	d.mu.Unlock()

	for _, cb := range callbacks {
		d.dispatch(cb)
	}
}

// OnResolved registers fn to run with the value if the Deferred resolves. A
// rejection never invokes fn.
func (d *Deferred) OnResolved(fn func(value any)) {
	d.register(deferredCallback{
		scope:    d.loop.CurrentScope(),
		resolved: fn,
	})
}

// OnSettled registers fn to run with the outcome, whichever way the Deferred
// settles. Exactly one of value and err is meaningful.
func (d *Deferred) OnSettled(fn func(value any, err error)) {
	d.register(deferredCallback{
		scope:   d.loop.CurrentScope(),
		settled: fn,
	})
}

func (d *Deferred) register(cb deferredCallback) {
	d.mu.Lock()
	if d.state == deferredPending {
		d.callbacks = append(d.callbacks, cb)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	d.dispatch(cb)
}

func (d *Deferred) dispatch(cb deferredCallback) {
	switch {
	case cb.settled != nil:
		d.loop.enqueue(continuation{
			scope: cb.scope,
			pos:   InvokePosSettled,
			fn:    func() { cb.settled(d.value, d.err) },
		})
	case cb.resolved != nil && d.state == deferredResolved:
		d.loop.enqueue(continuation{
			scope: cb.scope,
			pos:   InvokePosResolved,
			fn:    func() { cb.resolved(d.value) },
		})
	}
}
