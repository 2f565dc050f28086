// Package eventloop provides a single-threaded cooperative scheduler. Work is
// expressed as continuations that run one after another in FIFO order, each
// bound to a Scope that can tag its dynamic extent and intercept every
// resumption inside it.
package eventloop

import (
	"sync"
	"time"
)

type continuation struct {
	scope *Scope
	pos   *InvokePos
	fn    func()
}

// A Loop runs continuations one after another on a single logical thread.
type Loop struct {
	mu          sync.Mutex
	cond        *sync.Cond
	queue       []continuation
	outstanding int

	root *Scope

	currentLock sync.RWMutex
	current     *Scope

	singleRunLock sync.Mutex
}

// NewLoop creates a Loop with an empty queue and a bare root scope.
func NewLoop() *Loop {
	l := &Loop{
		root: &Scope{},
	}
	l.cond = sync.NewCond(&l.mu)
	l.current = l.root

	return l
}

// RootScope returns the loop's bare root scope.
func (l *Loop) RootScope() *Scope {
	return l.root
}

// CurrentScope returns the scope of the continuation being dispatched, or the
// root scope when the loop is between continuations.
func (l *Loop) CurrentScope() *Scope {
	l.currentLock.RLock()
	s := l.current
	l.currentLock.RUnlock()

	return s
}

func (l *Loop) setCurrent(s *Scope) {
	l.currentLock.Lock()
	l.current = s
	l.currentLock.Unlock()
}

// Submit queues fn to run after all previously queued continuations. The
// continuation is bound to the current scope.
func (l *Loop) Submit(fn func()) {
	l.enqueue(continuation{
		scope: l.CurrentScope(),
		pos:   InvokePosSubmit,
		fn:    fn,
	})
}

// SubmitBare queues fn bound to the root scope, outside every tagged extent.
func (l *Loop) SubmitBare(fn func()) {
	l.enqueue(continuation{
		scope: l.root,
		pos:   InvokePosSubmit,
		fn:    fn,
	})
}

// After queues fn to run once d has elapsed. The continuation is bound to the
// scope current at the time of the call. Run does not return while the timer
// is pending.
func (l *Loop) After(d time.Duration, fn func()) {
	c := continuation{
		scope: l.CurrentScope(),
		pos:   InvokePosTimer,
		fn:    fn,
	}

	l.Hold()
	time.AfterFunc(d, func() {
		l.enqueue(c)
		l.Release()
	})
}

// Hold marks one unit of external work the loop must wait for. Run does not
// return while holds are outstanding, so a goroutine that settles a Deferred
// can keep the loop alive until it is done.
func (l *Loop) Hold() {
	l.mu.Lock()
	l.outstanding++
	l.mu.Unlock()
}

// Release drops a hold acquired with Hold.
func (l *Loop) Release() {
	l.mu.Lock()
	if l.outstanding == 0 {
		l.mu.Unlock()
		panic("eventloop: release without hold")
	}
	l.outstanding--
	l.cond.Signal()
	l.mu.Unlock()
}

func (l *Loop) enqueue(c continuation) {
	l.mu.Lock()
	l.queue = append(l.queue, c)
	l.cond.Signal()
	l.mu.Unlock()
}

// Run dispatches continuations until the queue is empty and no timer or hold
// is outstanding. Only one Run executes at a time.
func (l *Loop) Run() error {
	l.singleRunLock.Lock()
	defer l.singleRunLock.Unlock()

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && l.outstanding > 0 {
			l.cond.Wait()
		}

		if len(l.queue) == 0 {
			l.mu.Unlock()
			return nil
		}

		c := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.invoke(c)
	}
}

// RunInScope invokes fn synchronously inside scope, passing it through the
// interceptors on the scope chain exactly like a queued resumption. It is the
// entry point a tracked extent is first established through.
func (l *Loop) RunInScope(scope *Scope, fn func()) {
	l.invoke(continuation{
		scope: scope,
		pos:   InvokePosDirect,
		fn:    fn,
	})
}

func (l *Loop) invoke(c continuation) {
	prev := l.CurrentScope()
	l.setCurrent(c.scope)
	defer l.setCurrent(prev)

	run := c.fn
	ctx := InvokeCtx{Loop: l, Scope: c.scope, Pos: c.pos}

	// Wrap leaf to root so the outermost scope's interceptor observes the
	// whole resumption, inner interceptors included.
	for s := c.scope; s != nil; s = s.parent {
		if s.interceptor == nil {
			continue
		}

		interceptor := s.interceptor
		inner := run
		run = func() { interceptor.Intercept(ctx, inner) }
	}

	run()
}
