package eventloop

// InvokePos defines the enum of possible resumption shapes.
type InvokePos struct {
	Name string
}

// InvokePosDirect marks a synchronous invocation through RunInScope.
var InvokePosDirect = &InvokePos{Name: "Direct"}

// InvokePosSubmit marks a continuation queued through Submit.
var InvokePosSubmit = &InvokePos{Name: "Submit"}

// InvokePosResolved marks a single-argument callback attached with
// OnResolved.
var InvokePosResolved = &InvokePos{Name: "Resolved"}

// InvokePosSettled marks a two-argument callback attached with OnSettled.
var InvokePosSettled = &InvokePos{Name: "Settled"}

// InvokePosTimer marks a continuation scheduled with After.
var InvokePosTimer = &InvokePos{Name: "Timer"}

// InvokeCtx holds the information about the resumption an interceptor is
// wrapping.
type InvokeCtx struct {
	// Loop is the loop dispatching the resumption.
	Loop *Loop

	// Scope is the scope the continuation is bound to.
	Scope *Scope

	// Pos identifies the shape of the resumption.
	Pos *InvokePos
}

// An Interceptor wraps the resumptions that happen inside a scope it is
// installed on. Intercept must call run exactly once; everything it does
// before and after is attributed to the interceptor's own bookkeeping.
type Interceptor interface {
	Intercept(ctx InvokeCtx, run func())
}
