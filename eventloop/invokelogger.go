package eventloop

import "log"

// An InvokeLogger is an Interceptor that writes one line per resumption that
// passes through the scope it is installed on.
type InvokeLogger struct {
	*log.Logger
}

// NewInvokeLogger returns an InvokeLogger that writes to logger.
func NewInvokeLogger(logger *log.Logger) *InvokeLogger {
	l := new(InvokeLogger)
	l.Logger = logger

	return l
}

// Intercept logs the resumption shape and the owner of the extent it runs
// in, then runs it.
func (l *InvokeLogger) Intercept(ctx InvokeCtx, run func()) {
	if owner := ctx.Scope.Owner(); owner != nil {
		l.Printf("%s, owner %T", ctx.Pos.Name, owner)
	} else {
		l.Printf("%s", ctx.Pos.Name)
	}

	run()
}
