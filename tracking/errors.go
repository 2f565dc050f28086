package tracking

import "errors"

// ErrInvalidState reports an operation applied outside the lifecycle order
// that allows it, such as tracking twice, stopping before starting, or
// reading a span that is not finished. Concrete failures wrap this sentinel;
// check with errors.Is.
var ErrInvalidState = errors.New("invalid state")

// ErrUnsupported reports an operation a tracker variant never provides, such
// as reading timing data off a no-op tracker.
var ErrUnsupported = errors.New("unsupported")
