package analytics

import "errors"

// ErrNilEvent indicates a nil event payload was provided to an emitter.
var ErrNilEvent = errors.New("nil analytics event")
