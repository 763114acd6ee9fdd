package udpmsg

import "errors"

// ErrNotFound is returned when no message of the requested type is queued.
// A type that was never received and a queue that has been fully drained
// are indistinguishable.
var ErrNotFound = errors.New("udpmsg: no message available")

// SerializeError wraps a codec failure on the send path. Nothing has been
// transmitted when it is returned.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string { return "udpmsg: serialize: " + e.Err.Error() }

func (e *SerializeError) Unwrap() error { return e.Err }

// DeserializeError wraps a codec failure on the receive path. By the time
// it is returned from a destructive read, the raw message has already been
// consumed from its queue.
type DeserializeError struct {
	Err error
}

func (e *DeserializeError) Error() string { return "udpmsg: deserialize: " + e.Err.Error() }

func (e *DeserializeError) Unwrap() error { return e.Err }
