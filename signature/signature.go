package signature

// NewSignature is a factory for a concrete Signature.
type NewSignature[T Signature] func() T

// Signature binds a message type to the host side of the exchange.
// The guest does not use it.
type Signature interface {
	RuntimeContext() RuntimeContext
}

// Context binds a message type to the guest side of the exchange.
// The host does not use it.
type Context interface {
	GuestContext() GuestContext
}

// RuntimeContext is the host side of one exchange.
type RuntimeContext interface {
	// Read decodes a buffer produced by the guest. An error payload is
	// returned as a protocol error and leaves the message unchanged.
	Read(b []byte) error
	// Write encodes the message as a success payload.
	Write() []byte
	// Error encodes err as an error payload.
	Error(err error) []byte
}

// GuestContext is the guest side of one exchange. The input buffer is
// passed in explicitly rather than read from shared memory.
type GuestContext interface {
	FromReadBuffer(b []byte) error
	ToWriteBuffer() []byte
	ErrorWriteBuffer(err error) []byte
}
