package signature

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/schema"
)

// Message is any model that can write itself as a model frame.
type Message interface {
	Encode(e *codec.Encoder)
}

// DecodeFunc is a model's static decode function.
type DecodeFunc[M Message] func(d *codec.Decoder) (M, error)

// Envelope carries one message across the boundary. It implements both
// sides of the protocol, so the same type serves as Signature and Context.
//
// Success payloads are a single model frame and start with the Model tag.
// Error payloads are a single error frame and start with the Error tag.
type Envelope[M Message] struct {
	Message M
	decode  DecodeFunc[M]
}

// NewEnvelope wraps msg. decode is used by Read and FromReadBuffer.
func NewEnvelope[M Message](msg M, decode DecodeFunc[M]) *Envelope[M] {
	return &Envelope[M]{Message: msg, decode: decode}
}

// ForModel creates an envelope for records of a schema model.
func ForModel(m *schema.Model) *Envelope[*schema.Record] {
	return NewEnvelope(schema.New(m), func(d *codec.Decoder) (*schema.Record, error) {
		return schema.Decode(m, d)
	})
}

func (e *Envelope[M]) RuntimeContext() RuntimeContext { return e }

func (e *Envelope[M]) GuestContext() GuestContext { return e }

// IsError reports whether b is an error payload.
func IsError(b []byte) bool {
	return len(b) > 0 && codec.Kind(b[0]) == codec.KindError
}

func (e *Envelope[M]) Read(b []byte) error {
	return e.read(b)
}

func (e *Envelope[M]) Write() []byte {
	enc := codec.NewEncoder()
	e.Message.Encode(enc)
	return enc.Bytes()
}

func (e *Envelope[M]) Error(err error) []byte {
	enc := codec.NewEncoder()
	enc.Error(err)
	return enc.Bytes()
}

func (e *Envelope[M]) FromReadBuffer(b []byte) error {
	return e.read(b)
}

func (e *Envelope[M]) ToWriteBuffer() []byte {
	return e.Write()
}

func (e *Envelope[M]) ErrorWriteBuffer(err error) []byte {
	return e.Error(err)
}

func (e *Envelope[M]) read(b []byte) error {
	d := codec.NewDecoder(b)
	if IsError(b) {
		remote, err := d.Error()
		if err != nil {
			return err
		}
		if err := d.Done(); err != nil {
			return err
		}
		Logger().Debug("error payload received", zap.Error(remote))
		return remote
	}

	if e.decode == nil {
		return errors.NotInitialized(errors.PhaseProtocol, "decode function")
	}
	msg, err := e.decode(d)
	if err != nil {
		return err
	}
	if err := d.Done(); err != nil {
		return err
	}
	e.Message = msg
	return nil
}
