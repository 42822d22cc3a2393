package guest

import (
	"context"

	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/signature"
)

// Func processes the message held by the context. A returned error is framed
// as an error payload.
type Func func(ctx context.Context, sig signature.Context) error

// Handle decodes input into sig, runs fn and returns the single output
// buffer. Decode failures, errors returned by fn and panics inside fn are
// all reported in-band as error payloads.
func Handle(ctx context.Context, sig signature.Context, input []byte, fn Func) (out []byte) {
	gc := sig.GuestContext()
	if err := gc.FromReadBuffer(input); err != nil {
		return gc.ErrorWriteBuffer(err)
	}

	defer func() {
		if r := recover(); r != nil {
			out = gc.ErrorWriteBuffer(errors.Panic(errors.PhaseRuntime, r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return gc.ErrorWriteBuffer(err)
	}
	if err := fn(ctx, sig); err != nil {
		return gc.ErrorWriteBuffer(err)
	}
	return gc.ToWriteBuffer()
}

// Errorf is a convenience for guest functions that fail with a message.
func Errorf(format string, args ...any) error {
	return errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
		Detail(format, args...).
		Build()
}
