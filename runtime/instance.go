package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/signature"
)

// Instance is one instantiated guest. It is not safe for concurrent use.
type Instance struct {
	module api.Module
	memory api.Memory
	malloc api.Function
	run    api.Function
	logger *zap.Logger
}

// Call copies in into guest memory, runs the guest and returns a copy of
// the buffer it answered with.
func (i *Instance) Call(ctx context.Context, in []byte) ([]byte, error) {
	if i.module == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "instance")
	}

	res, err := i.malloc.Call(ctx, api.EncodeU32(uint32(len(in))))
	if err != nil {
		return nil, errors.Trap(ExportMalloc, err)
	}
	ptr := api.DecodeU32(res[0])
	if !i.memory.Write(ptr, in) {
		return nil, errors.OutOfBounds(errors.PhaseRuntime, []string{ExportMalloc}, ptr, uint32(len(in)), i.memory.Size())
	}

	res, err = i.run.Call(ctx, api.EncodeU32(ptr), api.EncodeU32(uint32(len(in))))
	if err != nil {
		return nil, errors.Trap(ExportRun, err)
	}
	outPtr, outLen := uint32(res[0]>>32), uint32(res[0])

	view, ok := i.memory.Read(outPtr, outLen)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseRuntime, []string{ExportRun}, outPtr, outLen, i.memory.Size())
	}
	out := make([]byte, len(view))
	copy(out, view)

	i.logger.Debug("guest call",
		zap.Int("in", len(in)),
		zap.Int("out", len(out)),
		zap.Bool("error", signature.IsError(out)))
	return out, nil
}

// Run performs one full exchange: the signature's message is written, the
// guest is called and its answer is read back into the signature. An error
// payload from the guest is returned as a protocol error.
func (i *Instance) Run(ctx context.Context, sig signature.Signature) error {
	rc := sig.RuntimeContext()
	out, err := i.Call(ctx, rc.Write())
	if err != nil {
		return err
	}
	return rc.Read(out)
}

func (i *Instance) Close(ctx context.Context) error {
	if i.module == nil {
		return nil
	}
	err := i.module.Close(ctx)
	i.module = nil
	return err
}
