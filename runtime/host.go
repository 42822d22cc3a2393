package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// HostModule is the import module name of host functions offered to guests.
const HostModule = "env"

// instantiateEnv exports the host functions:
//
//	log(ptr i32, len i32)  write a guest message to the runtime logger
func (r *Runtime) instantiateEnv(ctx context.Context) error {
	_, err := r.runtime.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			ptr, size := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
			msg, ok := mod.Memory().Read(ptr, size)
			if !ok {
				r.logger.Warn("guest log out of bounds",
					zap.Uint32("ptr", ptr),
					zap.Uint32("len", size))
				return
			}
			r.logger.Info("guest log", zap.String("module", mod.Name()), zap.String("message", string(msg)))
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		WithParameterNames("ptr", "len").
		Export("log").
		Instantiate(ctx)
	return err
}
