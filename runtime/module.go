package runtime

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-signature/errors"
)

// Module is a compiled guest. It may be instantiated any number of times
// and from multiple goroutines.
type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
}

func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	modConfig := wazero.NewModuleConfig().
		WithName(""). // anonymous for parallel instantiation
		WithStartFunctions("_initialize")
	if w := m.runtime.config.Stdout; w != nil {
		modConfig = modConfig.WithStdout(w)
	}
	if w := m.runtime.config.Stderr; w != nil {
		modConfig = modConfig.WithStderr(w)
	}

	mod, err := m.runtime.runtime.InstantiateModule(ctx, m.compiled, modConfig)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	inst := &Instance{
		module: mod,
		memory: mod.Memory(),
		malloc: mod.ExportedFunction(ExportMalloc),
		run:    mod.ExportedFunction(ExportRun),
		logger: m.runtime.logger,
	}
	if inst.memory == nil || inst.malloc == nil || inst.run == nil {
		_ = mod.Close(ctx)
		return nil, errors.NotInitialized(errors.PhaseRuntime, "guest exports")
	}

	m.runtime.logger.Debug("instance created", zap.Uint32("memory", inst.memory.Size()))
	return inst, nil
}

// Exports lists the names of the functions the guest exports.
func (m *Module) Exports() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases the compiled module. Live instances are unaffected.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
