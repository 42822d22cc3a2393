package runtime

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-signature/errors"
)

// Guest ABI export names.
const (
	ExportMemory = "memory"
	ExportMalloc = "malloc"
	ExportRun    = "run"
)

type Runtime struct {
	runtime wazero.Runtime
	config  Config
	logger  *zap.Logger
}

// New creates a runtime and instantiates the host modules guests may import.
func New(ctx context.Context, cfg Config) (*Runtime, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	if cfg.CloseOnContextDone {
		runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)
	}

	r := &Runtime{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		config:  cfg,
		logger:  cfg.logger(),
	}

	if cfg.WASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.runtime); err != nil {
			_ = r.runtime.Close(ctx)
			return nil, errors.Load("instantiate wasi", err)
		}
	}
	if err := r.instantiateEnv(ctx); err != nil {
		_ = r.runtime.Close(ctx)
		return nil, errors.Load("instantiate env", err)
	}

	return r, nil
}

// Close releases all runtime resources, including every module and
// instance created from it.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Load compiles a guest module and checks it exports the signature ABI.
func (r *Runtime) Load(ctx context.Context, wasm []byte) (*Module, error) {
	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	if err := checkExports(compiled); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	r.logger.Debug("module loaded",
		zap.String("name", compiled.Name()),
		zap.Int("size", len(wasm)))

	return &Module{runtime: r, compiled: compiled}, nil
}

func checkExports(compiled wazero.CompiledModule) error {
	if _, ok := compiled.ExportedMemories()[ExportMemory]; !ok {
		return errors.NotFound(errors.PhaseLoad, "export", ExportMemory)
	}

	funcs := compiled.ExportedFunctions()
	want := []struct {
		name    string
		params  []api.ValueType
		results []api.ValueType
	}{
		{ExportMalloc, []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}},
		{ExportRun, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI64}},
	}
	for _, w := range want {
		def, ok := funcs[w.name]
		if !ok {
			return errors.NotFound(errors.PhaseLoad, "export", w.name)
		}
		if !sameTypes(def.ParamTypes(), w.params) || !sameTypes(def.ResultTypes(), w.results) {
			return errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
				Path(w.name).
				Type(signatureString(w.params, w.results)).
				Detail("got %s", signatureString(def.ParamTypes(), def.ResultTypes())).
				Build()
		}
	}
	return nil
}

func sameTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func signatureString(params, results []api.ValueType) string {
	s := "("
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += api.ValueTypeName(p)
	}
	s += ") -> ("
	for i, p := range results {
		if i > 0 {
			s += ", "
		}
		s += api.ValueTypeName(p)
	}
	return s + ")"
}
