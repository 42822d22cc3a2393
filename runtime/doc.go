// Package runtime runs signature guests on wazero.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, runtime.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.Load(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	sig := testbed.NewModelWithSingleStringFieldSignature()
//	if err := inst.Run(ctx, sig); err != nil {
//	    log.Fatal(err)
//	}
//
// # Guest ABI
//
// A guest is a core module exporting:
//
//	memory                               linear memory
//	malloc(size i32) -> i32              reserve size bytes for the input
//	run(ptr i32, len i32) -> i64         process the input at ptr
//
// run answers with ptr<<32 | len of its output buffer. The output is either a
// model frame (success) or an error frame, see package signature.
//
// Guests may import env.log(ptr i32, len i32) to write to the runtime logger.
// With Config.WASI set, wasi_snapshot_preview1 is available as well.
//
// # Thread Safety
//
// Runtime and Module may be shared; instantiating from several goroutines
// at once is fine because instances are anonymous. An Instance owns one
// guest memory and serves one call at a time.
//
// # Memory
//
// WASM linear memory can only grow, never shrink. Call copies the guest's
// output, so the returned buffer stays valid after the instance is closed.
package runtime
