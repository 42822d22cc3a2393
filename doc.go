// Package wasmsignature exchanges schema-described messages between a Go
// host and a WebAssembly guest.
//
// A message is a model: an ordered set of typed fields described by a
// schema file. Both sides encode messages with the same compact wire format,
// so a guest written against the generated types and a host holding the
// schema agree byte for byte.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmsignature/       Root package (documentation only)
//	├── codec/           Tagged binary wire format (varints, model frames)
//	├── schema/          Model descriptors, validation rules, HCL loader, records
//	├── signature/       Host/guest exchange contracts and the Envelope
//	├── guest/           Guest-side run handler
//	├── runtime/         wazero host: load, instantiate and call guests
//	├── testbed/         Typed test models and their schema
//	├── errors/          Structured error types for debugging
//	└── cmd/sigctl/      Command line tool for schemas and messages
//
// # Quick Start
//
// Send a record to a guest and read its answer:
//
//	s, err := schema.ReadSchema("signature.hcl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, _ := s.Model("Request")
//
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
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	sig := signature.ForModel(m)
//	sig.Message.Set("name", "World")
//	if err := inst.Run(ctx, sig); err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// Every failure is an *errors.Error carrying the phase it happened in.
// errors.IsValidation, errors.IsDecode and errors.IsProtocol tell a rejected
// value, a malformed buffer and an error reported by the other side apart.
//
// # Thread Safety
//
// Runtime and Module are safe for concurrent use. Instance, Encoder, Decoder
// and Record are not and should be used by a single goroutine.
package wasmsignature
