package runtime

import (
	stderrors "errors"

	"github.com/wippyai/wasm-signature/codec"
)

// Hand-assembled guest modules. Every guest imports env.log, exports a
// one page memory, a malloc that always answers 1024 and a run whose body
// is supplied by the test.

const (
	opEnd       = 0x0b
	opLocalGet  = 0x20
	opCall      = 0x10
	opI64Const  = 0x42
	opI64Shl    = 0x86
	opI64Or     = 0x84
	opExtendU   = 0xad
	opLoop      = 0x03
	opBr        = 0x0c
	opUnreached = 0x00
)

// echoBody answers with the input buffer itself.
var echoBody = []byte{
	opLocalGet, 0, opExtendU, opI64Const, 32, opI64Shl,
	opLocalGet, 1, opExtendU, opI64Or, opEnd,
}

// logEchoBody logs the input through env.log, then echoes it.
var logEchoBody = append([]byte{opLocalGet, 0, opLocalGet, 1, opCall, 0}, echoBody...)

var (
	trapBody = []byte{opUnreached, opEnd}
	spinBody = []byte{opLoop, 0x40, opBr, 0, opEnd, opUnreached, opEnd}
)

// fixedBody answers with the buffer at [ptr, ptr+n).
func fixedBody(ptr, n uint32) []byte {
	b := append([]byte{opI64Const}, sleb64(int64(uint64(ptr)<<32|uint64(n)))...)
	return append(b, opEnd)
}

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb64(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func vec(items ...[]byte) []byte {
	out := uleb(uint64(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func name(s string) []byte {
	return append(uleb(uint64(len(s))), s...)
}

func section(id byte, payload []byte) []byte {
	return append(append([]byte{id}, uleb(uint64(len(payload)))...), payload...)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func funcBody(code []byte) []byte {
	body := append([]byte{0x00}, code...) // no locals
	return append(uleb(uint64(len(body))), body...)
}

func header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
}

const (
	i32 = 0x7f
	i64 = 0x7e
)

// buildGuest assembles a guest. runIndex selects the function exported as
// run: 1 is malloc, 2 is the run body.
func buildGuest(runBody, data []byte, runIndex uint32) []byte {
	types := section(1, vec(
		[]byte{0x60, 1, i32, 1, i32},
		[]byte{0x60, 2, i32, i32, 1, i64},
		[]byte{0x60, 2, i32, i32, 0},
	))
	imports := section(2, vec(cat(name("env"), name("log"), []byte{0x00, 2})))
	funcs := section(3, vec([]byte{0}, []byte{1}))
	memory := section(5, vec([]byte{0x00, 1}))
	exports := section(7, vec(
		cat(name("memory"), []byte{0x02, 0}),
		cat(name("malloc"), []byte{0x00, 1}),
		cat(name("run"), []byte{0x00}, uleb(uint64(runIndex))),
	))
	code := section(10, vec(
		funcBody([]byte{0x41, 0x80, 0x08, opEnd}),
		funcBody(runBody),
	))

	out := cat(header(), types, imports, funcs, memory, exports, code)
	if data != nil {
		seg := cat([]byte{0x00, 0x41, 0x00, opEnd}, uleb(uint64(len(data))), data)
		out = append(out, section(11, vec(seg))...)
	}
	return out
}

// memoryOnly exports a memory and nothing else.
func memoryOnly() []byte {
	return cat(header(),
		section(5, vec([]byte{0x00, 1})),
		section(7, vec(cat(name("memory"), []byte{0x02, 0}))),
	)
}

func errorPayload(msg string) []byte {
	e := codec.NewEncoder()
	e.Error(stderrors.New(msg))
	return e.Bytes()
}
