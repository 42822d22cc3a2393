package testbed

import (
	"strconv"

	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/errors"
)

type GenericEnum uint32

const (
	GenericEnumDefaultValue GenericEnum = iota
	GenericEnumFirstValue
	GenericEnumSecondValue
)

var genericEnumNames = [...]string{"DefaultValue", "FirstValue", "SecondValue"}

func (x GenericEnum) String() string {
	if int(x) < len(genericEnumNames) {
		return genericEnumNames[x]
	}
	return "GenericEnum(" + strconv.FormatUint(uint64(x), 10) + ")"
}

func (x GenericEnum) valid() bool {
	return int(x) < len(genericEnumNames)
}

func writeGenericEnum(e *codec.Encoder, x GenericEnum) {
	e.Enum(uint32(x))
}

func decodeGenericEnum(d *codec.Decoder) (GenericEnum, error) {
	o, err := d.Enum()
	if err != nil {
		return 0, err
	}
	x := GenericEnum(o)
	if !x.valid() {
		return 0, errors.InvalidEnum(errors.PhaseDecode, nil, o, "GenericEnum")
	}
	return x, nil
}
