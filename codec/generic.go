package codec

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/wippyai/wasm-signature/errors"
)

// Helpers used by generated models. Method expressions such as
// (*Encoder).String and (*Decoder).String fit the element callbacks.

// WriteSlice writes s as an array of elem values.
func WriteSlice[T any](e *Encoder, elem Kind, s []T, write func(*Encoder, T)) {
	e.Array(elem, len(s))
	for _, v := range s {
		write(e, v)
	}
}

// ReadSlice reads an array of elem values. The result is never nil.
func ReadSlice[T any](d *Decoder, elem Kind, read func(*Decoder) (T, error)) ([]T, error) {
	n, err := d.Array(elem)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := read(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteMap writes m with keys in ascending order.
func WriteMap[K cmp.Ordered, V any](e *Encoder, key, value Kind, m map[K]V, writeKey func(*Encoder, K), writeValue func(*Encoder, V)) {
	e.Map(key, value, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		writeKey(e, k)
		writeValue(e, m[k])
	}
}

// ReadMap reads a map. Repeated keys are rejected. The result is never nil.
func ReadMap[K comparable, V any](d *Decoder, key, value Kind, readKey func(*Decoder) (K, error), readValue func(*Decoder) (V, error)) (map[K]V, error) {
	n, err := d.Map(key, value)
	if err != nil {
		return nil, err
	}
	out := make(map[K]V, n)
	for i := 0; i < n; i++ {
		k, err := readKey(d)
		if err != nil {
			return nil, err
		}
		v, err := readValue(d)
		if err != nil {
			return nil, err
		}
		if _, ok := out[k]; ok {
			return nil, errors.Duplicate(errors.PhaseDecode, nil, "map key", fmt.Sprint(k))
		}
		out[k] = v
	}
	return out, nil
}
