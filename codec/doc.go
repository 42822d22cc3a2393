// Package codec implements the type-tagged binary wire format shared by the
// host and guest sides of a signature.
//
// Every value starts with a one-byte Kind tag followed by its payload:
//
//	Kind     Tag   Payload
//	──────────────────────────────────────────────────────────────
//	Nil      0x00  none
//	Array    0x01  element kind, count (uvarint), count tagged values
//	Map      0x02  key kind, value kind, count (uvarint), count pairs
//	Model    0x03  body length (uvarint), body
//	Bytes    0x04  length (uvarint), raw bytes
//	String   0x05  length (uvarint), UTF-8 bytes
//	Error    0x06  a tagged String holding the message
//	Bool     0x07  0x00 or 0x01
//	Enum     0x08  ordinal (uvarint)
//	Uint32   0x0a  uvarint
//	Uint64   0x0b  uvarint
//	Int32    0x0c  zigzag uvarint
//	Int64    0x0d  zigzag uvarint
//	Float32  0x0e  IEEE-754 bits, big-endian
//	Float64  0x0f  IEEE-754 bits, big-endian
//
// Model bodies are length-prefixed so a reader can skip a model it does not
// understand, and bytes left unread inside a model body are ignored. Map keys
// are written in ascending order so equal maps always encode identically.
//
// An Encoder is append-only; a Decoder reads values in the exact order they
// were written. Neither is safe for concurrent use.
package codec
