package codec

// Unsigned LEB128 with zigzag mapping for signed values.

const (
	maxVarintLen32 = 5
	maxVarintLen64 = 10
)

func appendUvarint(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

func zigzag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func unzigzag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

func zigzag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// uvarint decodes an unsigned LEB128 value no wider than bits from b.
// It returns the value, the number of bytes consumed, and ok=false with n=0
// when b ends first or n<0 when the encoding overflows bits.
func uvarint(b []byte, bits uint) (uint64, int, bool) {
	maxLen := maxVarintLen64
	if bits == 32 {
		maxLen = maxVarintLen32
	}
	var result uint64
	var shift uint
	for i := 0; i < len(b); i++ {
		if i == maxLen {
			return 0, -1, false
		}
		c := b[i]
		if i == maxLen-1 {
			// Last permitted byte: only the bits that still fit may be set.
			rest := bits - shift
			if c&0x80 != 0 || (rest < 7 && c>>rest != 0) {
				return 0, -1, false
			}
		}
		result |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return result, i + 1, true
		}
		shift += 7
	}
	return 0, 0, false
}
