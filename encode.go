package sp800185

import (
	"math"
	"math/bits"
)

// MaxEncodeLen is the length, in bytes, of the largest left_encode or
// right_encode output.
const MaxEncodeLen = 9

// AppendLeftEncode encodes an integer value using left_encode and appends it
// to b: a length byte n, then the n-byte big-endian representation of value.
func AppendLeftEncode(b []byte, value uint64) []byte {
	n := 8 - (bits.LeadingZeros64(value|1) / 8)
	value <<= (8 - n) * 8
	b = append(b, byte(n))
	for range n {
		b = append(b, byte(value>>56))
		value <<= 8
	}
	return b
}

// AppendRightEncode encodes an integer value using right_encode and appends
// it to b: the n-byte big-endian representation of value, then the length
// byte n.
func AppendRightEncode(b []byte, value uint64) []byte {
	n := 8 - (bits.LeadingZeros64(value|1) / 8)
	value <<= (8 - n) * 8
	for range n {
		b = append(b, byte(value>>56))
		value <<= 8
	}
	b = append(b, byte(n))
	return b
}

// LeftEncode returns left_encode(value).
func LeftEncode(value uint64) []byte {
	return AppendLeftEncode(make([]byte, 0, MaxEncodeLen), value)
}

// RightEncode returns right_encode(value).
func RightEncode(value uint64) []byte {
	return AppendRightEncode(make([]byte, 0, MaxEncodeLen), value)
}

// EncodeString returns encode_string(s): the bit length of s as a left_encode
// prefix, followed by s itself. It returns ErrEncodingOverflow if the bit
// length of s is not representable as a uint64.
func EncodeString(s []byte) ([]byte, error) {
	n, err := stringBits(s)
	if err != nil {
		return nil, err
	}
	return append(AppendLeftEncode(make([]byte, 0, MaxEncodeLen+len(s)), n), s...), nil
}

// Bytepad returns bytepad(s, w): left_encode(w) followed by s, zero-padded to
// the smallest multiple of w. It returns ErrInvalidParameter if w is not
// positive.
func Bytepad(s []byte, w int) ([]byte, error) {
	if w <= 0 {
		return nil, ErrInvalidParameter
	}

	out := make([]byte, 0, MaxEncodeLen+len(s)+w-1)
	out = AppendLeftEncode(out, uint64(w))
	out = append(out, s...)
	if rem := len(out) % w; rem != 0 {
		out = append(out, make([]byte, w-rem)...)
	}
	return out, nil
}

// stringBits returns the length of s in bits, or ErrEncodingOverflow if the
// bit length exceeds the uint64 range left_encode can represent.
func stringBits(s []byte) (uint64, error) {
	n := uint64(len(s))
	if n > math.MaxUint64/8 {
		return 0, ErrEncodingOverflow
	}
	return n * 8, nil
}
