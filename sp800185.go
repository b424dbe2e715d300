// Package sp800185 implements the SHA-3 derived functions of NIST SP 800-185:
// cSHAKE, and the encoding primitives (left_encode, right_encode,
// encode_string, bytepad) all four derived functions are built from. The
// kmac, tuplehash, and parallelhash subpackages implement the remaining
// constructions on top of this package.
//
// All lengths in the public API are in bytes; the bit-oriented length fields
// the standard prescribes are produced internally. Sub-byte output lengths
// are therefore unrepresentable rather than rejected at runtime.
package sp800185

import (
	"errors"
	"io"

	"github.com/codahale/sp800185/internal/sponge"
)

var (
	// ErrEncodingOverflow is returned when a length to be encoded exceeds the
	// range of the standard's single-length-byte integer encoding.
	ErrEncodingOverflow = errors.New("sp800185: encoded length out of range")

	// ErrInvalidParameter is returned for negative output lengths, non-positive
	// block sizes, and other malformed arguments.
	ErrInvalidParameter = errors.New("sp800185: invalid parameter")

	// ErrUnsupportedStrength is returned when a security strength other than
	// 128 or 256 is requested.
	ErrUnsupportedStrength = errors.New("sp800185: security strength must be 128 or 256")
)

// CSHAKE is an in-progress cSHAKE computation. Input is absorbed with Write
// and output squeezed with Read; the first Read finalizes absorption, and
// writing after that point panics.
type CSHAKE struct {
	x *sponge.XOF
}

// NewCSHAKE returns a cSHAKE instance at the given security strength (128 or
// 256) with the given function name N and customization string S. If both N
// and S are empty, the instance is plain SHAKE at that strength, as the
// standard requires.
//
// N is reserved by NIST for standard-defined functions ("KMAC", "TupleHash",
// "ParallelHash"); leave it empty when building your own derived function.
func NewCSHAKE(strength int, functionName, customization []byte) (*CSHAKE, error) {
	var rate int
	switch strength {
	case 128:
		rate = sponge.Rate128
	case 256:
		rate = sponge.Rate256
	default:
		return nil, ErrUnsupportedStrength
	}

	if len(functionName) == 0 && len(customization) == 0 {
		return &CSHAKE{x: sponge.New(rate, sponge.DSSHAKE)}, nil
	}

	fnBits, err := stringBits(functionName)
	if err != nil {
		return nil, err
	}
	customBits, err := stringBits(customization)
	if err != nil {
		return nil, err
	}

	// Absorb bytepad(encode_string(N) || encode_string(S), rate), streaming
	// the fields instead of materializing the padded block.
	x := sponge.New(rate, sponge.DSCSHAKE)
	var buf [MaxEncodeLen]byte
	n := 0

	enc := AppendLeftEncode(buf[:0], uint64(rate))
	x.Absorb(enc)
	n += len(enc)

	enc = AppendLeftEncode(buf[:0], fnBits)
	x.Absorb(enc)
	x.Absorb(functionName)
	n += len(enc) + len(functionName)

	enc = AppendLeftEncode(buf[:0], customBits)
	x.Absorb(enc)
	x.Absorb(customization)
	n += len(enc) + len(customization)

	if rem := n % rate; rem != 0 {
		x.AbsorbZeros(rate - rem)
	}

	return &CSHAKE{x: x}, nil
}

// NewCSHAKE128 returns a cSHAKE128 instance with the given function name and
// customization string.
func NewCSHAKE128(functionName, customization []byte) (*CSHAKE, error) {
	return NewCSHAKE(128, functionName, customization)
}

// NewCSHAKE256 returns a cSHAKE256 instance with the given function name and
// customization string.
func NewCSHAKE256(functionName, customization []byte) (*CSHAKE, error) {
	return NewCSHAKE(256, functionName, customization)
}

// Write absorbs p. It panics if called after Read.
func (c *CSHAKE) Write(p []byte) (int, error) {
	c.x.Absorb(p)
	return len(p), nil
}

// Read squeezes len(p) bytes of output into p. The first call ends the
// absorb phase. Successive reads produce a prefix-consistent stream: reading
// 2n bytes equals reading n bytes twice, a property inherited from the
// underlying sponge.
func (c *CSHAKE) Read(p []byte) (int, error) {
	c.x.Squeeze(p)
	return len(p), nil
}

// Rate returns the underlying sponge rate in bytes: 168 at strength 128, 136
// at strength 256. This is the w used for bytepad by the derived functions.
func (c *CSHAKE) Rate() int {
	return c.x.Rate()
}

var (
	_ io.Writer = (*CSHAKE)(nil)
	_ io.Reader = (*CSHAKE)(nil)
)

// SumCSHAKE128 returns cSHAKE128(input, N, S) with outputLen bytes of output.
// An outputLen of zero yields an empty digest.
func SumCSHAKE128(input, functionName, customization []byte, outputLen int) ([]byte, error) {
	return sumCSHAKE(128, input, functionName, customization, outputLen)
}

// SumCSHAKE256 returns cSHAKE256(input, N, S) with outputLen bytes of output.
func SumCSHAKE256(input, functionName, customization []byte, outputLen int) ([]byte, error) {
	return sumCSHAKE(256, input, functionName, customization, outputLen)
}

func sumCSHAKE(strength int, input, functionName, customization []byte, outputLen int) ([]byte, error) {
	if outputLen < 0 {
		return nil, ErrInvalidParameter
	}

	c, err := NewCSHAKE(strength, functionName, customization)
	if err != nil {
		return nil, err
	}
	c.x.Absorb(input)

	out := make([]byte, outputLen)
	c.x.Squeeze(out)
	return out, nil
}
