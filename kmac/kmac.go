// Package kmac implements the KMAC keyed message-authentication construction
// from NIST SP 800-185.
//
// KMAC is a PRF and keyed hash built on cSHAKE. Unlike SHAKE and cSHAKE, the
// requested output length is bound into the computation: tags of different
// lengths are unrelated, not prefixes of one another. The XOF variants
// instead bind a zero length and may be squeezed indefinitely.
package kmac

import (
	"math"

	"github.com/codahale/sp800185"
)

var functionName = []byte("KMAC")

// zeros supplies bytepad's zero padding; it covers the largest sponge rate.
var zeros [168]byte

// Sum128 computes KMAC128(key, message, customization) with a tagLen-byte
// tag. The standard permits an empty key, but an empty key degrades KMAC to
// an unkeyed hash; callers should supply at least 16 bytes.
func Sum128(key, message, customization []byte, tagLen int) ([]byte, error) {
	return sum(128, key, message, customization, tagLen)
}

// Sum256 computes KMAC256(key, message, customization) with a tagLen-byte
// tag. Callers should supply a key of at least 32 bytes.
func Sum256(key, message, customization []byte, tagLen int) ([]byte, error) {
	return sum(256, key, message, customization, tagLen)
}

// XOF is an arbitrary-length KMAC output stream (KMACXOF). Reading n bytes
// then m bytes yields the same stream as reading n+m bytes at once.
type XOF struct {
	c *sp800185.CSHAKE
}

// XOF128 computes KMACXOF128(key, message, customization) and returns the
// output stream.
func XOF128(key, message, customization []byte) (*XOF, error) {
	return newXOF(128, key, message, customization)
}

// XOF256 computes KMACXOF256(key, message, customization) and returns the
// output stream.
func XOF256(key, message, customization []byte) (*XOF, error) {
	return newXOF(256, key, message, customization)
}

// Read squeezes len(p) bytes of MAC output into p.
func (x *XOF) Read(p []byte) (int, error) {
	return x.c.Read(p)
}

func sum(strength int, key, message, customization []byte, tagLen int) ([]byte, error) {
	if tagLen < 0 || uint64(tagLen) > math.MaxUint64/8 {
		return nil, sp800185.ErrInvalidParameter
	}

	c, err := newKMAC(strength, key, customization)
	if err != nil {
		return nil, err
	}
	_, _ = c.Write(message)

	var buf [sp800185.MaxEncodeLen]byte
	_, _ = c.Write(sp800185.AppendRightEncode(buf[:0], uint64(tagLen)*8))

	tag := make([]byte, tagLen)
	_, _ = c.Read(tag)
	return tag, nil
}

func newXOF(strength int, key, message, customization []byte) (*XOF, error) {
	c, err := newKMAC(strength, key, customization)
	if err != nil {
		return nil, err
	}
	_, _ = c.Write(message)

	var buf [sp800185.MaxEncodeLen]byte
	_, _ = c.Write(sp800185.AppendRightEncode(buf[:0], 0))
	return &XOF{c: c}, nil
}

// newKMAC returns a cSHAKE instance primed with bytepad(encode_string(key),
// rate). The key is absorbed directly into the sponge and not retained.
func newKMAC(strength int, key, customization []byte) (*sp800185.CSHAKE, error) {
	if uint64(len(key)) > math.MaxUint64/8 {
		return nil, sp800185.ErrEncodingOverflow
	}

	c, err := sp800185.NewCSHAKE(strength, functionName, customization)
	if err != nil {
		return nil, err
	}
	rate := c.Rate()

	var buf [sp800185.MaxEncodeLen]byte
	n := 0

	enc := sp800185.AppendLeftEncode(buf[:0], uint64(rate))
	_, _ = c.Write(enc)
	n += len(enc)

	enc = sp800185.AppendLeftEncode(buf[:0], uint64(len(key))*8)
	_, _ = c.Write(enc)
	_, _ = c.Write(key)
	n += len(enc) + len(key)

	if rem := n % rate; rem != 0 {
		_, _ = c.Write(zeros[:rate-rem])
	}

	return c, nil
}
