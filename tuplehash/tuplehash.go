// Package tuplehash implements the TupleHash construction from NIST
// SP 800-185.
//
// TupleHash hashes an ordered sequence of byte strings such that no tuple is
// confusable with a different segmentation of the same bytes: ("abc", "d")
// and ("ab", "cd") produce unrelated digests. Any or all items, and the
// tuple itself, may be empty.
package tuplehash

import (
	"math"

	"github.com/codahale/sp800185"
)

var functionName = []byte("TupleHash")

// Sum128 computes TupleHash128(tuple, customization) with outputLen bytes of
// output.
func Sum128(tuple [][]byte, customization []byte, outputLen int) ([]byte, error) {
	return sum(128, tuple, customization, outputLen)
}

// Sum256 computes TupleHash256(tuple, customization) with outputLen bytes of
// output.
func Sum256(tuple [][]byte, customization []byte, outputLen int) ([]byte, error) {
	return sum(256, tuple, customization, outputLen)
}

// XOF is an arbitrary-length TupleHash output stream (TupleHashXOF).
type XOF struct {
	c *sp800185.CSHAKE
}

// XOF128 computes TupleHashXOF128(tuple, customization) and returns the
// output stream.
func XOF128(tuple [][]byte, customization []byte) (*XOF, error) {
	return newXOF(128, tuple, customization)
}

// XOF256 computes TupleHashXOF256(tuple, customization) and returns the
// output stream.
func XOF256(tuple [][]byte, customization []byte) (*XOF, error) {
	return newXOF(256, tuple, customization)
}

// Read squeezes len(p) bytes of output into p.
func (x *XOF) Read(p []byte) (int, error) {
	return x.c.Read(p)
}

func sum(strength int, tuple [][]byte, customization []byte, outputLen int) ([]byte, error) {
	if outputLen < 0 || uint64(outputLen) > math.MaxUint64/8 {
		return nil, sp800185.ErrInvalidParameter
	}

	c, err := newTupleHash(strength, tuple, customization)
	if err != nil {
		return nil, err
	}

	var buf [sp800185.MaxEncodeLen]byte
	_, _ = c.Write(sp800185.AppendRightEncode(buf[:0], uint64(outputLen)*8))

	out := make([]byte, outputLen)
	_, _ = c.Read(out)
	return out, nil
}

func newXOF(strength int, tuple [][]byte, customization []byte) (*XOF, error) {
	c, err := newTupleHash(strength, tuple, customization)
	if err != nil {
		return nil, err
	}

	var buf [sp800185.MaxEncodeLen]byte
	_, _ = c.Write(sp800185.AppendRightEncode(buf[:0], 0))
	return &XOF{c: c}, nil
}

// newTupleHash returns a cSHAKE instance with every tuple item absorbed as
// encode_string(item), in order.
func newTupleHash(strength int, tuple [][]byte, customization []byte) (*sp800185.CSHAKE, error) {
	c, err := sp800185.NewCSHAKE(strength, functionName, customization)
	if err != nil {
		return nil, err
	}

	var buf [sp800185.MaxEncodeLen]byte
	for _, item := range tuple {
		if uint64(len(item)) > math.MaxUint64/8 {
			return nil, sp800185.ErrEncodingOverflow
		}
		_, _ = c.Write(sp800185.AppendLeftEncode(buf[:0], uint64(len(item))*8))
		_, _ = c.Write(item)
	}

	return c, nil
}
