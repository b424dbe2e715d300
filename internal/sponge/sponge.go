// Package sponge provides the extendable-output primitive the SP 800-185
// constructions are built on: a Keccak-f[1600] sponge parameterized by rate
// and padding domain separator.
//
// A state is single-owner and strictly phased: absorb, then squeeze. The
// first Squeeze pads and finalizes absorption; absorbing afterwards is a
// programmer error and panics.
package sponge

import (
	"crypto/subtle"

	"github.com/codahale/sp800185/internal/keccak"
)

// Domain separators for the pad10*1 padding rule.
const (
	DSSHAKE  = 0x1f // SHAKE128/SHAKE256
	DSCSHAKE = 0x04 // cSHAKE128/cSHAKE256 with non-empty N or S
)

// Sponge rates in bytes for the two supported security strengths.
const (
	Rate128 = 168 // 200 - 2*128/8
	Rate256 = 136 // 200 - 2*256/8
)

// XOF is an extendable-output sponge session.
type XOF struct {
	state     [200]byte
	rate      int
	ds        byte
	idx       int
	squeezing bool
}

// New returns a fresh XOF with the given rate (in bytes) and padding domain
// separator. The rate must be in (0, 200).
func New(rate int, ds byte) *XOF {
	if rate <= 0 || rate >= 200 {
		panic("sponge: invalid rate")
	}
	return &XOF{rate: rate, ds: ds} //nolint:exhaustruct // zero state is initial state
}

// Rate returns the sponge's rate in bytes.
func (x *XOF) Rate() int {
	return x.rate
}

// Absorb XORs b into the sponge state, permuting at rate boundaries.
func (x *XOF) Absorb(b []byte) {
	if x.squeezing {
		panic("sponge: cannot absorb after squeezing")
	}

	for len(b) > 0 {
		remain := min(len(b), x.rate-x.idx)
		subtle.XORBytes(x.state[x.idx:], x.state[x.idx:], b[:remain])
		x.idx += remain
		if x.idx == x.rate {
			x.permute()
		}
		b = b[remain:]
	}
}

// AbsorbZeros advances the absorb position by n zero bytes. XORing zeros is
// the identity, so only block boundaries need handling.
func (x *XOF) AbsorbZeros(n int) {
	if x.squeezing {
		panic("sponge: cannot absorb after squeezing")
	}

	for n > 0 {
		remain := min(n, x.rate-x.idx)
		x.idx += remain
		if x.idx == x.rate {
			x.permute()
		}
		n -= remain
	}
}

// Squeeze fills out with sponge output. The first call applies the pad10*1
// padding and ends the absorb phase.
func (x *XOF) Squeeze(out []byte) {
	if !x.squeezing {
		x.pad()
	}

	for len(out) > 0 {
		if x.idx == x.rate {
			x.permute()
		}
		n := copy(out, x.state[x.idx:x.rate])
		x.idx += n
		out = out[n:]
	}
}

// Clear zeroes the sponge state.
func (x *XOF) Clear() {
	clear(x.state[:])
	x.idx = 0
	x.squeezing = false
}

func (x *XOF) pad() {
	x.state[x.idx] ^= x.ds
	x.state[x.rate-1] ^= 0x80
	x.permute()
	x.squeezing = true
}

func (x *XOF) permute() {
	keccak.F1600(&x.state)
	x.idx = 0
}
