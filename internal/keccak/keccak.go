// Package keccak implements the Keccak-p[1600, 24] permutation (better known
// as Keccak-f[1600]) underlying the SHA-3 and SHAKE function families.
package keccak

import (
	"encoding/binary"
	"math/bits"
)

// F1600 applies the Keccak-f[1600] permutation to the state (24 rounds).
func F1600(state *[200]byte) {
	var lanes [25]uint64
	for i := range lanes {
		lanes[i] = binary.LittleEndian.Uint64(state[i*8:])
	}

	f1600(&lanes)

	for i := range lanes {
		binary.LittleEndian.PutUint64(state[i*8:], lanes[i])
	}
}

// rc stores the round constants for the ι step.
var rc = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rotc and piln are the ρ rotation offsets and π lane permutation, indexed in
// traversal order.
var (
	rotc = [24]int{
		1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14,
		27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44,
	}
	piln = [24]int{
		10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4,
		15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1,
	}
)

func f1600(a *[25]uint64) {
	var bc [5]uint64

	for round := range 24 {
		// θ
		for i := range 5 {
			bc[i] = a[i] ^ a[i+5] ^ a[i+10] ^ a[i+15] ^ a[i+20]
		}
		for i := range 5 {
			t := bc[(i+4)%5] ^ bits.RotateLeft64(bc[(i+1)%5], 1)
			for j := 0; j < 25; j += 5 {
				a[j+i] ^= t
			}
		}

		// ρ and π
		t := a[1]
		for i := range 24 {
			j := piln[i]
			bc[0] = a[j]
			a[j] = bits.RotateLeft64(t, rotc[i])
			t = bc[0]
		}

		// χ
		for j := 0; j < 25; j += 5 {
			for i := range 5 {
				bc[i] = a[j+i]
			}
			for i := range 5 {
				a[j+i] = bc[i] ^ (^bc[(i+1)%5] & bc[(i+2)%5])
			}
		}

		// ι
		a[0] ^= rc[round]
	}
}
