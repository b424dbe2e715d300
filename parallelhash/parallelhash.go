// Package parallelhash implements the ParallelHash construction from NIST
// SP 800-185.
//
// ParallelHash splits its input into fixed-size blocks, hashes each block
// independently with SHAKE at the chosen strength, and combines the per-block
// digests with a final cSHAKE call. Block digests share no state, so large
// inputs are fanned out across GOMAXPROCS workers; the result is identical
// regardless of scheduling, since digests are gathered by block index.
package parallelhash

import (
	"math"
	"runtime"
	"sync"

	"github.com/codahale/sp800185"
	"github.com/codahale/sp800185/internal/sponge"
)

var functionName = []byte("ParallelHash")

// minParallelInput is the input size below which goroutine fan-out costs more
// than it saves and blocks are hashed sequentially.
const minParallelInput = 32 * 1024

// Sum128 computes ParallelHash128(input, blockSize, customization) with
// outputLen bytes of output. blockSize is in bytes and must be positive.
func Sum128(input []byte, blockSize int, customization []byte, outputLen int) ([]byte, error) {
	return sum(128, input, blockSize, customization, outputLen)
}

// Sum256 computes ParallelHash256(input, blockSize, customization) with
// outputLen bytes of output.
func Sum256(input []byte, blockSize int, customization []byte, outputLen int) ([]byte, error) {
	return sum(256, input, blockSize, customization, outputLen)
}

// XOF is an arbitrary-length ParallelHash output stream (ParallelHashXOF).
type XOF struct {
	c *sp800185.CSHAKE
}

// XOF128 computes ParallelHashXOF128(input, blockSize, customization) and
// returns the output stream.
func XOF128(input []byte, blockSize int, customization []byte) (*XOF, error) {
	return newXOF(128, input, blockSize, customization)
}

// XOF256 computes ParallelHashXOF256(input, blockSize, customization) and
// returns the output stream.
func XOF256(input []byte, blockSize int, customization []byte) (*XOF, error) {
	return newXOF(256, input, blockSize, customization)
}

// Read squeezes len(p) bytes of output into p.
func (x *XOF) Read(p []byte) (int, error) {
	return x.c.Read(p)
}

func sum(strength int, input []byte, blockSize int, customization []byte, outputLen int) ([]byte, error) {
	if outputLen < 0 || uint64(outputLen) > math.MaxUint64/8 {
		return nil, sp800185.ErrInvalidParameter
	}

	c, err := newParallelHash(strength, input, blockSize, customization)
	if err != nil {
		return nil, err
	}

	var buf [sp800185.MaxEncodeLen]byte
	_, _ = c.Write(sp800185.AppendRightEncode(buf[:0], uint64(outputLen)*8))

	out := make([]byte, outputLen)
	_, _ = c.Read(out)
	return out, nil
}

func newXOF(strength int, input []byte, blockSize int, customization []byte) (*XOF, error) {
	c, err := newParallelHash(strength, input, blockSize, customization)
	if err != nil {
		return nil, err
	}

	var buf [sp800185.MaxEncodeLen]byte
	_, _ = c.Write(sp800185.AppendRightEncode(buf[:0], 0))
	return &XOF{c: c}, nil
}

// newParallelHash returns a cSHAKE instance with left_encode(blockSize), all
// per-block digests in block order, and right_encode(blockCount) absorbed.
func newParallelHash(strength int, input []byte, blockSize int, customization []byte) (*sp800185.CSHAKE, error) {
	if blockSize <= 0 {
		return nil, sp800185.ErrInvalidParameter
	}

	c, err := sp800185.NewCSHAKE(strength, functionName, customization)
	if err != nil {
		return nil, err
	}

	var buf [sp800185.MaxEncodeLen]byte
	_, _ = c.Write(sp800185.AppendLeftEncode(buf[:0], uint64(blockSize)))

	cvs, n := blockDigests(strength, input, blockSize)
	_, _ = c.Write(cvs)
	_, _ = c.Write(sp800185.AppendRightEncode(buf[:0], uint64(n)))

	return c, nil
}

// blockDigests returns the concatenated per-block SHAKE digests and the block
// count. Empty input is a single empty block, never zero blocks.
func blockDigests(strength int, input []byte, blockSize int) ([]byte, int) {
	rate := sponge.Rate128
	if strength == 256 {
		rate = sponge.Rate256
	}
	cvLen := strength / 4 // 2*strength bits per block digest

	n := max(1, (len(input)+blockSize-1)/blockSize)
	cvs := make([]byte, n*cvLen)

	workers := min(n, runtime.GOMAXPROCS(0))
	if workers > 1 && len(input) >= minParallelInput {
		var wg sync.WaitGroup
		for w := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := w; i < n; i += workers {
					blockDigest(rate, block(input, i, blockSize), cvs[i*cvLen:(i+1)*cvLen])
				}
			}()
		}
		wg.Wait()
	} else {
		for i := range n {
			blockDigest(rate, block(input, i, blockSize), cvs[i*cvLen:(i+1)*cvLen])
		}
	}

	return cvs, n
}

// block returns the i-th blockSize-byte block of input; the last block may be
// short.
func block(input []byte, i, blockSize int) []byte {
	start := i * blockSize
	end := min(start+blockSize, len(input))
	return input[start:end]
}

// blockDigest computes SHAKE(block) into cv using a fresh, independently
// owned sponge state.
func blockDigest(rate int, block, cv []byte) {
	x := sponge.New(rate, sponge.DSSHAKE)
	x.Absorb(block)
	x.Squeeze(cv)
}
