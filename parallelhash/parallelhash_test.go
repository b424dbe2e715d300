package parallelhash_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/rand"
	"testing"

	"github.com/codahale/sp800185"
	"github.com/codahale/sp800185/parallelhash"
)

// sampleInput is the 24-byte input used by the NIST ParallelHash samples:
// three 8-byte blocks 00..07, 10..17, 20..27.
func sampleInput() []byte {
	return []byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17,
		0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27,
	}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex constant: %v", err)
	}
	return b
}

// NIST SP 800-185 ParallelHash sample vectors (ParallelHash_samples.pdf),
// all with block size B = 8.
func TestParallelHashVectors(t *testing.T) {
	t.Parallel()

	pd := []byte("Parallel Data")

	for _, test := range []struct {
		name          string
		strength      int
		customization []byte
		want          string
	}{
		{
			name:     "ParallelHash128 sample 1",
			strength: 128,
			want:     "ba8dc1d1d979331d3f813603c67f72609ab5e44b94a0b8f9af46514454a2b4f5",
		},
		{
			name:          "ParallelHash128 sample 2",
			strength:      128,
			customization: pd,
			want:          "fc484dcb3f84dceedc353438151bee58157d6efed0445a81f165e495795b7206",
		},
		{
			name:     "ParallelHash256 sample 1",
			strength: 256,
			want: "bc1ef124da34495e948ead207dd9842235da432d2bbc54b4c110e64c45110553" +
				"1b7f2a3e0ce055c02805e7c2de1fb746af97a1dd01f43b824e31b87612410429",
		},
		{
			name:          "ParallelHash256 sample 2",
			strength:      256,
			customization: pd,
			want: "cdf15289b54f6212b4bc270528b49526006dd9b54e2b6add1ef6900dda3963bb" +
				"33a72491f236969ca8afaea29c682d47a393c065b38e29fae651a2091c833110",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			want := mustHex(t, test.want)

			var got []byte
			var err error
			switch test.strength {
			case 128:
				got, err = parallelhash.Sum128(sampleInput(), 8, test.customization, len(want))
			case 256:
				got, err = parallelhash.Sum256(sampleInput(), 8, test.customization, len(want))
			}
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(got, want) {
				t.Errorf("digest = %x, want = %x", got, want)
			}
		})
	}
}

// NIST SP 800-185 ParallelHashXOF sample vectors (ParallelHashXOF_samples.pdf).
func TestParallelHashXOFVectors(t *testing.T) {
	t.Parallel()

	pd := []byte("Parallel Data")

	for _, test := range []struct {
		name          string
		strength      int
		customization []byte
		want          string
	}{
		{
			name:     "ParallelHashXOF128 sample 1",
			strength: 128,
			want:     "fe47d661e49ffe5b7d999922c062356750caf552985b8e8ce6667f2727c3c8d3",
		},
		{
			name:          "ParallelHashXOF128 sample 2",
			strength:      128,
			customization: pd,
			want:          "ea2a793140820f7a128b8eb70a9439f93257c6e6e79b4a540d291d6dae7098d7",
		},
		{
			name:     "ParallelHashXOF256 sample 1",
			strength: 256,
			want: "c10a052722614684144d28474850b410757e3cba87651ba167a5cbddff7f4666" +
				"75fbf84bcae7378ac444be681d729499afca667fb879348bfdda427863c82f1c",
		},
		{
			name:          "ParallelHashXOF256 sample 2",
			strength:      256,
			customization: pd,
			want: "538e105f1a22f44ed2f5cc1674fbd40be803d9c99bf5f8d90a2c8193f3fe6ea7" +
				"68e5c1a20987e2c9c65febed03887a51d35624ed12377594b5585541dc377efc",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			want := mustHex(t, test.want)

			var x *parallelhash.XOF
			var err error
			switch test.strength {
			case 128:
				x, err = parallelhash.XOF128(sampleInput(), 8, test.customization)
			case 256:
				x, err = parallelhash.XOF256(sampleInput(), 8, test.customization)
			}
			if err != nil {
				t.Fatal(err)
			}

			got := make([]byte, len(want))
			_, _ = x.Read(got)

			if !bytes.Equal(got, want) {
				t.Errorf("output = %x, want = %x", got, want)
			}
		})
	}
}

// referenceSum recomputes ParallelHash sequentially from its definition,
// using the root package's cSHAKE and encoders. Inputs large enough to take
// the goroutine fan-out path must match this exactly.
func referenceSum(t *testing.T, input []byte, blockSize int, customization []byte, outputLen int) []byte {
	t.Helper()

	c, err := sp800185.NewCSHAKE128([]byte("ParallelHash"), customization)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = c.Write(sp800185.LeftEncode(uint64(blockSize)))

	n := max(1, (len(input)+blockSize-1)/blockSize)
	for i := range n {
		start := i * blockSize
		end := min(start+blockSize, len(input))
		cv, err := sp800185.SumCSHAKE128(input[start:end], nil, nil, 32)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = c.Write(cv)
	}

	_, _ = c.Write(sp800185.RightEncode(uint64(n)))
	_, _ = c.Write(sp800185.RightEncode(uint64(outputLen) * 8))

	out := make([]byte, outputLen)
	_, _ = c.Read(out)
	return out
}

func TestParallelMatchesSequentialDefinition(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(0xb10c))

	// Sizes straddling the fan-out threshold, with ragged final blocks.
	for _, test := range []struct {
		inputLen  int
		blockSize int
	}{
		{inputLen: 0, blockSize: 8},
		{inputLen: 7, blockSize: 8},
		{inputLen: 8192, blockSize: 1024},
		{inputLen: 64*1024 + 1, blockSize: 8192},
		{inputLen: 256 * 1024, blockSize: 8192},
		{inputLen: 256*1024 - 3, blockSize: 4096},
	} {
		input := make([]byte, test.inputLen)
		rng.Read(input)

		got, err := parallelhash.Sum128(input, test.blockSize, []byte("gather"), 32)
		if err != nil {
			t.Fatal(err)
		}

		want := referenceSum(t, input, test.blockSize, []byte("gather"), 32)
		if !bytes.Equal(got, want) {
			t.Errorf("len %d, B %d: digest = %x, want = %x", test.inputLen, test.blockSize, got, want)
		}
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	input := make([]byte, 512*1024)
	for i := range input {
		input[i] = byte(i * 31)
	}

	first, err := parallelhash.Sum256(input, 8192, nil, 64)
	if err != nil {
		t.Fatal(err)
	}

	// Worker scheduling varies between runs; output must not.
	for range 5 {
		again, err := parallelhash.Sum256(input, 8192, nil, 64)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("output varies across runs")
		}
	}
}

func TestBlockSizeSensitivity(t *testing.T) {
	t.Parallel()

	input := sampleInput()

	a, err := parallelhash.Sum128(input, 8, nil, 32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := parallelhash.Sum128(input, 12, nil, 32)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("block sizes 8 and 12 produce the same digest")
	}
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	// Empty input hashes as a single empty block.
	got, err := parallelhash.Sum128(nil, 8, nil, 32)
	if err != nil {
		t.Fatal(err)
	}
	want := referenceSum(t, nil, 8, nil, 32)
	if !bytes.Equal(got, want) {
		t.Errorf("digest = %x, want = %x", got, want)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	for _, blockSize := range []int{0, -8} {
		if _, err := parallelhash.Sum128(sampleInput(), blockSize, nil, 32); !errors.Is(err, sp800185.ErrInvalidParameter) {
			t.Errorf("block size %d error = %v, want = ErrInvalidParameter", blockSize, err)
		}
	}

	if _, err := parallelhash.Sum256(sampleInput(), 8, nil, -1); !errors.Is(err, sp800185.ErrInvalidParameter) {
		t.Errorf("negative output length error = %v, want = ErrInvalidParameter", err)
	}
}

func BenchmarkSum128(b *testing.B) {
	for _, size := range []int{8 * 1024, 64 * 1024, 1024 * 1024} {
		input := make([]byte, size)

		b.Run(benchName(size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			for b.Loop() {
				_, _ = parallelhash.Sum128(input, 8192, nil, 32)
			}
		})
	}
}

func benchName(size int) string {
	switch {
	case size >= 1024*1024:
		return "1MiB"
	case size >= 64*1024:
		return "64KiB"
	default:
		return "8KiB"
	}
}
