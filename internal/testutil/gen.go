// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import "math/rand"

// GenRepeats generates n bytes that heavily favor LZ77-style back-reference
// compression: most of the content is a copy from some earlier distance, with
// the copied regions themselves filled with uniformly random bytes so that
// prefix coding alone does not explain the gains.
//
// Adapted from the generator that produced dsnet/compress's repeats.bin
// fixture; this package keeps it as a function rather than a `+build ignore`
// main program, since nothing here consumes a generated file from disk.
func GenRepeats(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	randLen := func() int {
		switch p := r.Float32(); {
		case p <= 0.15:
			return 4 + r.Intn(4)
		case p <= 0.30:
			return 8 + r.Intn(8)
		case p <= 0.60:
			return 16 + r.Intn(16)
		default:
			return 32 + r.Intn(32)
		}
	}

	b := make([]byte, 0, n)
	for len(b) < n {
		if len(b) > 64 && r.Float32() < 0.6 {
			length := randLen()
			dist := 1 + r.Intn(len(b))
			if length > dist {
				length = dist
			}
			start := len(b) - dist
			for i := 0; i < length && len(b) < n; i++ {
				b = append(b, b[start+i])
			}
			continue
		}
		b = append(b, byte(r.Intn(256)))
	}
	return b[:n]
}

// GenRandom generates n bytes of uniformly random data: a worst case for any
// compressor, useful for exercising stored (type 0) blocks.
func GenRandom(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

// GenZeros generates n zero bytes: the best case for run-length style
// back-references and for the degenerate single-symbol Huffman tree.
func GenZeros(n int) []byte {
	return make([]byte, n)
}

// GenHuffman generates n bytes drawn from a small, heavily skewed alphabet so
// that the resulting Huffman code lengths vary widely, exercising both short
// and long codes plus the 16/17/18 repeat-length symbols during encoding.
func GenHuffman(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	// Weighted alphabet: a handful of very common bytes, a long tail of rare
	// ones, similar in spirit to English letter-frequency text.
	alphabet := []byte(" etaoinshrdlucmfwypvbgkjqxz0123456789")
	weights := make([]int, len(alphabet))
	for i := range weights {
		weights[i] = len(weights) - i
	}
	total := 0
	for _, w := range weights {
		total += w
	}

	b := make([]byte, n)
	for i := range b {
		x := r.Intn(total)
		for j, w := range weights {
			if x < w {
				b[i] = alphabet[j]
				break
			}
			x -= w
		}
	}
	return b
}
