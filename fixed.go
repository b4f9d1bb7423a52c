// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package inflate

import "github.com/go-inflate/inflate/internal/huffcode"

// fixedLenCode and fixedDistCode are the precomputed, read-only fixed
// literal/length and distance Huffman tables defined by RFC 1951 section
// 3.2.6, built once
// at package init rather than per-Inflater the way dynamic-block tables
// are. They may be shared freely across Inflater instances since nothing
// ever writes to them after init.
var (
	fixedLenCode   []huffcode.Code
	fixedLenBits   int
	fixedDistCode  []huffcode.Code
	fixedDistBits  int
)

func init() {
	var lenSyms [numLitSyms]huffcode.Symbol
	for i := 0; i < 144; i++ {
		lenSyms[i] = huffcode.LiteralSymbol(8, uint16(i))
	}
	for i := 144; i < 256; i++ {
		lenSyms[i] = huffcode.LiteralSymbol(9, uint16(i))
	}
	lenSyms[256] = huffcode.EndSymbol(7)
	for i := 257; i < 280; i++ {
		lenSyms[i] = huffcode.BaseSymbol(7, lengthBase[i-257], lengthExtra[i-257])
	}
	for i := 280; i <= 285; i++ {
		lenSyms[i] = huffcode.BaseSymbol(8, lengthBase[i-257], lengthExtra[i-257])
	}
	// Symbols 286 and 287 take part in the fixed code (8 bits each, which
	// makes the tree complete) but never occur in valid data, so they
	// decode as invalid.
	lenSyms[286] = huffcode.Symbol{Len: 8, Op: huffcode.FlagInvalid}
	lenSyms[287] = huffcode.Symbol{Len: 8, Op: huffcode.FlagInvalid}

	arena := make([]huffcode.Code, 512+32)
	next, bits, err := huffcode.Build(lenSyms[:], arena, 0, rootBitsLen, false)
	if err != nil {
		panic("inflate: corrupt fixed literal/length table: " + err.Error())
	}
	fixedLenCode, fixedLenBits = arena[:next], bits

	// The fixed distance code has 32 five-bit codes; 30 and 31 decode as
	// invalid.
	var distSyms [32]huffcode.Symbol
	for i := 0; i < numDistSyms; i++ {
		distSyms[i] = huffcode.BaseSymbol(5, distBase[i], distExtra[i])
	}
	distSyms[30] = huffcode.Symbol{Len: 5, Op: huffcode.FlagInvalid}
	distSyms[31] = huffcode.Symbol{Len: 5, Op: huffcode.FlagInvalid}
	distArena := make([]huffcode.Code, 32)
	next2, bits2, err := huffcode.Build(distSyms[:], distArena, 0, rootBitsDist, false)
	if err != nil {
		panic("inflate: corrupt fixed distance table: " + err.Error())
	}
	fixedDistCode, fixedDistBits = distArena[:next2], bits2
}
