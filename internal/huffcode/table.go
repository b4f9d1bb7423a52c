// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package huffcode builds canonical Huffman decoding tables from an array of
// per-symbol code lengths: a primitive the inflater's slow decoder calls
// into, kept as its own package so that boundary stays visible even though
// this module happens to ship both sides of it.
//
// The table layout (a small first-level array plus linked second-level
// arrays for codes longer than the first-level width) is the same two-level
// scheme used by dsnet/compress's brotli.prefixDecoder and by the Go
// standard library's compress/flate huffmanDecoder; this package represents
// each table slot as a tagged {Op, Bits, Val} triple instead of those
// implementations' packed uint32 chunk, trading a few bytes of table size
// for a decode switch that reads as a tagged enum rather than bit-mask
// arithmetic.
package huffcode

import (
	"errors"

	"github.com/go-inflate/inflate/internal"
)

// MaxBits is the longest Huffman code this package ever builds (RFC 1951
// limits literal/length and distance codes to 15 bits, code-length codes to
// 7 bits).
const MaxBits = 15

// Flag bits carried in Code.Op. A value of exactly 0 means "literal, value
// in Val". A value in [1,15] with no flag bit set means "second-level link:
// Val is the base index of the linked table, Bits is the number of bits
// already consumed to reach here, and Op is the number of further bits to
// index into the linked table". FlagBase combined with a 4-bit extra-bit
// count in the low nibble means "length or distance base in Val, low nibble
// of Op extra bits follow".
const (
	FlagBase    uint8 = 0x10
	FlagEnd     uint8 = 0x20
	FlagInvalid uint8 = 0x40

	ExtraBitsMask uint8 = 0x0F
)

// Code is one slot of a decode table.
type Code struct {
	Op   uint8  // category/payload flags, see Flag* above
	Bits uint8  // bits consumed to resolve this table level
	Val  uint16 // literal byte, length/distance base, or link base index
}

// Symbol is the per-symbol input to Build: a code length plus the decode
// semantics to bake into the resulting leaf entries. A Len of 0 means the
// symbol is unused.
type Symbol struct {
	Len int
	Op  uint8
	Val uint16
}

// LiteralSymbol returns a Symbol that decodes directly to val (used for
// literal bytes and for the code-length alphabet, whose "symbols" are just
// small integers).
func LiteralSymbol(length int, val uint16) Symbol {
	return Symbol{Len: length, Val: val}
}

// BaseSymbol returns a Symbol that decodes to base plus extraBits more bits
// of input (used for length and distance codes).
func BaseSymbol(length int, base uint16, extraBits uint8) Symbol {
	return Symbol{Len: length, Op: FlagBase | extraBits, Val: base}
}

// EndSymbol returns a Symbol that marks end-of-block.
func EndSymbol(length int) Symbol {
	return Symbol{Len: length, Op: FlagEnd}
}

var (
	// ErrOversubscribed means the code lengths describe more codes than fit
	// in a complete Huffman tree.
	ErrOversubscribed = errors.New("huffcode: oversubscribed code lengths")
	// ErrIncomplete means the code lengths leave unused codes in a tree that
	// RFC 1951 requires to be complete.
	ErrIncomplete = errors.New("huffcode: incomplete code lengths")
	// ErrTooManyBits means a symbol's code length exceeds MaxBits.
	ErrTooManyBits = errors.New("huffcode: code length too large")
	// ErrNoSpace means the destination arena is too small.
	ErrNoSpace = errors.New("huffcode: code storage exhausted")
)

// Build constructs a canonical Huffman decode table for syms and appends it
// (root table first, then any linked sub-tables) to codes starting at index
// next. It returns the index just past the tables it wrote and the bit
// width of the root table.
//
// maxRoot caps the width of the first-level lookup table; the inflater picks
// this per table the way zlib's inflate_table() does (9 for the literal/
// length table, 6 for the distance table, 7 for the code-length table).
// Symbols whose code is longer than the resulting root spill into a linked
// second-level table.
//
// incomplete, when true, permits an under-subscribed tree as long as it has
// at most one code (RFC 1951 section 3.2.7 allows this for the distance
// table when a block has no backward references at all); every incomplete
// slot decodes as FlagInvalid so a malformed stream that tries to use it is
// rejected.
func Build(syms []Symbol, codes []Code, next int, maxRoot int, incomplete bool) (newNext, rootBits int, err error) {
	var count [MaxBits + 1]int
	maxLen := 0
	minLen := 0
	numSyms := 0
	for _, s := range syms {
		if s.Len == 0 {
			continue
		}
		if s.Len > MaxBits {
			return next, 0, ErrTooManyBits
		}
		count[s.Len]++
		numSyms++
		if maxLen < s.Len {
			maxLen = s.Len
		}
		if minLen == 0 || minLen > s.Len {
			minLen = s.Len
		}
	}
	if numSyms == 0 {
		// An empty tree is permitted structurally; it fails later if ever
		// used to decode a symbol (every slot reports FlagInvalid).
		root := 1
		if next+2 > len(codes) {
			return next, 0, ErrNoSpace
		}
		codes[next] = Code{Op: FlagInvalid, Bits: 1}
		codes[next+1] = Code{Op: FlagInvalid, Bits: 1}
		return next + 2, root, nil
	}

	// Compute the starting code for each length and verify the tree is
	// neither over- nor under-subscribed, the same counting-sort-by-length
	// construction dsnet/compress/brotli.prefixDecoder.Init and the stdlib
	// compress/flate huffmanDecoder.init both use.
	var nextCode [MaxBits + 1]int
	code := 0
	left := 1
	for l := 1; l <= maxLen; l++ {
		left <<= 1
		left -= count[l]
		if left < 0 {
			return next, 0, ErrOversubscribed
		}
		code <<= 1
		nextCode[l] = code
		code += count[l]
	}
	if left > 0 {
		if !(incomplete && numSyms == 1) {
			return next, 0, ErrIncomplete
		}
	}

	root := maxLen
	if root > maxRoot {
		root = maxRoot
	}
	if root < 1 {
		root = 1
	}

	rootSize := 1 << root
	if next+rootSize > len(codes) {
		return next, 0, ErrNoSpace
	}
	rootTable := codes[next : next+rootSize]
	for i := range rootTable {
		rootTable[i] = Code{Op: FlagInvalid, Bits: uint8(root)}
	}
	cursor := next + rootSize

	// linkBase[prefix] records where the sub-table for a given root-table
	// prefix begins, so every symbol sharing that prefix reuses one
	// sub-table instead of allocating per symbol.
	linkBase := make(map[uint32]int)

	assign := func(l int) uint32 {
		c := nextCode[l]
		nextCode[l]++
		return internal.ReverseUint32N(uint32(c), uint(l))
	}

	for _, s := range syms {
		if s.Len == 0 {
			continue
		}
		rev := assign(s.Len)
		leaf := Code{Op: s.Op, Bits: uint8(s.Len), Val: s.Val}

		if s.Len <= root {
			for off := rev; off < uint32(rootSize); off += 1 << uint(s.Len) {
				rootTable[off] = leaf
			}
			continue
		}

		prefix := rev & uint32(rootSize-1)
		base, ok := linkBase[prefix]
		if !ok {
			// Size the sub-table by maxLen-root, the longest code any
			// symbol in this tree could still need past the root; this
			// over-allocates for prefixes whose own codes are shorter but
			// keeps the indexing arithmetic below uniform across prefixes.
			linkBits := maxLen - root
			linkSize := 1 << uint(linkBits)
			if cursor+linkSize > len(codes) {
				return next, 0, ErrNoSpace
			}
			base = cursor
			linkBase[prefix] = base
			for i := 0; i < linkSize; i++ {
				codes[base+i] = Code{Op: FlagInvalid, Bits: uint8(linkBits)}
			}
			cursor += linkSize
			rootTable[prefix] = Code{Op: uint8(linkBits), Bits: uint8(root), Val: uint16(base)}
		}
		linkBits := maxLen - root
		subRev := rev >> uint(root)
		leaf.Bits = uint8(s.Len - root)
		for off := subRev; off < uint32(1<<uint(linkBits)); off += 1 << uint(s.Len-root) {
			codes[base+int(off)] = leaf
		}
	}

	return cursor, root, nil
}
