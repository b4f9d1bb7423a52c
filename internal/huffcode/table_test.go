// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffcode

import (
	"testing"

	"github.com/go-inflate/inflate/internal"
)

// decodeOne walks table the same way the inflater's decodeSymbol does,
// given the full raw bit value (LSB-first, as many bits as the longest
// code in the tree could need).
func decodeOne(t *testing.T, codes []Code, rootBase, rootBits int, bits uint32) Code {
	t.Helper()
	entry := codes[rootBase+int(bits&(1<<uint(rootBits)-1))]
	if entry.Op != 0 && entry.Op&(FlagBase|FlagEnd|FlagInvalid) == 0 {
		bits >>= uint(entry.Bits)
		idx := bits & (1<<uint(entry.Op) - 1)
		entry = codes[int(entry.Val)+int(idx)]
	}
	return entry
}

func TestBuildFixedLiteralTable(t *testing.T) {
	// RFC 1951 section 3.2.6's fixed literal/length table: 8-bit codes for
	// symbols 0-143 starting at 0b00110000 and for 280-287, 9-bit codes for
	// 144-255, 7-bit codes for 256-279.
	syms := make([]Symbol, 288)
	for i := 0; i < 144; i++ {
		syms[i] = LiteralSymbol(8, uint16(i))
	}
	for i := 144; i < 256; i++ {
		syms[i] = LiteralSymbol(9, uint16(i))
	}
	syms[256] = EndSymbol(7)
	for i := 257; i < 280; i++ {
		syms[i] = BaseSymbol(7, uint16(i), 0)
	}
	for i := 280; i < 288; i++ {
		syms[i] = BaseSymbol(8, uint16(i), 0)
	}

	codes := make([]Code, 1024)
	next, root, err := Build(syms, codes, 0, 9, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if root != 9 {
		t.Fatalf("root = %d, want 9", root)
	}
	if next == 0 {
		t.Fatalf("next unchanged")
	}

	// Symbol 0 has the canonical 8-bit code 0b00110000; reversed for LSB-
	// first lookup that's 0b00001100.
	rev := internal.ReverseUint32N(0b00110000, 8)
	entry := decodeOne(t, codes, 0, root, rev)
	if entry.Bits != 8 || entry.Val != 0 || entry.Op != 0 {
		t.Errorf("symbol 0 decoded as %+v", entry)
	}

	// Symbol 256 (end-of-block) has the canonical 7-bit code 0b0000000.
	rev = internal.ReverseUint32N(0, 7)
	entry = decodeOne(t, codes, 0, root, rev)
	if entry.Op&FlagEnd == 0 {
		t.Errorf("symbol 256 decoded as %+v, want FlagEnd", entry)
	}
}

func TestBuildOversubscribed(t *testing.T) {
	syms := []Symbol{
		LiteralSymbol(1, 0),
		LiteralSymbol(1, 1),
		LiteralSymbol(1, 2), // three 1-bit codes can't fit
	}
	codes := make([]Code, 16)
	if _, _, err := Build(syms, codes, 0, 9, false); err != ErrOversubscribed {
		t.Errorf("err = %v, want ErrOversubscribed", err)
	}
}

func TestBuildIncomplete(t *testing.T) {
	syms := []Symbol{
		LiteralSymbol(2, 0),
		LiteralSymbol(2, 1), // only 2 of 4 possible 2-bit codes used
	}
	codes := make([]Code, 16)
	if _, _, err := Build(syms, codes, 0, 9, false); err != ErrIncomplete {
		t.Errorf("err = %v, want ErrIncomplete", err)
	}
}

func TestBuildIncompleteSingleCodeAllowed(t *testing.T) {
	// RFC 1951 section 3.2.7's one-distance-code exception: a single
	// symbol with a 1-bit code is an incomplete tree, but incomplete=true
	// permits it since numSyms == 1.
	syms := []Symbol{LiteralSymbol(1, 0)}
	codes := make([]Code, 16)
	next, root, err := Build(syms, codes, 0, 6, true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if next == 0 || root < 1 {
		t.Fatalf("next=%d root=%d", next, root)
	}
}

func TestBuildEmptyTree(t *testing.T) {
	syms := []Symbol{{}, {}, {}} // all Len == 0: unused
	codes := make([]Code, 16)
	next, root, err := Build(syms, codes, 0, 9, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if root != 1 || next != 2 {
		t.Fatalf("next=%d root=%d, want next=2 root=1", next, root)
	}
	for _, c := range codes[:next] {
		if c.Op&FlagInvalid == 0 {
			t.Errorf("empty tree slot %+v missing FlagInvalid", c)
		}
	}
}

func TestBuildNoSpace(t *testing.T) {
	syms := []Symbol{LiteralSymbol(1, 0), LiteralSymbol(1, 1)}
	codes := make([]Code, 1) // root table for a 1-bit tree needs 2 slots
	if _, _, err := Build(syms, codes, 0, 9, false); err != ErrNoSpace {
		t.Errorf("err = %v, want ErrNoSpace", err)
	}
}

func TestBuildLinkEntryValIsAbsolute(t *testing.T) {
	// A tree deep enough to need a second-level table, built starting at a
	// nonzero offset: the link entry's Val must be an absolute index into
	// codes, not relative to next, since callers index the whole array.
	// A capped root of 4 bits against codes up to 6 bits long forces at
	// least one root prefix to link into a sub-table.
	lens := []int{1, 3, 4, 4, 5, 5, 5, 5, 6, 6, 6, 6, 6, 6, 6, 6}
	syms := make([]Symbol, len(lens))
	for i, l := range lens {
		syms[i] = LiteralSymbol(l, uint16(i))
	}

	const offset = 100
	codes := make([]Code, 512)
	next, root, err := Build(syms, codes, offset, 4, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if next <= offset {
		t.Fatalf("next = %d, want > %d", next, offset)
	}

	foundLink := false
	for i := offset; i < offset+(1<<root); i++ {
		c := codes[i]
		if c.Op != 0 && c.Op&(FlagBase|FlagEnd|FlagInvalid) == 0 {
			foundLink = true
			if int(c.Val) < offset || int(c.Val) >= next {
				t.Errorf("link entry Val=%d out of [%d,%d)", c.Val, offset, next)
			}
		}
	}
	if !foundLink {
		t.Fatalf("no link entry found; test setup didn't exercise the link path")
	}
}
