// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package inflate

// Static RFC 1951 tables shared between the fixed-table provider and the
// dynamic-block table builder: the length and distance base/extra-bits
// tables (section 3.2.5) and the code-length alphabet's transmission order
// (section 3.2.7). These are data, not behavior, so unlike the rest of this
// package they have no teacher analogue beyond the numbers themselves.

// lengthBase and lengthExtra describe length codes 257..285: lengthBase[i]
// is the smallest match length the code can produce, lengthExtra[i] is how
// many more bits follow to add to that base.
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtra = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtra describe distance codes 0..29 analogously.
var distBase = [30]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtra = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// codeLengthOrder is the order in which the 3-bit code-length-code lengths
// are transmitted for a dynamic block (RFC 1951 section 3.2.7).
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

const (
	numLitSyms  = 288 // 0-255 literals, 256 end-of-block, 257-285 lengths, 286-287 unused
	numDistSyms = 30
	numCLenSyms = 19

	rootBitsLen  = 9 // LENS table root width
	rootBitsDist = 6 // DISTS table root width
	rootBitsCLen = 7 // CODES (code-length) table root width
)
