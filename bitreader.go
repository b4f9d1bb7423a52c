// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package inflate

// The operations below form the bit reader, rendered as methods on
// *Inflater instead of macros: need_bits, peek, drop, align_to_byte, clear.
// They read LSB-first directly out of the caller's
// input slice rather than through an io.Reader, the way dsnet/compress's
// flate.bitReader wraps one — this repository's façade receives a slice,
// not a Reader, so there is nothing to wrap.
//
// Resumability is the reason these take *[]byte instead of advancing a
// stored cursor: a caller that passes a slice with too few bytes to satisfy
// needBits gets false back with hold/bits already updated for whatever was
// consumed, and *in already reflects that consumption; the caller's own
// loop then returns to the top-level Write caller with next_in/avail_in
// correctly trimmed, so the next call resumes without replay.

// needBits ensures z.bits >= n, pulling bytes from *in one at a time. It
// reports false if *in runs out first, leaving hold/bits/​*in consistent for
// a later resumption.
func (z *Inflater) needBits(in *[]byte, n uint) bool {
	for z.bits < n {
		if len(*in) == 0 {
			return false
		}
		z.hold |= uint64((*in)[0]) << z.bits
		*in = (*in)[1:]
		z.bits += 8
	}
	return true
}

// peekBits returns the low n bits of hold.
func (z *Inflater) peekBits(n uint) uint32 {
	return uint32(z.hold & (1<<n - 1))
}

// dropBits consumes the low n bits of hold.
func (z *Inflater) dropBits(n uint) {
	z.hold >>= n
	z.bits -= n
}

// alignByte discards whatever partial byte is held, leaving the accumulator
// positioned at the next byte boundary of the input stream.
func (z *Inflater) alignByte() {
	z.dropBits(z.bits % 8)
}

// clearBits resets the accumulator to empty.
func (z *Inflater) clearBits() {
	z.hold = 0
	z.bits = 0
}
