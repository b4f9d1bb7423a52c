// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package inflate

import (
	"github.com/go-inflate/inflate/internal/huffcode"
)

// inflateFast is the batched fast-path decoder. It is invoked from modeLen
// once avail_in >= 6 && avail_out >= 258 and decodes literals and matches in
// a loop that skips the slow decoder's per-byte mode dispatch, returning
// control to it on end-of-block, an invalid code, or whenever the safety
// margin (len(*in) > 5, nOut <= len(out)-258) is no longer met.
//
// It reuses decodeSymbol rather than re-deriving the two-level lookup
// inline the way real zlib's inffast.c does with raw pointer arithmetic:
// fast/slow equivalence falls out for free when both paths share one decode
// routine, and the speedup this decoder actually chases is the batched loop
// and bulk match copy below, not a second bit-reader implementation.
func (z *Inflater) inflateFast(in *[]byte, out []byte, nOut int) int {
	for len(*in) > 5 && nOut <= len(out)-258 {
		entry, ok := z.decodeSymbol(in, z.lenTable, z.lenRoot, z.lenBits)
		if !ok {
			return nOut
		}

		switch {
		case entry.Op&huffcode.FlagInvalid != 0:
			z.msg = "invalid literal/length code"
			z.mode = modeBad
			return nOut

		case entry.Op&huffcode.FlagEnd != 0:
			z.mode = modeType
			z.back = -1
			return nOut

		case entry.Op&huffcode.FlagBase != 0:
			length := int(entry.Val)
			if extra := uint(entry.Op & huffcode.ExtraBitsMask); extra != 0 {
				if !z.needBits(in, extra) {
					return nOut
				}
				length += int(z.peekBits(extra))
				z.dropBits(extra)
			}

			dentry, ok := z.decodeSymbol(in, z.distTable, z.distRoot, z.distBits)
			if !ok {
				return nOut
			}
			if dentry.Op&huffcode.FlagInvalid != 0 || dentry.Op&huffcode.FlagBase == 0 {
				z.msg = "invalid distance code"
				z.mode = modeBad
				return nOut
			}
			dist := int(dentry.Val)
			if dextra := uint(dentry.Op & huffcode.ExtraBitsMask); dextra != 0 {
				if !z.needBits(in, dextra) {
					return nOut
				}
				dist += int(z.peekBits(dextra))
				z.dropBits(dextra)
			}
			if dist > z.dmax {
				z.msg = "invalid distance too far back"
				z.mode = modeBad
				return nOut
			}

			nOut = z.fastCopy(out, nOut, dist, length)
			if z.mode == modeBad {
				return nOut
			}

		default:
			out[nOut] = byte(entry.Val)
			nOut++
		}
	}
	return nOut
}

// fastCopy performs one match's worth of copying into out starting at
// nOut, sourcing from the current call's own output when dist reaches no
// further back than nOut, and otherwise from the window, falling back to
// the sane/insane too-far-back policy shared with the slow decoder's
// modeMatch.
func (z *Inflater) fastCopy(out []byte, nOut, dist, length int) int {
	if dist <= nOut {
		// Each copy() call moves at most dist bytes, so src and dst never
		// overlap within a single call; a match with dist < length (the
		// classic short-pattern repeat) relies on each chunk reading bytes
		// the previous chunk just wrote.
		src := nOut - dist
		for length > 0 {
			n := length
			if n > dist {
				n = dist
			}
			copy(out[nOut:nOut+n], out[src:src+n])
			nOut += n
			src += n
			length -= n
		}
		return nOut
	}

	back := dist - nOut
	if back > z.win.whave {
		if !z.sane {
			for back > 0 && length > 0 {
				out[nOut] = 0
				nOut++
				length--
				back--
			}
		} else {
			z.msg = "invalid distance too far back"
			z.mode = modeBad
			return nOut
		}
	}
	for length > 0 && back > 0 {
		out[nOut] = z.win.atBack(back)
		nOut++
		length--
		back--
	}
	for length > 0 {
		out[nOut] = out[nOut-dist]
		nOut++
		length--
	}
	return nOut
}
