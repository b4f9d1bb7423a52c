// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package inflate implements the DEFLATE decompressor described in RFC
// 1951: a resumable, buffer-driven state machine that decodes a
// bit-oriented input stream into literal bytes and LZ77 back-references.
//
// Unlike dsnet/compress/flate.Reader, Inflater does not wrap an io.Reader;
// its public surface is the single incremental Write(in, out, flush)
// operation, taking and returning plain byte slices the way
// dictDecoder.WriteSlice/WriteMark suggested a non-Reader façade could
// work, generalized to a caller-owned-buffers contract. Package Reader
// (see reader.go) offers the familiar io.Reader shape on top of it for
// callers who don't need manual buffer control.
//
// Internally, decode uses github.com/dsnet/golib/errs the same way
// xflate/meta.Reader's decodeBlock does: header and table validation
// panics through errs.Panic/errs.Assert and is converted back to a
// state-machine mode transition by a single deferred errs.Recover.
package inflate

import (
	"github.com/dsnet/golib/errs"

	"github.com/go-inflate/inflate/internal/huffcode"
)

// mode is the inflater's current position in the state machine described
// by spec section 4.4. It is a closed set, matching the redesign guidance
// to give it a named type instead of leaving it as bare ints; COPY_/COPY
// and LEN_/LEN, which the original state machine modeled as adjacent
// fall-through states for a micro-optimization, are collapsed into modeCopy
// and modeLen respectively, per that same guidance.
type mode int

const (
	modeHead     mode = iota // entry point after reset
	modeType                 // between blocks
	modeTypeDo               // read last-block flag and block type
	modeStored               // read STORED block's LEN/NLEN header
	modeCopy                 // copy a STORED block's raw bytes
	modeTable                // read HLIT/HDIST/HCLEN
	modeLenLens              // read code-length code lengths, build CODES
	modeCodeLens             // decode LENS/DISTS code lengths via CODES
	modeLen                  // decode one literal/length symbol
	modeLenExt               // read length extra bits
	modeDist                 // decode one distance symbol
	modeDistExt              // read distance extra bits
	modeMatch                // emit a back-reference
	modeLit                  // emit one literal byte
	modeCheck                // wrapper-checksum point; no-op at this level
	modeDone                 // clean stream end
	modeBad                  // data error, terminal
	modeMem                  // memory error, terminal
)

// Inflater decodes a single RFC 1951 DEFLATE stream. The zero value is not
// usable; construct one with NewInflater.
type Inflater struct {
	mode mode

	hold uint64 // bit accumulator, LSB-first
	bits uint   // valid low bits of hold

	win window

	// lenTable/distTable are the arrays a Huffman lookup indexes into;
	// lenRoot/distRoot are the absolute index within that array where the
	// table's root level begins. A link entry's Val is always an absolute
	// index into the same array (huffcode.Build never knows about any
	// subslicing its caller might apply), so these must stay paired with
	// their originating array rather than resliced into a fresh one.
	lenTable  []huffcode.Code
	lenRoot   int
	lenBits   int
	distTable []huffcode.Code
	distRoot  int
	distBits  int

	codes [maxCodeStorage]huffcode.Code

	last   bool // final-block flag
	length int  // stored-block remaining length, or current match length
	offset int  // current match distance
	extra  uint // extra bits pending for the symbol in flight
	was    int  // length saved for the diagnostic back field

	nlen  int
	ndist int
	ncode int
	have  int
	lens  [320]uint8

	totalIn  int64
	totalOut int64
	total    int64
	back     int // diagnostic bit-distance of the current code
	dataType int

	sane bool
	dmax int
	msg  string

	tracer Tracer
}

// NewInflater returns an Inflater ready to decode a raw DEFLATE stream
// whose encoder used a window of 2^wbits bytes, wbits in [8,15].
func NewInflater(wbits int, opts ...Option) *Inflater {
	z := &Inflater{sane: true, dmax: defaultDmax}
	z.win.init(wbits)
	for _, opt := range opts {
		opt(z)
	}
	z.mode = modeHead
	return z
}

// Reset reinitializes z to decode a new stream, reallocating the window if
// wbits differs from the window already allocated.
func (z *Inflater) Reset(wbits int) error {
	if wbits != z.win.wbits {
		z.win.init(wbits)
	} else {
		z.win.clear()
	}
	return z.resetState()
}

// ResetKeep zeroes all stream state except the window's buffer allocation,
// but still drops the window's history: spec section 3's lifecycle note
// describes Reset as starting a new, independent stream, and a leftover
// back-reference history from the previous stream would let this one read
// bytes it never actually received.
func (z *Inflater) ResetKeep() error {
	z.win.clear()
	return z.resetState()
}

func (z *Inflater) resetState() error {
	z.mode = modeHead
	z.hold, z.bits = 0, 0
	z.lenTable, z.distTable = nil, nil
	z.lenRoot, z.distRoot, z.lenBits, z.distBits = 0, 0, 0, 0
	z.last = false
	z.length, z.offset, z.extra, z.was = 0, 0, 0, 0
	z.nlen, z.ndist, z.ncode, z.have = 0, 0, 0, 0
	z.totalIn, z.totalOut, z.total, z.back, z.dataType = 0, 0, 0, 0, 0
	z.msg = ""
	return nil
}

// SetDictionary preloads the sliding window with a preset dictionary so
// that back-references in the upcoming stream may reach into it. It must
// be called before the first Write, while the inflater is still in
// modeHead.
func (z *Inflater) SetDictionary(dict []byte) error {
	if z.mode != modeHead {
		return &Error{Msg: "SetDictionary called after decoding started"}
	}
	z.win.setDictionary(dict)
	return nil
}

// TotalIn, TotalOut, and Msg expose the accounting and diagnostic fields
// spec section 6's caller-contract descriptor keeps alongside next_in/
// avail_in/next_out/avail_out.
func (z *Inflater) TotalIn() int64  { return z.totalIn }
func (z *Inflater) TotalOut() int64 { return z.totalOut }
func (z *Inflater) Msg() string     { return z.msg }

// Err returns the diagnostic for the most recent DataError status as an
// error, or nil if the inflater isn't in modeBad. Convenience for callers
// who would rather check an error than a Status/Msg pair.
func (z *Inflater) Err() error {
	if z.mode != modeBad {
		return nil
	}
	return errData(z.msg)
}

// Write is the stream façade's write(flush) operation: it decodes as much
// of in into out as the buffers and flush policy permit, returning how many
// bytes of in were consumed, how many bytes of out were filled, and the
// resulting status. The caller owns in and out; Write never retains a
// reference to either beyond the call other than folding the produced
// bytes into the window.
func (z *Inflater) Write(in, out []byte, flush FlushCode) (nIn, nOut int, status Status) {
	if out == nil {
		return 0, 0, StreamError
	}

	rest := in
	nOut, err := z.decode(&rest, out, flush)
	if err != nil {
		z.mode = modeBad
		if e, ok := err.(*Error); ok {
			z.msg = e.Msg
		} else {
			z.msg = err.Error()
		}
	}

	nIn = len(in) - len(rest)
	if nOut > 0 {
		z.win.update(out[:nOut], nOut)
	}
	z.totalIn += int64(nIn)
	z.totalOut += int64(nOut)
	z.total = z.totalOut
	z.dataType = int(z.bits)
	if z.last {
		z.dataType += 64
	}
	if z.mode == modeType {
		z.dataType += 128
	}
	if z.mode == modeLen || z.mode == modeCopy {
		z.dataType += 256
	}

	switch z.mode {
	case modeDone:
		status = StreamEnd
	case modeBad:
		status = DataError
	case modeMem:
		status = MemError
	default:
		status = OK
	}
	if status == OK && (nIn == 0 && nOut == 0 || flush == Finish) {
		status = BufError
	}
	return nIn, nOut, status
}

// decode runs the state machine described by spec section 4.4 until it
// either suspends for lack of input/output room or reaches a terminal
// mode. Following the idiom xflate/meta.Reader's decodeBlock uses for its
// own header validation, a block-header or table-construction failure
// (block type, stored lengths, symbol counts, code-length tables) is raised
// with errs.Panic/errs.Assert and unwound by the deferred errs.Recover
// below, rather than threaded back through every switch case by hand. Such
// a failure may follow output written earlier in the same call (an earlier
// block); nOut is a named result, so those bytes are still reported. A
// failure detected while decoding literal/length and distance symbols
// (modeLen, modeDist, modeDistExt, modeMatch, and the fast decoder) instead
// sets modeBad and msg directly.
func (z *Inflater) decode(in *[]byte, out []byte, flush FlushCode) (nOut int, err error) {
	defer errs.Recover(&err)
	if z.mode == modeBad {
		errs.Panic(errData(z.msg))
	}

	rest := *in
	defer func() { *in = rest }()

decode:
	for {
		switch z.mode {
		case modeHead:
			z.mode = modeTypeDo

		case modeType:
			if flush == Block || flush == Trees {
				break decode
			}
			z.mode = modeTypeDo

		case modeTypeDo:
			if z.last {
				z.alignByte()
				z.mode = modeCheck
				continue
			}
			if !z.needBits(&rest, 3) {
				break decode
			}
			z.last = z.peekBits(1) == 1
			z.dropBits(1)
			bt := z.peekBits(2)
			z.dropBits(2)
			if z.tracer != nil {
				z.tracer.OnBlock(int(bt), z.last)
			}
			switch bt {
			case 0:
				z.mode = modeStored
			case 1:
				z.lenTable, z.lenRoot, z.lenBits = fixedLenCode, 0, fixedLenBits
				z.distTable, z.distRoot, z.distBits = fixedDistCode, 0, fixedDistBits
				z.mode = modeLen
			case 2:
				z.mode = modeTable
			default:
				errs.Panic(errData("invalid block type"))
			}

		case modeStored:
			z.alignByte()
			if !z.needBits(&rest, 32) {
				break decode
			}
			have := uint16(z.peekBits(16))
			z.dropBits(16)
			nhave := uint16(z.peekBits(16))
			z.dropBits(16)
			errs.Assert(have^0xFFFF == nhave, errData("invalid stored block lengths"))
			z.length = int(have)
			z.clearBits()
			z.mode = modeCopy

		case modeCopy:
			if z.length == 0 {
				z.mode = modeType
				continue
			}
			n := z.length
			if n > len(rest) {
				n = len(rest)
			}
			if n > len(out)-nOut {
				n = len(out) - nOut
			}
			if n == 0 {
				break decode
			}
			copy(out[nOut:nOut+n], rest[:n])
			rest = rest[n:]
			nOut += n
			z.length -= n

		case modeTable:
			if !z.needBits(&rest, 14) {
				break decode
			}
			z.nlen = int(z.peekBits(5)) + 257
			z.dropBits(5)
			z.ndist = int(z.peekBits(5)) + 1
			z.dropBits(5)
			z.ncode = int(z.peekBits(4)) + 4
			z.dropBits(4)
			errs.Assert(z.nlen <= 286 && z.ndist <= 30, errData("too many length or distance symbols"))
			z.have = 0
			z.mode = modeLenLens

		case modeLenLens:
			for z.have < z.ncode {
				if !z.needBits(&rest, 3) {
					break decode
				}
				z.lens[codeLengthOrder[z.have]] = uint8(z.peekBits(3))
				z.dropBits(3)
				z.have++
			}
			for i := z.ncode; i < 19; i++ {
				z.lens[codeLengthOrder[i]] = 0
			}
			clenSyms := make([]huffcode.Symbol, 19)
			for i := 0; i < 19; i++ {
				clenSyms[i] = huffcode.LiteralSymbol(int(z.lens[i]), uint16(i))
			}
			_, bits, buildErr := huffcode.Build(clenSyms, z.codes[:], 0, rootBitsCLen, false)
			if buildErr != nil {
				errs.Panic(errData("invalid code-length code lengths: " + buildErr.Error()))
			}
			z.lenTable, z.lenRoot, z.lenBits = z.codes[:], 0, bits
			z.have = 0
			z.mode = modeCodeLens

		case modeCodeLens:
			if !z.decodeCodeLens(&rest) {
				break decode
			}
			errs.Assert(z.lens[256] != 0, errData("missing end-of-block code"))

			lenSyms := make([]huffcode.Symbol, z.nlen)
			for i := 0; i < z.nlen; i++ {
				lenSyms[i] = litLenSymbol(i, z.lens[i])
			}
			next, lbits, buildErr := huffcode.Build(lenSyms, z.codes[:], 0, rootBitsLen, false)
			if buildErr != nil {
				errs.Panic(errData("invalid literal/length code lengths: " + buildErr.Error()))
			}

			distSyms := make([]huffcode.Symbol, z.ndist)
			for i := 0; i < z.ndist; i++ {
				distSyms[i] = huffcode.BaseSymbol(int(z.lens[z.nlen+i]), distBaseAt(i), distExtraAt(i))
			}
			_, dbits, buildErr2 := huffcode.Build(distSyms, z.codes[:], next, rootBitsDist, true)
			if buildErr2 != nil {
				errs.Panic(errData("invalid distance code lengths: " + buildErr2.Error()))
			}
			z.lenTable, z.lenRoot, z.lenBits = z.codes[:], 0, lbits
			z.distTable, z.distRoot, z.distBits = z.codes[:], next, dbits
			z.mode = modeLen

		case modeLen:
			if len(rest) > 5 && len(out)-nOut >= 258 {
				inN, outN := len(rest), nOut
				nOut = z.inflateFast(&rest, out, nOut)
				if z.tracer != nil {
					z.tracer.OnFastExit(inN-len(rest), nOut-outN)
				}
				continue
			}
			entry, ok := z.decodeSymbol(&rest, z.lenTable, z.lenRoot, z.lenBits)
			if !ok {
				break decode
			}
			switch {
			case entry.Op&huffcode.FlagInvalid != 0:
				z.msg = "invalid literal/length code"
				z.mode = modeBad
			case entry.Op&huffcode.FlagEnd != 0:
				z.back = -1
				z.mode = modeType
			case entry.Op&huffcode.FlagBase != 0:
				z.extra = uint(entry.Op & huffcode.ExtraBitsMask)
				z.length = int(entry.Val)
				z.mode = modeLenExt
			default:
				z.length = int(entry.Val)
				z.mode = modeLit
			}

		case modeLenExt:
			if z.extra != 0 {
				if !z.needBits(&rest, z.extra) {
					break decode
				}
				z.length += int(z.peekBits(z.extra))
				z.dropBits(z.extra)
			}
			z.was = z.length
			z.mode = modeDist

		case modeDist:
			entry, ok := z.decodeSymbol(&rest, z.distTable, z.distRoot, z.distBits)
			if !ok {
				break decode
			}
			if entry.Op&huffcode.FlagInvalid != 0 || entry.Op&huffcode.FlagBase == 0 {
				z.msg = "invalid distance code"
				z.mode = modeBad
				continue
			}
			z.extra = uint(entry.Op & huffcode.ExtraBitsMask)
			z.offset = int(entry.Val)
			z.mode = modeDistExt

		case modeDistExt:
			if z.extra != 0 {
				if !z.needBits(&rest, z.extra) {
					break decode
				}
				z.offset += int(z.peekBits(z.extra))
				z.dropBits(z.extra)
			}
			if z.offset > z.dmax {
				z.msg = "invalid distance too far back"
				z.mode = modeBad
				continue
			}
			z.mode = modeMatch

		case modeMatch:
			if nOut >= len(out) {
				break decode
			}
			var b byte
			if z.offset <= nOut {
				b = out[nOut-z.offset]
			} else {
				back := z.offset - nOut
				if back > z.win.whave {
					if !z.sane {
						b = 0
					} else {
						z.msg = "invalid distance too far back"
						z.mode = modeBad
						continue
					}
				} else {
					b = z.win.atBack(back)
				}
			}
			out[nOut] = b
			nOut++
			z.length--
			if z.length == 0 {
				z.mode = modeLen
			}

		case modeLit:
			if nOut >= len(out) {
				break decode
			}
			out[nOut] = byte(z.length)
			nOut++
			z.mode = modeLen

		case modeCheck:
			z.mode = modeDone

		case modeDone, modeBad, modeMem:
			break decode
		}
	}

	return nOut, nil
}

// decodeCodeLens runs the CODELENS state's inner symbol loop: decode
// nlen+ndist code lengths via the just-built code-length Huffman table. It
// returns false when it needs more input, leaving z.have positioned to
// resume; a malformed code length or an overrunning repeat code is raised
// with errs.Panic/errs.Assert the same as decode's own header validation,
// since this loop never touches out/nOut and so loses nothing by
// unwinding immediately.
func (z *Inflater) decodeCodeLens(in *[]byte) bool {
	total := z.nlen + z.ndist
	for z.have < total {
		// A repeat code is committed only once its extra bits are also
		// available; otherwise its bits are pushed back into the accumulator
		// so that the next call decodes the same symbol again.
		z.needBits(in, huffcode.MaxBits)
		heldHold, heldBits := z.hold, z.bits
		entry, ok := z.decodeSymbol(in, z.lenTable, z.lenRoot, z.lenBits)
		if !ok {
			return false
		}
		used := heldBits - z.bits
		unread := func() bool {
			z.hold = z.hold<<used | heldHold&(1<<used-1)
			z.bits += used
			return false
		}
		errs.Assert(entry.Op&huffcode.FlagInvalid == 0, errData("invalid code-length code"))
		sym := entry.Val
		switch {
		case sym < 16:
			z.lens[z.have] = uint8(sym)
			z.have++
		case sym == 16:
			errs.Assert(z.have > 0, errData("repeat code with no previous length"))
			if !z.needBits(in, 2) {
				return unread()
			}
			rep := 3 + int(z.peekBits(2))
			z.dropBits(2)
			prev := z.lens[z.have-1]
			errs.Assert(z.have+rep <= total, errData("repeat code overruns code length table"))
			for i := 0; i < rep; i++ {
				z.lens[z.have] = prev
				z.have++
			}
		case sym == 17:
			if !z.needBits(in, 3) {
				return unread()
			}
			rep := 3 + int(z.peekBits(3))
			z.dropBits(3)
			errs.Assert(z.have+rep <= total, errData("repeat code overruns code length table"))
			for i := 0; i < rep; i++ {
				z.lens[z.have] = 0
				z.have++
			}
		case sym == 18:
			if !z.needBits(in, 7) {
				return unread()
			}
			rep := 11 + int(z.peekBits(7))
			z.dropBits(7)
			errs.Assert(z.have+rep <= total, errData("repeat code overruns code length table"))
			for i := 0; i < rep; i++ {
				z.lens[z.have] = 0
				z.have++
			}
		default:
			errs.Panic(errData("invalid code-length symbol"))
		}
	}
	return true
}

// decodeSymbol performs one two-level Huffman lookup against table, per
// spec section 4.4's closing paragraph. It always attempts to fill the
// accumulator up to the longest possible code (huffcode.MaxBits) before
// peeking, so that a lookup whose real code length fits within the bits
// actually available succeeds even when fewer than the table's full root
// width remain in the stream — the same trick real inflate implementations
// use to decode a short trailing code without demanding input that was
// never going to exist.
func (z *Inflater) decodeSymbol(in *[]byte, table []huffcode.Code, rootBase, rootBits int) (huffcode.Code, bool) {
	z.needBits(in, huffcode.MaxBits)

	idx := z.peekBits(uint(rootBits))
	entry := table[rootBase+int(idx)]
	if int(entry.Bits) > int(z.bits) {
		return huffcode.Code{}, false
	}

	if isLinkEntry(entry) {
		idx2 := uint32(z.hold>>entry.Bits) & (1<<entry.Op - 1)
		sub := table[int(entry.Val)+int(idx2)]
		if int(entry.Bits)+int(sub.Bits) > int(z.bits) {
			return huffcode.Code{}, false
		}
		z.dropBits(uint(entry.Bits))
		entry = sub
	}

	z.dropBits(uint(entry.Bits))
	return entry, true
}

// isLinkEntry reports whether entry is a second-level table link rather
// than a leaf, per the tagged-op scheme documented in internal/huffcode.
func isLinkEntry(entry huffcode.Code) bool {
	const flags = huffcode.FlagBase | huffcode.FlagEnd | huffcode.FlagInvalid
	return entry.Op != 0 && entry.Op&flags == 0
}

// litLenSymbol builds the huffcode.Symbol for literal/length alphabet
// position i given its code length, shared by the fixed-table provider's
// layout (fixed.go) and the dynamic TABLE builder above.
func litLenSymbol(i int, length uint8) huffcode.Symbol {
	switch {
	case i < 256:
		return huffcode.LiteralSymbol(int(length), uint16(i))
	case i == 256:
		return huffcode.EndSymbol(int(length))
	default:
		j := i - 257
		return huffcode.BaseSymbol(int(length), lengthBase[j], lengthExtra[j])
	}
}

func distBaseAt(i int) uint16 {
	if i < len(distBase) {
		return distBase[i]
	}
	return 0
}

func distExtraAt(i int) uint8 {
	if i < len(distExtra) {
		return distExtra[i]
	}
	return 0
}
