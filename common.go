// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package inflate

import "fmt"

// Error is the concrete error type returned for malformed DEFLATE streams,
// the inflate analogue of dsnet/compress/flate's CorruptInputError. It
// carries the diagnostic string the state machine attaches to a BAD
// transition, mirroring the caller-visible descriptor's msg field.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "inflate: " + e.Msg }

func errData(msg string) *Error { return &Error{Msg: msg} }

// FlushCode selects when Write may suspend even though it could make more
// progress, matching the caller contract's flush parameter.
type FlushCode int

const (
	NoFlush   FlushCode = 0
	SyncFlush FlushCode = 2
	FullFlush FlushCode = 3
	Finish    FlushCode = 4
	Block     FlushCode = 5
	Trees     FlushCode = 6
)

func (f FlushCode) String() string {
	switch f {
	case NoFlush:
		return "NoFlush"
	case SyncFlush:
		return "SyncFlush"
	case FullFlush:
		return "FullFlush"
	case Finish:
		return "Finish"
	case Block:
		return "Block"
	case Trees:
		return "Trees"
	default:
		return fmt.Sprintf("FlushCode(%d)", int(f))
	}
}

// Status is the outcome of a single Write call.
type Status int

const (
	StreamEnd   Status = 1
	OK          Status = 0
	BufError    Status = -5
	DataError   Status = -3
	StreamError Status = -2
	MemError    Status = -4
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case StreamEnd:
		return "StreamEnd"
	case BufError:
		return "BufError"
	case DataError:
		return "DataError"
	case StreamError:
		return "StreamError"
	case MemError:
		return "MemError"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// defaultDmax is the maximum legal back-reference distance: RFC 1951 never
// produces a distance beyond the 32 KiB window, so this is both the sane
// default and the largest value a well-formed stream ever needs.
const defaultDmax = 32768

// maxCodeStorage is the shared arena size for the literal/length,
// distance, and code-length decode tables built within one dynamic block.
// 1444 is the historical zlib ENOUGH bound (852 for lens + 592 for dists);
// the code-length table (max 19 symbols, 7-bit root) fits comfortably
// inside the head room both of those leave unused at block start.
const maxCodeStorage = 1444
