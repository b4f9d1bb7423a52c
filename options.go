// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package inflate

// Option configures an Inflater at construction time. These replace what
// were once compile-time toggles (INFLATE_STRICT and
// INFLATE_ALLOW_INVALID_DISTANCE_TOOFAR_ARRR): dsnet/compress/flate.NewReader
// takes no options at all, so this package reaches for the
// functional-options shape used throughout the wider Go ecosystem instead
// of build tags, which would make the choice a whole-binary decision
// rather than a per-Inflater one.
type Option func(*Inflater)

// WithSane controls whether a back-reference distance that reaches further
// back than the window's contents plus this call's output is a data error
// (sane, the default) or is satisfied by emitting zero bytes for the
// unreachable prefix (insane). This stays opt-in, matching zlib's own
// default; the field name `sane` is carried over unchanged since flipping
// it off really does mean "intentionally tolerate garbage input".
func WithSane(sane bool) Option {
	return func(z *Inflater) { z.sane = sane }
}

// WithMaxDistance overrides dmax, the largest back-reference distance this
// Inflater accepts under INFLATE_STRICT-equivalent checking. The RFC 1951
// default is 32768 (the largest window size); most callers never need this.
func WithMaxDistance(n int) Option {
	return func(z *Inflater) { z.dmax = n }
}

// WithTracer attaches a diagnostic hook invoked at points such as block
// boundaries and fast-decoder exit, the same shape as an asynchronous
// flate reader's `tracers []Tracer` field. It has no effect on decoding
// and exists purely for observability.
func WithTracer(t Tracer) Option {
	return func(z *Inflater) { z.tracer = t }
}

// Tracer receives diagnostic callbacks from an Inflater. The callbacks
// receive only counts and flags, never slices of the Inflater's buffers.
type Tracer interface {
	// OnBlock is called whenever TYPEDO reads a new block header, before
	// any of that block's tables are installed or built, reporting the
	// block type (0 stored, 1 fixed, 2 dynamic, 3 reserved) and whether it
	// is the final block in the stream.
	OnBlock(blockType int, last bool)
	// OnFastExit is called whenever the fast decoder returns control to
	// the slow state machine, reporting how many bytes it consumed and
	// produced before doing so.
	OnFastExit(consumed, produced int)
}
