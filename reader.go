// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package inflate

import "io"

// Reader adapts an Inflater to the io.Reader interface, grounded on
// dsnet/compress/flate.Reader's own Read loop: pull a chunk of compressed
// bytes into an internal buffer, hand it to the decoder along with the
// caller's slice, and repeat until a call produces output or the stream
// ends. Output the decoder can still produce from input it already holds
// is drained before more compressed bytes are read. There is no goroutine and no lookahead decoder running
// ahead of Read; everything happens synchronously inside the call, since
// Inflater.Write is already resumable across short reads.
type Reader struct {
	z   *Inflater
	r   io.Reader
	buf []byte // unconsumed compressed bytes, buf[off:]
	off int
	err error // sticky error, once encountered
}

// NewReader returns a Reader that decompresses a raw DEFLATE stream read
// from r, using a window sized for wbits (see NewInflater).
func NewReader(r io.Reader, wbits int, opts ...Option) *Reader {
	return &Reader{
		z:   NewInflater(wbits, opts...),
		r:   r,
		buf: make([]byte, 0, 32*1024),
	}
}

// Read implements io.Reader. It returns io.EOF only once the DEFLATE stream
// has reported its own logical end (a final block fully consumed); a short
// underlying read that doesn't yet supply a full block is retried
// internally rather than surfaced to the caller.
func (zr *Reader) Read(p []byte) (int, error) {
	if zr.err != nil {
		return 0, zr.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	for first := true; ; first = false {
		if zr.off == len(zr.buf) && !first {
			n, err := zr.r.Read(zr.buf[:cap(zr.buf)])
			zr.buf = zr.buf[:n]
			zr.off = 0
			if n == 0 && err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				zr.err = err
				return 0, zr.err
			}
		}

		nIn, nOut, status := zr.z.Write(zr.buf[zr.off:], p, NoFlush)
		zr.off += nIn

		switch status {
		case StreamEnd:
			zr.err = io.EOF
			return nOut, nil
		case DataError:
			zr.err = zr.z.Err()
			return nOut, zr.err
		case StreamError, MemError:
			zr.err = &Error{Msg: zr.z.Msg()}
			return nOut, zr.err
		}
		if nOut > 0 {
			return nOut, nil
		}
		// nOut == 0 and status is OK/BufError: the chunk we handed Write
		// only got as far as a block boundary without emitting a byte.
		// Loop around for more compressed input and try again.
	}
}

// Reset discards any state and configures zr to read a new DEFLATE stream
// from r, reusing the existing Inflater and its window allocation.
func (zr *Reader) Reset(r io.Reader) error {
	zr.r = r
	zr.buf = zr.buf[:0]
	zr.off = 0
	zr.err = nil
	return zr.z.ResetKeep()
}

// Close is a no-op; Reader does not own r and there is nothing to release
// beyond what garbage collection already handles.
func (zr *Reader) Close() error { return nil }
