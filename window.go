// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package inflate

// window is the sliding buffer of most-recently produced output bytes that
// back-references read from once they reach further back than the output
// already produced by the current Write call. The field names (wsize,
// whave, wnext) follow zlib's inflate_state rather than the dictDecoder
// naming klauspost/compress/flate and dsnet/compress/brotli use, since this
// package doesn't buffer unread output inside the window the way those
// do — the caller's own out slice is the only output buffer, and the
// window exists purely to serve back-references that outlive it.
type window struct {
	wbits int
	wsize int // 2^wbits, set by init before the buffer is allocated
	whave int // valid bytes currently held, <= wsize
	wnext int // next write position, < wsize
	buf   []byte
}

// init records the window's configured size without allocating; allocation
// is deferred to the first update, lazily allocated on first need.
func (w *window) init(wbits int) {
	w.wbits = wbits
	w.wsize = 1 << uint(wbits)
	w.whave = 0
	w.wnext = 0
	w.buf = nil
}

// clear drops any history without discarding the allocated buffer, for
// reuse by a fresh stream whose window size matches the one already
// allocated.
func (w *window) clear() {
	w.whave = 0
	w.wnext = 0
}

func (w *window) ensureAlloc() {
	if w.buf == nil {
		w.buf = make([]byte, w.wsize)
	}
}

// update folds the last n bytes of out into the window (the window only
// ever needs the tail of whatever slice the caller just finished writing
// into).
func (w *window) update(out []byte, n int) {
	if n == 0 {
		return
	}
	w.ensureAlloc()
	tail := out[len(out)-n:]

	if n >= w.wsize {
		copy(w.buf, tail[len(tail)-w.wsize:])
		w.wnext = 0
		w.whave = w.wsize
		return
	}

	room := w.wsize - w.wnext
	if room > len(tail) {
		room = len(tail)
	}
	copy(w.buf[w.wnext:], tail[:room])
	w.wnext += room
	if w.wnext == w.wsize {
		w.wnext = 0
	}

	rest := tail[room:]
	if len(rest) > 0 {
		copy(w.buf[w.wnext:], rest)
		w.wnext += len(rest)
	}

	w.whave += len(tail)
	if w.whave > w.wsize {
		w.whave = w.wsize
	}
}

// atBack returns the byte `back` positions before the window's current
// write cursor (1 means the most recently folded byte). The caller must
// ensure back is within [1, whave].
func (w *window) atBack(back int) byte {
	idx := w.wnext - back
	if idx < 0 {
		idx += w.wsize
	}
	return w.buf[idx]
}

// setDictionary seeds the window with a preset dictionary. It behaves like
// a call to update with the dictionary as the only output ever produced,
// so later back-references may reach into it.
func (w *window) setDictionary(dict []byte) {
	w.ensureAlloc()
	w.whave = 0
	w.wnext = 0
	w.update(dict, len(dict))
}
