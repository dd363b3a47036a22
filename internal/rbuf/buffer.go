// Package rbuf implements the growable byte buffer used to assemble and
// parse HTTP/1.1 traffic without copying the whole wire image on every
// header insertion or chunk strip.
package rbuf

import "github.com/nabbar/golib/errors"

// Buffer is a single contiguous byte region with two cursors: head marks
// the first unread byte, tail marks one past the last written byte. Both
// cursors live inside len(data); cap(data) is the allocated capacity.
type Buffer struct {
	data []byte
	head int
	tail int
}

// New allocates a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Len returns the number of unread bytes between head and tail.
func (b *Buffer) Len() int {
	return b.tail - b.head
}

// Bytes returns the unread region. The returned slice aliases the
// buffer's storage and is invalidated by the next mutating call.
func (b *Buffer) Bytes() []byte {
	return b.data[b.head:b.tail]
}

// Reset collapses the buffer back to empty without releasing storage.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.head = 0
	b.tail = 0
}

// Append writes p to the tail of the buffer, growing the backing array
// if required. Growth never invalidates an offset already returned by
// Index since offsets are relative to head, not to a pointer.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
	b.tail = len(b.data)
}

// Collapse removes the first n unread bytes, advancing head. It is the
// primary operation used to discard a consumed chunk-length line or a
// parsed status line once the caller has copied what it needs out.
func (b *Buffer) Collapse(n int) errors.Error {
	if n < 0 || n > b.Len() {
		return newErr(ErrBadOffset, "collapse: n=%d exceeds available=%d", n, b.Len())
	}
	b.head += n
	if b.head == b.tail {
		b.Reset()
	}
	return nil
}

// Shift inserts p at the given offset (relative to head), pushing
// everything from that point on to the right. Used to splice an extra
// header line into an already-built request just before the terminating
// blank line.
func (b *Buffer) Shift(offset int, p []byte) errors.Error {
	if offset < 0 || offset > b.Len() {
		return newErr(ErrBadOffset, "shift: offset=%d exceeds available=%d", offset, b.Len())
	}
	at := b.head + offset
	tail := append([]byte{}, b.data[at:b.tail]...)
	b.data = append(b.data[:at], append(append([]byte{}, p...), tail...)...)
	b.tail = len(b.data)
	return nil
}

// Snip removes n bytes starting at offset (relative to head), without
// touching head itself, closing the gap by moving the following bytes
// left.
func (b *Buffer) Snip(offset, n int) errors.Error {
	if offset < 0 || n < 0 || offset+n > b.Len() {
		return newErr(ErrBadOffset, "snip: offset=%d n=%d exceeds available=%d", offset, n, b.Len())
	}
	at := b.head + offset
	b.data = append(b.data[:at], b.data[at+n:]...)
	b.tail = len(b.data)
	return nil
}

// Integrity verifies the cursor invariant 0 <= head <= tail <= len(data).
// It returns an error instead of panicking so callers can turn a buffer
// corruption into a PROTOCOL_MALFORMED-class failure.
func (b *Buffer) Integrity() errors.Error {
	if b.head < 0 || b.tail < b.head || b.tail > len(b.data) {
		return newErr(ErrCorrupt, "integrity: head=%d tail=%d len=%d", b.head, b.tail, len(b.data))
	}
	return nil
}

// Index returns the offset (relative to head) of the first occurrence of
// sep in the unread region, or -1 if not found.
func (b *Buffer) Index(sep []byte) int {
	hay := b.Bytes()
	if len(sep) == 0 || len(sep) > len(hay) {
		return -1
	}
outer:
	for i := 0; i+len(sep) <= len(hay); i++ {
		for j := range sep {
			if hay[i+j] != sep[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
