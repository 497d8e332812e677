// Package strbuf implements an overflow-safe growable byte buffer.
//
// A Buffer always keeps a NUL byte just past its content once it holds
// storage, so Len() < Cap() whenever Cap() > 0. The zero value is an empty
// buffer with no storage (the sentinel state); the first growth request
// allocates.
//
// Misuse (ranges outside the content, lengths beyond the capacity, sizes
// that overflow int) is a programming error and panics with an error that
// wraps ErrContract or ErrAllocationOverflow.
package strbuf

import (
	"errors"
	"fmt"
	"io"

	"logimport/internal/alloc"
)

var (
	// ErrAllocationOverflow reports a size computation that does not fit in an int.
	ErrAllocationOverflow = errors.New("you want to use way too much memory")

	// ErrContract reports a call with arguments outside the buffer's bounds.
	ErrContract = errors.New("strbuf contract violation")
)

func die(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)))
}

// Buffer is a growable byte buffer that is always NUL terminated once it
// holds storage. A Buffer must not be copied after first use.
type Buffer struct {
	buf []byte // nil in the sentinel state; len(buf) is the capacity
	n   int
}

// New returns a Buffer with room for at least hint bytes.
func New(hint int) *Buffer {
	b := &Buffer{}
	b.Init(hint)
	return b
}

// Init empties b without keeping its storage and grows it by hint bytes
// when hint > 0.
func (b *Buffer) Init(hint int) {
	b.buf = nil
	b.n = 0
	if hint > 0 {
		b.Grow(hint)
	}
}

// Len returns the number of bytes in use.
func (b *Buffer) Len() int { return b.n }

// Cap returns the number of bytes allocated, including the terminator slot.
func (b *Buffer) Cap() int { return len(b.buf) }

// Avail returns how many bytes can be added without reallocating.
func (b *Buffer) Avail() int {
	if b.buf == nil {
		return 0
	}
	return len(b.buf) - b.n - 1
}

// Bytes returns the content. The slice aliases the buffer's storage and is
// only valid until the next modification.
func (b *Buffer) Bytes() []byte {
	if b.buf == nil {
		return []byte{}
	}
	return b.buf[:b.n:b.n]
}

func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Grow makes sure at least extra more bytes (plus the terminator) fit
// without another allocation.
func (b *Buffer) Grow(extra int) {
	if extra < 0 {
		die(ErrContract, "negative growth %d", extra)
	}
	need, ok := alloc.Add(b.n, extra)
	if ok {
		need, ok = alloc.Add(need, 1)
	}
	if !ok {
		die(ErrAllocationOverflow, "length %d plus %d", b.n, extra)
	}
	if need <= len(b.buf) {
		return
	}

	next := make([]byte, alloc.Grow(len(b.buf), need))
	if b.buf != nil {
		copy(next, b.buf[:b.n])
	}
	b.buf = next
}

// SetLen sets the content length to n and terminates it. n must be smaller
// than Cap(); a buffer without storage gets some first.
func (b *Buffer) SetLen(n int) {
	if b.buf == nil {
		b.Grow(0)
	}
	if n < 0 || n >= len(b.buf) {
		die(ErrContract, "length %d does not fit in capacity %d", n, len(b.buf))
	}
	b.n = n
	b.buf[n] = 0
}

// Reset empties the buffer but keeps its storage.
func (b *Buffer) Reset() {
	b.SetLen(0)
}

// Release frees the storage and returns b to the empty state.
func (b *Buffer) Release() {
	if b.buf != nil {
		b.Init(0)
	}
}

// Add appends data.
func (b *Buffer) Add(data []byte) {
	b.Grow(len(data))
	copy(b.buf[b.n:], data)
	b.SetLen(b.n + len(data))
}

// AddString appends s.
func (b *Buffer) AddString(s string) {
	b.Grow(len(s))
	copy(b.buf[b.n:], s)
	b.SetLen(b.n + len(s))
}

// AddByte appends a single byte.
func (b *Buffer) AddByte(c byte) {
	b.Grow(1)
	b.buf[b.n] = c
	b.n++
	b.buf[b.n] = 0
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Add(p)
	return len(p), nil
}

// WriteByte implements io.ByteWriter. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	b.AddByte(c)
	return nil
}

// FillFrom appends up to size bytes read from r and returns how many were
// read. Reaching the end of r early is not an error; other read errors are
// returned together with the count read before them.
//
// When nothing is read and b had no storage before the call, the storage
// allocated for the read is released again.
func (b *Buffer) FillFrom(r io.Reader, size int) (int, error) {
	hadStorage := b.buf != nil
	b.Grow(size)

	n, err := io.ReadFull(r, b.buf[b.n:b.n+size])
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}
	if n > 0 || hadStorage {
		b.SetLen(b.n + n)
	} else {
		b.Release()
	}
	return n, err
}

// Splice replaces the n bytes at pos with data. The tail is moved so that
// the ranges may overlap. data must not alias b.Bytes(): the splice may
// reallocate or move the bytes it points at.
func (b *Buffer) Splice(pos, n int, data []byte) {
	end, ok := alloc.Add(pos, n)
	if !ok {
		die(ErrAllocationOverflow, "range %d+%d", pos, n)
	}
	if pos > b.n {
		die(ErrContract, "pos %d is too far after the end of the buffer (%d)", pos, b.n)
	}
	if end > b.n {
		die(ErrContract, "pos + len %d is too far after the end of the buffer (%d)", end, b.n)
	}

	dlen := len(data)
	if dlen >= n {
		b.Grow(dlen - n)
	}
	copy(b.buf[pos+dlen:], b.buf[end:b.n])
	copy(b.buf[pos:], data)
	b.SetLen(b.n + dlen - n)
}

// Insert inserts data at pos.
func (b *Buffer) Insert(pos int, data []byte) {
	b.Splice(pos, 0, data)
}

// Remove deletes n bytes at pos.
func (b *Buffer) Remove(pos, n int) {
	b.Splice(pos, n, nil)
}
