// Package linebuffer reads a line-and-length-prefixed input stream.
//
// A LineBuffer hands out newline-terminated text lines from a fixed-size
// scratch area, binary blobs of a given length from a growable buffer, and
// can copy or skip byte ranges without materializing them. All operations
// read through one buffered reader in call order, so lines and blobs can be
// interleaved freely.
//
// ReadLine is the text path: it is bounded by LineBufferLen and splits on
// '\n' only. ReadBlob is the binary path: any byte, NUL and '\n' included,
// is returned as-is. Record formats should read their headers with ReadLine
// and their payloads with ReadBlob, CopyBytes or SkipBytes.
package linebuffer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"logimport/pkg/strbuf"
)

const (
	// LineBufferLen is the size of the line scratch area. A line may hold
	// at most LineBufferLen-1 bytes of content.
	LineBufferLen = 10000

	// CopyBufferLen is the chunk size used by CopyBytes and SkipBytes.
	CopyBufferLen = 4096
)

var (
	// ErrOpen reports that the input file could not be opened.
	ErrOpen = errors.New("cannot open input")

	// ErrRead wraps a failure of the input stream other than end of input.
	ErrRead = errors.New("read failed")

	// ErrWrite wraps a failure of the sink passed to CopyBytes.
	ErrWrite = errors.New("write failed")

	// ErrLineTooLong reports a line that does not fit in the scratch area.
	ErrLineTooLong = errors.New("line too long")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("line buffer is closed")
)

// LineBuffer tokenizes one input stream. It is not safe for concurrent use.
type LineBuffer struct {
	in   *bufio.Reader
	file *os.File // nil when the stream is borrowed

	line [LineBufferLen]byte
	blob strbuf.Buffer

	err    error // first read error, reported again by Close
	closed bool
}

// Open opens the named file for reading. The empty name reads standard
// input, which Close leaves open.
func Open(name string) (*LineBuffer, error) {
	if name == "" {
		return New(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	b := New(f)
	b.file = f
	return b, nil
}

// New returns a LineBuffer reading from r. Close does not close r.
func New(r io.Reader) *LineBuffer {
	return &LineBuffer{in: bufio.NewReaderSize(r, CopyBufferLen)}
}

// Close releases the blob storage and, if the stream was opened by Open
// from a path, closes it. It returns the first read error seen on the
// stream, if any, joined with the error from closing the file.
func (b *LineBuffer) Close() error {
	if b.closed {
		return ErrClosed
	}
	b.closed = true
	b.blob.Release()

	err := b.err
	if b.file != nil {
		if cerr := b.file.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing input: %w", cerr))
		}
	}
	return err
}

func (b *LineBuffer) readFailed(err error) error {
	if b.err == nil {
		b.err = err
	}
	return fmt.Errorf("%w: %w", ErrRead, err)
}

// ReadLine returns the next line without its trailing '\n'. The last line
// of the stream does not need a terminator. It returns io.EOF when the
// stream is exhausted and ErrLineTooLong when a line does not fit in the
// scratch area; no attempt is made to resynchronize after that.
//
// The returned slice is only valid until the next call to ReadLine.
func (b *LineBuffer) ReadLine() ([]byte, error) {
	if b.closed {
		return nil, ErrClosed
	}

	n := 0
	for {
		c, err := b.in.ReadByte()
		if err == io.EOF {
			if n == 0 {
				return nil, io.EOF
			}
			return b.line[:n], nil
		}
		if err != nil {
			return nil, b.readFailed(err)
		}
		if c == '\n' {
			return b.line[:n], nil
		}
		if n == len(b.line)-1 {
			// cannot fail directly after a successful ReadByte
			_ = b.in.UnreadByte()
			return nil, fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, n)
		}
		b.line[n] = c
		n++
	}
}

// ReadBlob reads up to n bytes into the blob buffer and returns them. The
// result is shorter than n only if the stream ended first.
//
// The returned slice is only valid until the next call to ReadBlob or
// ResetBlob.
func (b *LineBuffer) ReadBlob(n int) ([]byte, error) {
	if b.closed {
		return nil, ErrClosed
	}
	b.blob.Reset()
	if _, err := b.blob.FillFrom(b.in, n); err != nil {
		return nil, b.readFailed(err)
	}
	return b.blob.Bytes(), nil
}

// CopyBytes copies up to n bytes from the stream to w and returns the
// number of bytes copied. Hitting the end of the stream early is not an
// error.
func (b *LineBuffer) CopyBytes(n int, w io.Writer) (int, error) {
	return b.consume(n, w)
}

// SkipBytes discards up to n bytes from the stream and returns the number
// of bytes skipped. Hitting the end of the stream early is not an error.
func (b *LineBuffer) SkipBytes(n int) (int, error) {
	return b.consume(n, nil)
}

func (b *LineBuffer) consume(n int, w io.Writer) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}

	var chunk [CopyBufferLen]byte
	done := 0
	for n > 0 {
		in, err := io.ReadFull(b.in, chunk[:min(n, CopyBufferLen)])
		n -= in
		done += in
		if w != nil && in > 0 {
			if _, werr := w.Write(chunk[:in]); werr != nil {
				return done, fmt.Errorf("%w: %w", ErrWrite, werr)
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return done, b.readFailed(err)
		}
	}
	return done, nil
}

// ResetBlob releases the blob storage without touching the stream.
func (b *LineBuffer) ResetBlob() {
	b.blob.Release()
}
