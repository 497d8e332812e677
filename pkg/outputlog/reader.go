// Package outputlog defines a simple protocol to multiplex several streams into one stream. See
// doc.go for docs.
package outputlog

import (
	"errors"
	"fmt"
	"io"

	"logimport/pkg/linebuffer"
)

type OutputLogReader interface {
	// StreamReader returns an io.Reader for reading one stream. Example: You want to read only the
	// stream "stdout". Other stream and the timestamps get ignored.
	StreamReader(stream string) io.Reader

	// Channel returns a channel which emits Chunks.
	Channel() <-chan Chunk

	// All returns a map with stream as key and the data as bytes. Timestamps get ignored.
	All() (map[string][]byte, error)
}

// Reader reads chunks one at a time. Like archive/tar, Next advances to the
// next chunk and the content of the current chunk is consumed with Read,
// Content, CopyContent or SkipContent. Unconsumed content is skipped by Next.
type Reader struct {
	lb *linebuffer.LineBuffer

	inChunk   bool
	remaining int // content bytes of the current chunk not consumed yet
}

var _ OutputLogReader = &Reader{}

// NewReader returns a Reader on top of lb. The caller keeps ownership of lb.
func NewReader(lb *linebuffer.LineBuffer) *Reader {
	return &Reader{lb: lb}
}

// NewOutputLogReader creates a Reader reading from reader.
func NewOutputLogReader(reader io.Reader) (*Reader, error) {
	return NewReader(linebuffer.New(reader)), nil
}

// Next skips whatever is left of the current chunk and reads the next
// header. It returns io.EOF at the end of the stream.
func (r *Reader) Next() (Header, error) {
	if r.inChunk {
		if err := r.SkipContent(); err != nil {
			return Header{}, err
		}
	}

	line, err := r.lb.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, io.EOF
		}
		return Header{}, fmt.Errorf("reading header: %w", err)
	}

	h, err := ParseHeader(line)
	if err != nil {
		return Header{}, err
	}
	r.inChunk = true
	r.remaining = h.Length
	return h, nil
}

// Read reads content of the current chunk. It returns io.EOF once the
// content is exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if !r.inChunk || r.remaining == 0 {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	blob, err := r.lb.ReadBlob(min(len(p), r.remaining))
	if err != nil {
		return 0, fmt.Errorf("reading content: %w", err)
	}
	if len(blob) == 0 {
		return 0, fmt.Errorf("%w: %d content bytes missing", ErrTruncated, r.remaining)
	}
	r.remaining -= len(blob)
	return copy(p, blob), nil
}

// Content returns the rest of the current chunk's content. The slice is
// only valid until the next call on r.
func (r *Reader) Content() ([]byte, error) {
	if !r.inChunk {
		return nil, io.EOF
	}
	want := r.remaining
	blob, err := r.lb.ReadBlob(want)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if len(blob) < want {
		return nil, fmt.Errorf("%w: got %d of %d content bytes", ErrTruncated, len(blob), want)
	}
	r.remaining = 0
	if err := r.finish(); err != nil {
		return nil, err
	}
	return blob, nil
}

// CopyContent copies the rest of the current chunk's content to w.
func (r *Reader) CopyContent(w io.Writer) (int, error) {
	if !r.inChunk {
		return 0, io.EOF
	}
	want := r.remaining
	n, err := r.lb.CopyBytes(want, w)
	r.remaining -= n
	if err != nil {
		return n, fmt.Errorf("copying content: %w", err)
	}
	if n < want {
		return n, fmt.Errorf("%w: got %d of %d content bytes", ErrTruncated, n, want)
	}
	return n, r.finish()
}

// SkipContent discards the rest of the current chunk's content.
func (r *Reader) SkipContent() error {
	if !r.inChunk {
		return nil
	}
	want := r.remaining
	n, err := r.lb.SkipBytes(want)
	r.remaining -= n
	if err != nil {
		return fmt.Errorf("skipping content: %w", err)
	}
	if n < want {
		return fmt.Errorf("%w: got %d of %d content bytes", ErrTruncated, n, want)
	}
	return r.finish()
}

// ResetBlob drops the memory held for chunk content.
func (r *Reader) ResetBlob() {
	r.lb.ResetBlob()
}

// finish consumes the separator after the content.
func (r *Reader) finish() error {
	line, err := r.lb.ReadLine()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: missing separator", ErrTruncated)
	}
	if err != nil {
		return fmt.Errorf("reading separator: %w", err)
	}
	if len(line) != 0 {
		return fmt.Errorf("%w: expected newline separator, got %q", ErrInvalidHeader, line)
	}
	r.inChunk = false
	return nil
}

// ReadChunk reads the next chunk including a copy of its content.
func (r *Reader) ReadChunk() (Chunk, error) {
	h, err := r.Next()
	if err != nil {
		return Chunk{}, err
	}
	content, err := r.Content()
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{
		Stream:    h.Stream,
		Timestamp: h.Timestamp,
		Line:      append([]byte(nil), content...),
	}, nil
}

// Channel returns a channel which emits all remaining chunks. A read error
// is emitted as a Chunk with Error set, after which the channel is closed.
// The Reader must not be used by the caller while the channel is open.
func (r *Reader) Channel() <-chan Chunk {
	channel := make(chan Chunk)
	go r.readToChannel(channel)
	return channel
}

func (r *Reader) readToChannel(channel chan<- Chunk) {
	defer close(channel)
	for {
		chunk, err := r.ReadChunk()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			channel <- Chunk{Error: err}
			return
		}
		channel <- chunk
	}
}

// StreamReader returns an io.Reader over the concatenated content of all
// remaining chunks of one stream.
func (r *Reader) StreamReader(stream string) io.Reader {
	return &streamReader{
		reader: r,
		stream: stream,
	}
}

type streamReader struct {
	reader *Reader
	stream string
	active bool
}

func (sr *streamReader) Read(p []byte) (int, error) {
	for {
		if sr.active {
			n, err := sr.reader.Read(p)
			if n > 0 || !errors.Is(err, io.EOF) {
				return n, err
			}
			sr.active = false
		}

		h, err := sr.reader.Next()
		if err != nil {
			return 0, err
		}
		sr.active = h.Stream == sr.stream
	}
}

// All reads all remaining chunks and returns the content per stream.
// Timestamps get ignored.
func (r *Reader) All() (map[string][]byte, error) {
	result := make(map[string][]byte)
	for {
		h, err := r.Next()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return result, err
		}
		content, err := r.Content()
		if err != nil {
			return result, err
		}
		result[h.Stream] = append(result[h.Stream], content...)
	}
}
