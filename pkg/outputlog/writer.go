package outputlog

import (
	"fmt"
	"io"
	"time"
)

type OutputLogWriter interface {
	// StreamWriter writes to on io.Writer in OutputLog format. Timestamps get added
	// automatically.
	StreamWriter(stream string) io.Writer

	// Channel returns a channel to write Chunks
	Channel() chan<- Chunk

	// Close closes the writer, waits for all pending writes to complete and
	// returns the first write error.
	Close() error
}

type OutputLogIoWriter struct {
	chunks chan Chunk
	done   chan struct{}
	err    error // set by the writer goroutine, read after done is closed
}

var _ OutputLogWriter = &OutputLogIoWriter{}

// StreamWriter returns an io.Writer that writes to the specified stream.
// It panics if stream is not a valid stream name.
func (o *OutputLogIoWriter) StreamWriter(stream string) io.Writer {
	if !ValidStreamName(stream) {
		panic(fmt.Sprintf("outputlog: invalid stream name %q", stream))
	}
	return &streamWriter{
		stream: stream,
		chunks: o.chunks,
	}
}

// Channel returns a channel for writing Chunks
// Do not close the returned channel. Call Close() on the writer instead.
func (o *OutputLogIoWriter) Channel() chan<- Chunk {
	return o.chunks
}

// Close closes the writer and waits for all pending writes to complete
func (o *OutputLogIoWriter) Close() error {
	close(o.chunks)
	<-o.done
	return o.err
}

// streamWriter implements io.Writer for a specific stream
type streamWriter struct {
	stream string
	chunks chan<- Chunk
}

func (sw *streamWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	chunk := Chunk{
		Stream:    sw.stream,
		Timestamp: time.Now().UTC(),
		Line:      append([]byte(nil), p...), // Make a copy of the data
	}

	sw.chunks <- chunk

	return len(p), nil
}

// NewOutputLogWriter creates a new OutputLogWriter that writes to the given io.Writer
// The internal goroutine will run until Close() is called
func NewOutputLogWriter(writer io.Writer) *OutputLogIoWriter {
	o := &OutputLogIoWriter{
		chunks: make(chan Chunk, 100),
		done:   make(chan struct{}),
	}

	// Single goroutine that owns the io.Writer
	go func() {
		defer close(o.done)
		for chunk := range o.chunks {
			if o.err != nil {
				continue
			}
			if _, err := writer.Write(FormatChunk(chunk)); err != nil {
				o.err = fmt.Errorf("writing chunk: %w", err)
			}
		}
	}()

	return o
}
