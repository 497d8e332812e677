// Package outputlog defines a simple protocol to multiplex several streams into one stream. See
// doc.go for docs.
package outputlog

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TimestampFormat is the layout written into chunk headers.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z"

var (
	ErrInvalidHeader = errors.New("invalid chunk header")
	ErrTruncated     = errors.New("truncated chunk")
)

var streamNameRe = regexp.MustCompile(`^[a-zA-Z0-9_./-]{1,64}$`)

// ValidStreamName reports whether name can be used as a stream name.
func ValidStreamName(name string) bool {
	return streamNameRe.MatchString(name)
}

// Chunk represents a single piece of output of one stream
type Chunk struct {
	Stream    string
	Timestamp time.Time // UTC timestamp
	Line      []byte    // The actual content (may include newlines)
	Error     error
}

// Header is the first line of a chunk.
type Header struct {
	Stream    string
	Timestamp time.Time
	Length    int
}

// FormatHeader formats the header line of a chunk, including its newline.
func FormatHeader(h Header) []byte {
	timestamp := h.Timestamp.UTC().Format(TimestampFormat)
	return fmt.Appendf(nil, "%s %s %d\n", h.Stream, timestamp, h.Length)
}

// FormatChunk formats a Chunk into the output.log format:
// "stream timestamp length\n" followed by the content and a separator "\n".
func FormatChunk(chunk Chunk) []byte {
	result := FormatHeader(Header{
		Stream:    chunk.Stream,
		Timestamp: chunk.Timestamp,
		Length:    len(chunk.Line),
	})
	result = append(result, chunk.Line...)
	result = append(result, '\n')
	return result
}

// ParseHeader parses a header line without its trailing newline.
func ParseHeader(line []byte) (Header, error) {
	var h Header

	fields := bytes.Split(line, []byte{' '})
	if len(fields) != 3 {
		return h, fmt.Errorf("%w: expected 3 fields, got %d", ErrInvalidHeader, len(fields))
	}

	h.Stream = string(fields[0])
	if !ValidStreamName(h.Stream) {
		return h, fmt.Errorf("%w: bad stream name %q", ErrInvalidHeader, h.Stream)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, string(fields[1]))
	if err != nil {
		return h, fmt.Errorf("%w: parsing timestamp: %w", ErrInvalidHeader, err)
	}
	h.Timestamp = timestamp.UTC()

	h.Length, err = strconv.Atoi(string(fields[2]))
	if err != nil {
		return h, fmt.Errorf("%w: parsing length: %w", ErrInvalidHeader, err)
	}
	if h.Length < 0 {
		return h, fmt.Errorf("%w: negative length %d", ErrInvalidHeader, h.Length)
	}

	return h, nil
}
