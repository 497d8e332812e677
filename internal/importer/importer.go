// Package importer splits an output log into one file per stream.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"logimport/pkg/linebuffer"
	"logimport/pkg/outputlog"
)

const (
	// DefaultInlineLimit is the largest chunk read into memory in one piece.
	// Larger chunks are streamed to their sink.
	DefaultInlineLimit = 64 * 1024

	// DefaultResetEvery is how many chunks are imported between releases of
	// the chunk buffer.
	DefaultResetEvery = 100
)

// ErrSinkCollision reports two streams whose sink files would be the same.
var ErrSinkCollision = errors.New("sink name collision")

// Config controls an import.
type Config struct {
	Input       string   // path of the output log, "" reads standard input
	OutputDir   string   // directory receiving one <stream>.out file per stream
	Streams     []string // streams to import, empty imports all
	InlineLimit int      // 0 means DefaultInlineLimit
	ResetEvery  int      // 0 means DefaultResetEvery
	Logger      *slog.Logger
}

// Stats summarizes an import.
type Stats struct {
	Chunks  int
	Skipped int
	Bytes   map[string]int64
}

// SinkName returns the file name used for a stream.
func SinkName(stream string) string {
	return strings.ReplaceAll(stream, "/", "_") + ".out"
}

// Run imports cfg.Input into cfg.OutputDir. The context is checked between
// chunks.
func Run(ctx context.Context, cfg Config) (stats Stats, err error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	inlineLimit := cfg.InlineLimit
	if inlineLimit <= 0 {
		inlineLimit = DefaultInlineLimit
	}
	resetEvery := cfg.ResetEvery
	if resetEvery <= 0 {
		resetEvery = DefaultResetEvery
	}
	for _, stream := range cfg.Streams {
		if !outputlog.ValidStreamName(stream) {
			return stats, fmt.Errorf("invalid stream name %q", stream)
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}

	lb, err := linebuffer.Open(cfg.Input)
	if err != nil {
		return stats, err
	}
	sinks := newSinkSet(cfg.OutputDir)
	defer func() {
		err = errors.Join(err, sinks.Close(), lb.Close())
	}()

	stats.Bytes = make(map[string]int64)
	reader := outputlog.NewReader(lb)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		h, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("chunk %d: %w", stats.Chunks+stats.Skipped+1, err)
		}

		if len(cfg.Streams) > 0 && !slices.Contains(cfg.Streams, h.Stream) {
			if err := reader.SkipContent(); err != nil {
				return stats, fmt.Errorf("chunk %d: %w", stats.Chunks+stats.Skipped+1, err)
			}
			stats.Skipped++
			logger.Debug("Skipped chunk", "stream", h.Stream, "length", h.Length)
			continue
		}

		sink, err := sinks.Get(h.Stream)
		if err != nil {
			return stats, err
		}
		n, err := importChunk(reader, h, sink, inlineLimit)
		stats.Bytes[h.Stream] += int64(n)
		if err != nil {
			return stats, fmt.Errorf("chunk %d (%s): %w", stats.Chunks+stats.Skipped+1, h.Stream, err)
		}
		stats.Chunks++
		logger.Debug("Imported chunk", "stream", h.Stream, "length", h.Length)

		if stats.Chunks%resetEvery == 0 {
			reader.ResetBlob()
		}
	}

	logger.Info("Import finished", "chunks", stats.Chunks, "skipped", stats.Skipped, "streams", len(stats.Bytes))
	return stats, nil
}

func importChunk(reader *outputlog.Reader, h outputlog.Header, sink io.Writer, inlineLimit int) (int, error) {
	if h.Length > inlineLimit {
		return reader.CopyContent(sink)
	}
	content, err := reader.Content()
	if err != nil {
		return 0, err
	}
	return sink.Write(content)
}

// Cat writes the content of all chunks of one stream to w.
func Cat(ctx context.Context, input, stream string, w io.Writer) (written int64, err error) {
	lb, err := linebuffer.Open(input)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, lb.Close())
	}()

	reader := outputlog.NewReader(lb)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		h, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}
		if h.Stream != stream {
			continue
		}
		n, err := reader.CopyContent(w)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
}

// sinkSet opens one output file per stream on first use. Files are keyed by
// path so two streams mapping to the same file name are refused instead of
// truncating each other.
type sinkSet struct {
	dir     string
	streams map[string]string // stream -> path
	files   map[string]*os.File
	owners  map[string]string // path -> stream
}

func newSinkSet(dir string) *sinkSet {
	return &sinkSet{
		dir:     dir,
		streams: make(map[string]string),
		files:   make(map[string]*os.File),
		owners:  make(map[string]string),
	}
}

func (s *sinkSet) Get(stream string) (*os.File, error) {
	if path, ok := s.streams[stream]; ok {
		return s.files[path], nil
	}
	path := filepath.Join(s.dir, SinkName(stream))
	if owner, ok := s.owners[path]; ok {
		return nil, fmt.Errorf("%w: streams %s and %s both map to %s", ErrSinkCollision, owner, stream, path)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open sink for stream %s: %w", stream, err)
	}
	s.streams[stream] = path
	s.files[path] = f
	s.owners[path] = stream
	return f, nil
}

func (s *sinkSet) Close() error {
	var errs []error
	for path, f := range s.files {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sink for stream %s: %w", s.owners[path], err))
		}
	}
	return errors.Join(errs...)
}
