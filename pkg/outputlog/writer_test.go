package outputlog

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputLogIoWriter_StreamWriter(t *testing.T) {
	var buf bytes.Buffer
	writer := NewOutputLogWriter(&buf)

	stdoutWriter := writer.StreamWriter("stdout")

	n, err := stdoutWriter.Write([]byte("Hello world\n"))
	require.NoError(t, err)
	require.Equal(t, 12, n)

	require.NoError(t, writer.Close())

	// Parse back to verify
	reader, err := NewOutputLogReader(&buf)
	require.NoError(t, err)

	chunk, err := reader.ReadChunk()
	require.NoError(t, err)
	require.Equal(t, "stdout", chunk.Stream)
	require.Equal(t, "Hello world\n", string(chunk.Line))
}

func TestOutputLogIoWriter_Channel(t *testing.T) {
	var buf bytes.Buffer
	writer := NewOutputLogWriter(&buf)

	timestamp := time.Date(2025, 1, 7, 12, 34, 56, 789000000, time.UTC)
	writer.Channel() <- Chunk{
		Stream:    "stdout",
		Timestamp: timestamp,
		Line:      []byte("test message\n"),
	}

	require.NoError(t, writer.Close())

	reader, err := NewOutputLogReader(&buf)
	require.NoError(t, err)

	parsedChunk := <-reader.Channel()
	require.NoError(t, parsedChunk.Error)
	require.Equal(t, "stdout", parsedChunk.Stream)
	require.Equal(t, "test message\n", string(parsedChunk.Line))
	require.True(t, parsedChunk.Timestamp.Equal(timestamp))
}

func TestOutputLogIoWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer := NewOutputLogWriter(&buf)

	stdoutWriter := writer.StreamWriter("stdout")
	stderrWriter := writer.StreamWriter("stderr")

	var err error
	_, err = stdoutWriter.Write([]byte("stdout line 1\n"))
	require.NoError(t, err)
	_, err = stderrWriter.Write([]byte("stderr line 1\n"))
	require.NoError(t, err)
	_, err = stdoutWriter.Write([]byte("stdout line 2"))
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	reader, err := NewOutputLogReader(&buf)
	require.NoError(t, err)

	result, err := reader.All()
	require.NoError(t, err)

	require.Len(t, result, 2)
	require.Equal(t, "stdout line 1\nstdout line 2", string(result["stdout"]))
	require.Equal(t, "stderr line 1\n", string(result["stderr"]))
}

func TestOutputLogIoWriter_BinaryData(t *testing.T) {
	var buf bytes.Buffer
	writer := NewOutputLogWriter(&buf)

	binaryData := allBytes()
	n, err := writer.StreamWriter("stdout").Write(binaryData)
	require.NoError(t, err)
	require.Equal(t, len(binaryData), n)

	require.NoError(t, writer.Close())

	reader, err := NewOutputLogReader(&buf)
	require.NoError(t, err)
	result, err := reader.All()
	require.NoError(t, err)
	require.Equal(t, binaryData, result["stdout"])
}

func TestOutputLogIoWriter_EmptyWrite(t *testing.T) {
	var buf bytes.Buffer
	writer := NewOutputLogWriter(&buf)

	n, err := writer.StreamWriter("stdout").Write([]byte{})
	require.NoError(t, err)
	require.Equal(t, 0, n)

	require.NoError(t, writer.Close())
	require.Equal(t, 0, buf.Len())
}

func TestOutputLogIoWriter_InvalidStreamName(t *testing.T) {
	var buf bytes.Buffer
	writer := NewOutputLogWriter(&buf)
	defer writer.Close()

	require.Panics(t, func() { writer.StreamWriter("not valid") })
}

func TestOutputLogIoWriter_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	writer := NewOutputLogWriter(&buf)

	const writers = 8
	const writesPerWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := writer.StreamWriter(fmt.Sprintf("stream%d", i))
			for j := 0; j < writesPerWriter; j++ {
				_, err := fmt.Fprintf(w, "%d-%d\n", i, j)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, writer.Close())

	reader, err := NewOutputLogReader(&buf)
	require.NoError(t, err)

	count := 0
	for chunk := range reader.Channel() {
		require.NoError(t, chunk.Error)
		count++
	}
	require.Equal(t, writers*writesPerWriter, count)
}

func TestOutputLogIoWriter_OrderPreservation(t *testing.T) {
	var buf bytes.Buffer
	writer := NewOutputLogWriter(&buf)

	stdoutWriter := writer.StreamWriter("stdout")
	for i := 0; i < 100; i++ {
		_, err := fmt.Fprintf(stdoutWriter, "line %d\n", i)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader, err := NewOutputLogReader(&buf)
	require.NoError(t, err)

	i := 0
	for chunk := range reader.Channel() {
		require.NoError(t, chunk.Error)
		require.Equal(t, fmt.Sprintf("line %d\n", i), string(chunk.Line))
		i++
	}
	require.Equal(t, 100, i)
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestOutputLogIoWriter_WriteErrorReportedOnClose(t *testing.T) {
	writer := NewOutputLogWriter(brokenWriter{})

	_, err := writer.StreamWriter("stdout").Write([]byte("lost"))
	require.NoError(t, err)

	err = writer.Close()
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken pipe")
}
