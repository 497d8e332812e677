// Package outputlog defines a simple protocol to multiplex several streams into one stream.
//
// # OutputLog Format
//
// # Overview
//
// Goals:
//
//  1. Preserve the exact output including binary data
//  2. Differentiate between streams (For example: stdout, stderr, stdin)
//  3. Include timestamps for each chunk
//  4. Let a reader skip or copy a chunk without looking at its bytes
//  5. Detect truncated writes
//
// # Format Specification
//
// Each chunk is a header line followed by the content and a separator:
//
//	stream timestamp length\n
//	content\n
//
// The header is plain text and never longer than a few hundred bytes. The
// content is exactly length bytes and may contain anything. The separator
// \n after the content is always written, so a missing separator means the
// writer was interrupted.
//
// # Fields
//
//   - stream: Matches regex [a-zA-Z0-9_./-]{1,64}. For example: stdout, stderr, or stdin.
//   - timestamp: UTC timestamp in RFC 3339 format: 2006-01-02T15:04:05.000000000Z.
//     Readers accept any number of fractional digits.
//   - length: Non-negative decimal byte length of the content
//   - content: The actual output bytes (exactly length bytes). Content can contain newlines.
//   - separator \n: Always added after the content
//
// # Examples
//
// Example 1: Line with trailing newline
//
//	stdout 2025-01-07T12:34:56.789000000Z 12\n
//	Hello world\n
//	\n
//
//	- Content is "Hello world\n" (12 bytes, including the newline)
//
// Example 2: Line without trailing newline
//
//	stdout 2025-01-07T12:34:56.789000000Z 7\n
//	prompt>\n
//
//	- Content is "prompt>" (7 bytes, no trailing newline)
//
// # Binary Data Support
//
// The format supports binary data including:
//
//   - Null bytes (\0)
//   - Non-printable characters
//   - Any byte value from 0-255
//
// Headers are read with [linebuffer.LineBuffer.ReadLine] and content with the
// binary-safe blob, copy and skip operations of the same LineBuffer.
package outputlog
