package logsource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	// DefaultMaxLineSize is the default maximum size (in bytes) of a single input line.
	// Reindexed documents can be large, so this is well above bufio's 64KB default.
	DefaultMaxLineSize = 16 * 1024 * 1024 // 16MB

	initialBufferSize = 64 * 1024
)

// ErrLineTooLong is returned when a line exceeds the configured maximum size.
var ErrLineTooLong = errors.New("logsource: line exceeds max size")

// ReaderConfig holds tunable parameters for a line reader.
type ReaderConfig struct {
	MaxLineSize int
}

// LineReader reads newline-delimited lines synchronously from an io.Reader.
// A final line without a terminator is returned; the empty read at end of
// stream is not.
type LineReader struct {
	scanner     *bufio.Scanner
	name        string
	maxLineSize int
	done        bool
}

// NewLineReader creates a LineReader over r.
func NewLineReader(r io.Reader, name string, conf ...ReaderConfig) *LineReader {
	maxLineSize := DefaultMaxLineSize
	if len(conf) > 0 && conf[0].MaxLineSize > 0 {
		maxLineSize = conf[0].MaxLineSize
	}
	if name == "" {
		name = "reader"
	}

	bufSize := initialBufferSize
	if bufSize > maxLineSize {
		bufSize = maxLineSize
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, bufSize), maxLineSize)

	return &LineReader{
		scanner:     scanner,
		name:        name,
		maxLineSize: maxLineSize,
	}
}

// NewStdinReader creates a LineReader over os.Stdin.
func NewStdinReader(conf ...ReaderConfig) *LineReader {
	return NewLineReader(os.Stdin, "stdin", conf...)
}

// Next returns the next line. The returned slice is owned by the caller.
// A trailing "\r" is stripped.
func (r *LineReader) Next() ([]byte, bool, error) {
	if r.done {
		return nil, false, nil
	}
	if r.scanner.Scan() {
		line := r.scanner.Bytes()
		return append([]byte(nil), line...), true, nil
	}

	r.done = true
	if err := r.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, false, fmt.Errorf("%w (%d bytes)", ErrLineTooLong, r.maxLineSize)
		}
		return nil, false, fmt.Errorf("logsource: %s read: %w", r.name, err)
	}
	return nil, false, nil
}

func (r *LineReader) Name() string { return r.name }

// IsTerminal reports whether f is an interactive terminal rather than a pipe or file.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
