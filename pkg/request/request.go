package request

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// MaxRequestSize is the most the server reads from a connection.
// Only the request line is used, so a single read of this size is enough.
const MaxRequestSize = 1024

// ErrMalformedRequest is returned when the request line cannot be parsed
var ErrMalformedRequest = errors.New("malformed request")

// Request is the parsed request line of one connection
type Request struct {
	Method string
	Path   string
	Proto  string
}

// String returns the request line without its line terminator
func (r *Request) String() string {
	return r.Method + " " + r.Path + " " + r.Proto
}

// Read performs a single read of at most MaxRequestSize bytes from r.
// A peer that closes without sending anything yields an empty slice and no error.
func Read(r io.Reader) ([]byte, error) {
	buf := make([]byte, MaxRequestSize)
	n, err := r.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return buf[:n], fmt.Errorf("failed to read request: %w", err)
	}
	return buf[:n], nil
}

// Parse extracts method, path and protocol version from the first line of raw.
// Header lines are ignored.
func Parse(raw []byte) (*Request, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty request", ErrMalformedRequest)
	}

	line := raw
	if i := indexLineBreak(raw); i >= 0 {
		line = raw[:i]
	}

	if !utf8.Valid(line) {
		return nil, fmt.Errorf("%w: request line is not valid UTF-8", ErrMalformedRequest)
	}

	fields := strings.Fields(string(line))
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: request line has %d fields, expected 3", ErrMalformedRequest, len(fields))
	}

	if !strings.HasPrefix(fields[1], "/") {
		return nil, fmt.Errorf("%w: path %q does not start with /", ErrMalformedRequest, fields[1])
	}

	return &Request{
		Method: fields[0],
		Path:   fields[1],
		Proto:  fields[2],
	}, nil
}

func indexLineBreak(b []byte) int {
	for i, c := range b {
		if c == '\n' || c == '\r' {
			return i
		}
	}
	return -1
}
