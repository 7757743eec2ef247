package response

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildExactBytes(t *testing.T) {
	got := Build(200, []byte("<h1>hi</h1>\n"), "text/html")
	expected := "HTTP/1.1 200 OK\r\nContent-Type: text/html; charset=UTF-8\r\nContent-Length: 12\r\n\r\n<h1>hi</h1>\n"

	if string(got) != expected {
		t.Errorf("Expected response %q, got %q", expected, string(got))
	}
}

func TestStatusText(t *testing.T) {
	tests := map[int]string{
		200: "OK",
		301: "Moved Permanently",
		400: "Bad Request",
		403: "Forbidden",
		404: "Not Found",
		500: "Internal Server Error",
		503: "Service Unavailable",
		418: "Unknown",
		0:   "Unknown",
	}

	for code, expected := range tests {
		if got := StatusText(code); got != expected {
			t.Errorf("Expected reason %q for %d, got %q", expected, code, got)
		}
	}
}

func TestUnknownStatusStillRenders(t *testing.T) {
	got := string(Build(299, nil, TextPlain))
	if !strings.HasPrefix(got, "HTTP/1.1 299 Unknown\r\n") {
		t.Errorf("Expected status line with Unknown reason, got %q", got)
	}
	if !strings.HasSuffix(got, "Content-Length: 0\r\n\r\n") {
		t.Errorf("Expected empty body with zero length, got %q", got)
	}
}

func TestTextResponses(t *testing.T) {
	tests := []struct {
		code int
		body string
	}{
		{StatusBadRequest, "400 Bad Request"},
		{StatusForbidden, "403 Forbidden"},
		{StatusNotFound, "404 Not Found"},
		{StatusInternalServerError, "500 Internal Server Error"},
		{StatusServiceUnavailable, "503 Service Unavailable"},
	}

	for _, tt := range tests {
		resp := Text(tt.code)
		if string(resp.Body) != tt.body {
			t.Errorf("Expected body %q, got %q", tt.body, string(resp.Body))
		}
		if resp.ContentType != TextPlain {
			t.Errorf("Expected content type %q, got %q", TextPlain, resp.ContentType)
		}
		if resp.Status() != tt.body {
			t.Errorf("Expected status %q, got %q", tt.body, resp.Status())
		}
	}
}

func TestOnlyContentHeaders(t *testing.T) {
	raw := string(New(404, []byte("404 Not Found"), TextPlain).Header())
	lines := strings.Split(strings.TrimSuffix(raw, "\r\n\r\n"), "\r\n")

	if len(lines) != 3 {
		t.Fatalf("Expected status line and two headers, got %d lines: %q", len(lines), lines)
	}
	if lines[1] != "Content-Type: text/plain; charset=UTF-8" {
		t.Errorf("Unexpected Content-Type header: %q", lines[1])
	}
	if lines[2] != "Content-Length: 13" {
		t.Errorf("Unexpected Content-Length header: %q", lines[2])
	}
}

func TestBinaryBodyUnmodified(t *testing.T) {
	body := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, '\r', '\n'}
	resp := New(200, body, "image/png")

	var buf bytes.Buffer
	n, err := resp.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if int(n) != buf.Len() {
		t.Errorf("Expected %d bytes written, got %d", buf.Len(), n)
	}
	if !bytes.HasSuffix(buf.Bytes(), body) {
		t.Errorf("Expected body to be appended unmodified, got %q", buf.Bytes())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Content-Length: 8\r\n")) {
		t.Errorf("Expected Content-Length 8, got %q", buf.Bytes())
	}
}
