package response

import (
	"bytes"
	"io"
	"strconv"
)

// Protocol is the version written on every status line
const Protocol = "HTTP/1.1"

// Status codes the server produces
const (
	StatusOK                  = 200
	StatusMovedPermanently    = 301
	StatusBadRequest          = 400
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

var reasonPhrases = map[int]string{
	StatusOK:                  "OK",
	StatusMovedPermanently:    "Moved Permanently",
	StatusBadRequest:          "Bad Request",
	StatusForbidden:           "Forbidden",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "Internal Server Error",
	StatusServiceUnavailable:  "Service Unavailable",
}

// TextPlain is the content type used for error bodies
const TextPlain = "text/plain"

// StatusText returns the reason phrase for a status code, or "Unknown"
func StatusText(code int) string {
	if reason, ok := reasonPhrases[code]; ok {
		return reason
	}
	return "Unknown"
}

// Response is a fully determined HTTP/1.1 response
type Response struct {
	StatusCode  int
	Reason      string
	ContentType string
	Body        []byte
}

// New creates a response with the reason phrase looked up from the status code
func New(code int, body []byte, contentType string) Response {
	return Response{
		StatusCode:  code,
		Reason:      StatusText(code),
		ContentType: contentType,
		Body:        body,
	}
}

// Text creates a plain-text response whose body is "<code> <reason>"
func Text(code int) Response {
	return New(code, []byte(strconv.Itoa(code)+" "+StatusText(code)), TextPlain)
}

// Status returns the status code and reason phrase, e.g. "404 Not Found"
func (r Response) Status() string {
	return strconv.Itoa(r.StatusCode) + " " + r.Reason
}

// Header renders the status line, headers and the blank line that ends them
func (r Response) Header() []byte {
	var buf bytes.Buffer
	buf.WriteString(Protocol)
	buf.WriteByte(' ')
	buf.WriteString(r.Status())
	buf.WriteString("\r\n")
	buf.WriteString("Content-Type: ")
	buf.WriteString(r.ContentType)
	buf.WriteString("; charset=UTF-8\r\n")
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(r.Body)))
	buf.WriteString("\r\n\r\n")
	return buf.Bytes()
}

// Bytes returns the complete wire form: header block followed by the raw body
func (r Response) Bytes() []byte {
	header := r.Header()
	out := make([]byte, 0, len(header)+len(r.Body))
	out = append(out, header...)
	return append(out, r.Body...)
}

// WriteTo writes the complete response to w in a single call
func (r Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

// Build renders a response for the given status, body and content type
func Build(code int, body []byte, contentType string) []byte {
	return New(code, body, contentType).Bytes()
}
