package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/niels/tinyhttpd/pkg/request"
)

var (
	// ErrForbidden is returned for paths that resolve outside the document root
	ErrForbidden = errors.New("path escapes document root")
	// ErrNotFound is returned when the target is missing or is a directory
	ErrNotFound = errors.New("file not found")
)

// resolvePath maps a request path onto the filesystem below root.
// The query string is dropped and percent-escapes are decoded before joining.
func resolvePath(root, reqPath string) (string, error) {
	p := reqPath
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}

	decoded, err := url.PathUnescape(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", request.ErrMalformedRequest, err)
	}
	if strings.IndexByte(decoded, 0) >= 0 {
		return "", fmt.Errorf("%w: path contains NUL byte", request.ErrMalformedRequest)
	}

	target := filepath.Join(root, filepath.FromSlash(decoded))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrForbidden, reqPath)
	}

	return target, nil
}

// loadFile reads target if it is an existing regular file.
// Missing paths and directories yield ErrNotFound; anything else is an internal error.
func (s *Server) loadFile(target string) ([]byte, error) {
	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", target, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, target)
	}

	data, err := s.readFile(target)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}
	return data, nil
}
