package contenttype

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"html", "/srv/index.html", "text/html"},
		{"png", "/srv/img/logo.png", "image/png"},
		{"uppercase extension", "/srv/IMG/PHOTO.JPG", "image/jpeg"},
		{"css", "style.css", "text/css"},
		{"javascript", "app.js", "text/javascript"},
		{"unknown extension", "/srv/data.unknownext", "application/octet-stream"},
		{"no extension", "/srv/Makefile", "application/octet-stream"},
		{"dot file", "/srv/.hidden", "application/octet-stream"},
		{"trailing dot", "/srv/file.", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.path)
			if got != tt.expected {
				t.Errorf("Expected %q for %s, got %q", tt.expected, tt.path, got)
			}
		})
	}
}

func TestResolveNeverReturnsParameters(t *testing.T) {
	for ext := range knownTypes {
		got := Resolve("file" + ext)
		if got == "" {
			t.Errorf("Expected a type for %s, got empty string", ext)
		}
		for _, c := range got {
			if c == ';' {
				t.Errorf("Expected a bare media type for %s, got %q", ext, got)
			}
		}
	}
}
