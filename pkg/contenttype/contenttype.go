package contenttype

import (
	"mime"
	"path/filepath"
	"strings"
)

// Fallback is returned for files whose extension is missing or unknown
const Fallback = "application/octet-stream"

// knownTypes pins the common types so they don't depend on the host's mime.types files
var knownTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".txt":  "text/plain",
	".css":  "text/css",
	".js":   "text/javascript",
	".mjs":  "text/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".mp4":  "video/mp4",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".wasm": "application/wasm",
}

// Resolve returns the MIME type for a file path based on its extension.
// It never fails: anything it cannot classify maps to Fallback.
func Resolve(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Fallback
	}

	if mediaType, ok := knownTypes[ext]; ok {
		return mediaType
	}

	// mime.TypeByExtension may return parameters such as "; charset=utf-8"
	if mediaType := mime.TypeByExtension(ext); mediaType != "" {
		return strings.TrimSpace(strings.Split(mediaType, ";")[0])
	}

	return Fallback
}
