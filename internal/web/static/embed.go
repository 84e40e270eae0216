// Package static holds the single-page shell served at /.
package static

import (
	"embed"
	"errors"
	"io/fs"
	"path"
	"strings"
)

//go:embed dist
var distFS embed.FS

const shellPage = "index.html"

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "application/javascript",
	".css":  "text/css",
	".ico":  "image/x-icon",
}

// Asset returns the embedded file for a request path and its content type.
// "/" and paths with no matching file resolve to the shell page, so the UI
// survives client-side navigation and reloads.
func Asset(urlPath string) ([]byte, string, error) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = shellPage
	}

	data, err := fs.ReadFile(distFS, "dist/"+name)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		name = shellPage
		data, err = fs.ReadFile(distFS, "dist/"+name)
	}
	if err != nil {
		return nil, "", err
	}
	return data, contentType(name), nil
}

func contentType(name string) string {
	if ct, ok := contentTypes[path.Ext(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}
