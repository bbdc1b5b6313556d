package mime

import (
	"path"
)

type MIME = string

const (
	Plain MIME = "text/plain"
	HTML  MIME = "text/html"
	JSON  MIME = "application/json"
	JPEG  MIME = "image/jpeg"
	PNG   MIME = "image/png"
)

// Extension maps file extensions (without a leading dot) to the content type they're
// served with. There is intentionally no fallback for unknown extensions.
var Extension = map[string]MIME{
	"html": HTML,
	"txt":  Plain,
	"json": JSON,
	"jpg":  JPEG,
	"png":  PNG,
}

// Ext returns the extension of the last path element without the leading dot. Empty
// string is returned if there is no dot at all.
func Ext(filename string) string {
	ext := path.Ext(filename)
	if len(ext) == 0 {
		return ""
	}

	return ext[1:]
}

// ByExtension resolves the content type of the file by its name.
func ByExtension(filename string) (MIME, bool) {
	ext := Ext(filename)
	if len(ext) == 0 {
		return "", false
	}

	m, found := Extension[ext]
	return m, found
}
