package inbuilt

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/encoding"
	"github.com/indigo-web/tinyhttp/http/headers"
	"github.com/indigo-web/tinyhttp/http/method"
	"github.com/indigo-web/tinyhttp/http/mime"
	"github.com/indigo-web/tinyhttp/http/status"
)

const cacheControl = "no-cache"

// Document serves files out of fsys, the request path being the file name. Directories
// are listed one entry per line, however must be requested with the trailing slash,
// otherwise the client is redirected. Files are served only if their extension has a
// known MIME type, and If-Modified-Since matching the modification time literally makes
// a 304 Not Modified.
func Document(fsys fs.FS) Handler {
	return func(request *http.Request) (*http.Response, error) {
		if request.Method() != method.GET {
			return nil, fmt.Errorf("%w: %s", status.ErrMethodNotAllowed, request.Method())
		}

		route := request.Route()
		name := strings.Trim(route, "/")
		// rejects traversals like ../ along with any other non-canonical names
		if !fs.ValidPath(name) {
			return nil, status.ErrNotFound
		}

		info, err := fs.Stat(fsys, name)
		if err != nil {
			return nil, notFound(err)
		}

		isDirForm := strings.HasSuffix(route, "/")

		if info.IsDir() {
			if !isDirForm {
				return http.Respond(status.Found).
					Header("Location", route+"/").
					Build()
			}

			return listing(fsys, name)
		}

		if isDirForm {
			return nil, status.ErrNotFound
		}

		return file(fsys, name, info, request.Headers())
	}
}

func listing(fsys fs.FS, name string) (*http.Response, error) {
	entries, err := fs.ReadDir(fsys, name)
	if err != nil {
		return nil, notFound(err)
	}

	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Name())
		b.WriteByte('\n')
	}

	return http.NewResponseBuilder().
		ContentType(mime.Plain).
		Bytes(encoding.EncodeText(b.String())).
		Build()
}

func file(fsys fs.FS, name string, info fs.FileInfo, hdrs headers.Headers) (*http.Response, error) {
	contentType, found := mime.ByExtension(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", status.ErrUnmappedMIME, name)
	}

	lastModified := headers.FormatDate(info.ModTime())
	if since, found := hdrs.Get("If-Modified-Since"); found && since == lastModified {
		return http.Respond(status.NotModified).
			Header("Last-Modified", lastModified).
			Header("Cache-Control", cacheControl).
			Build()
	}

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, notFound(err)
	}

	return http.NewResponseBuilder().
		ContentType(contentType).
		Bytes(content).
		Header("Last-Modified", lastModified).
		Header("Cache-Control", cacheControl).
		Build()
}

// Welcome serves welcome.txt of fsys, introducing the server by its name.
func Welcome(fsys fs.FS, serverName string) Handler {
	return func(request *http.Request) (*http.Response, error) {
		if request.Method() != method.GET {
			return nil, fmt.Errorf("%w: %s", status.ErrMethodNotAllowed, request.Method())
		}

		content, err := fs.ReadFile(fsys, "welcome.txt")
		if err != nil {
			return nil, notFound(err)
		}

		return http.NewResponseBuilder().
			ContentType(mime.Plain).
			Bytes(content).
			Header("Server", serverName).
			Build()
	}
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", status.ErrNotFound, err)
	}

	return err
}
