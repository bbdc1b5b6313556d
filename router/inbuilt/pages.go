package inbuilt

import (
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/encoding"
	"github.com/indigo-web/tinyhttp/http/mime"
	"github.com/indigo-web/tinyhttp/http/status"
)

const pagesDir = "msgbody"

// fallbackPages are used whenever msgbody lacks the page.
var fallbackPages = map[status.Code]string{
	status.BadRequest:          "400 Bad Request: the server could not understand the request.\n",
	status.Unauthorized:        "401 Unauthorized: invalid credentials.\n",
	status.NotFound:            "404 Not Found: the requested resource does not exist.\n",
	status.MethodNotAllowed:    "405 Method Not Allowed: %s is not allowed for this resource.\n",
	status.Conflict:            "409 Conflict: the resource already exists.\n",
	status.InternalServerError: "500 Internal Server Error: the server failed to process the request.\n",
}

var internalError = func() *http.Response {
	response, err := http.Respond(status.InternalServerError).
		ContentType(mime.Plain).
		String(fallbackPages[status.InternalServerError]).
		Build()
	if err != nil {
		panic(err)
	}

	return response
}()

// pages renders the canned responses. Pages are read on every render, so they can be
// edited without a restart.
type pages struct {
	fsys fs.FS
}

// render returns the canned page of the code. The 405 page names the method in place of
// the first %s, if there's any.
func (p pages) render(code status.Code, method string) *http.Response {
	text := p.template(code)
	if code == status.MethodNotAllowed {
		text = strings.Replace(text, "%s", method, 1)
	}

	response, err := http.Respond(code).
		ContentType(mime.Plain).
		String(text).
		Build()
	if err != nil {
		return internalError
	}

	return response
}

func (p pages) template(code status.Code) string {
	name := path.Join(pagesDir, strconv.Itoa(int(code))+".txt")
	if data, err := fs.ReadFile(p.fsys, name); err == nil {
		return encoding.DecodeText(data)
	}

	if text, found := fallbackPages[code]; found {
		return text
	}

	return string(status.Text(code)) + "\n"
}

func (p pages) redirect(target redirect) *http.Response {
	response, err := http.Respond(target.code).
		Header("Location", target.to).
		Build()
	if err != nil {
		return internalError
	}

	return response
}
