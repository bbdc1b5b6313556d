package transport

import (
	"bytes"
	"io"
	"strings"

	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/internal/buffer"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

var crlfcrlf = []byte("\r\n\r\n")

// framer cuts the byte stream into messages: everything up to and including the first
// empty line is the head, and exactly Content-Length (0 if absent) bytes after it are
// the body. Whatever follows belongs to the next message and is pushed back.
type framer struct {
	reader  *reader
	head    buffer.Buffer
	maxBody int
}

func newFramer(r *reader, cfg *config.Config) *framer {
	return &framer{
		reader:  r,
		head:    buffer.New(cfg.NET.ReadBufferSize, cfg.Head.MaxSize),
		maxBody: cfg.Body.MaxSize,
	}
}

// Next returns exactly one message. io.EOF is returned only if the stream ended cleanly
// between two messages.
func (f *framer) Next() ([]byte, error) {
	f.head.Reset()

	for {
		data, err := f.reader.Read()
		if err != nil {
			if err == io.EOF && f.head.Len() > 0 {
				err = io.ErrUnexpectedEOF
			}

			return nil, err
		}

		seen := f.head.Len()
		// the terminator may begin in the previous chunk
		from := max(0, seen-len(crlfcrlf)+1)
		fits := f.head.Append(data)
		head := f.head.Bytes()

		if i := bytes.Index(head[from:], crlfcrlf); i != -1 {
			end := from + i + len(crlfcrlf)
			return f.body(head[:end], data[end-seen:])
		}

		if fits < len(data) || f.head.Full() {
			return nil, ErrHeadTooLarge
		}
	}
}

func (f *framer) body(head, rest []byte) ([]byte, error) {
	length := contentLength(head)
	if length > f.maxBody {
		return nil, ErrBodyTooLarge
	}

	message := make([]byte, 0, len(head)+length)
	message = append(message, head...)

	for {
		n := min(length-(len(message)-len(head)), len(rest))
		message = append(message, rest[:n]...)
		if n < len(rest) {
			f.reader.Pushback(rest[n:])
		}

		if len(message)-len(head) == length {
			return message, nil
		}

		var err error
		if rest, err = f.reader.Read(); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}

			return nil, err
		}
	}
}

// contentLength looks the header up in a raw head. Missing or malformed values are
// treated as zero, leaving the rest to the message parser.
func contentLength(head []byte) int {
	lines := uf.B2S(head)
	for len(lines) > 0 {
		var line string
		line, lines, _ = strings.Cut(lines, "\r\n")
		key, value, found := strings.Cut(line, ":")
		if !found || !strcomp.EqualFold(key, "Content-Length") {
			continue
		}

		length, err := http.ContentLength(strings.Trim(value, " \t"))
		if err != nil {
			return 0
		}

		return length
	}

	return 0
}
