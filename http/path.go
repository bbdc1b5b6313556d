package http

import (
	"iter"
	"strings"
)

// ValidPath checks the request target against the path grammar: an absolute path made of
// non-empty segments, with an optional trailing slash (directory form), optionally followed
// by a query of key[=value] pairs joined by ampersands.
func ValidPath(target string) bool {
	path, query, hasQuery := strings.Cut(target, "?")
	if !validAbsPath(path) {
		return false
	}

	if hasQuery {
		return validQuery(query)
	}

	return true
}

func validAbsPath(path string) bool {
	if len(path) == 0 || path[0] != '/' {
		return false
	}

	if len(path) == 1 {
		return true
	}

	// the directory form has an empty last segment
	path = strings.TrimSuffix(path[1:], "/")

	for {
		segment, rest, found := strings.Cut(path, "/")
		if len(segment) == 0 {
			return false
		}

		for i := 0; i < len(segment); i++ {
			if !segmentChars[segment[i]] {
				return false
			}
		}

		if !found {
			return true
		}

		path = rest
	}
}

func validQuery(query string) bool {
	if len(query) == 0 {
		return false
	}

	for _, pair := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if len(key) == 0 {
			return false
		}

		for i := 0; i < len(key); i++ {
			if !queryChars[key[i]] {
				return false
			}
		}

		for i := 0; i < len(value); i++ {
			if !queryChars[value[i]] {
				return false
			}
		}
	}

	return true
}

// SplitPath separates the path from the query string.
func SplitPath(target string) (path, query string) {
	path, query, _ = strings.Cut(target, "?")
	return path, query
}

// WalkQuery iterates over key[=value] pairs of a query string. Keys without a value yield
// an empty value.
func WalkQuery(query string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for len(query) > 0 {
			var pair string
			pair, query, _ = strings.Cut(query, "&")
			if len(pair) == 0 {
				continue
			}

			key, value, _ := strings.Cut(pair, "=")
			if !yield(key, value) {
				return
			}
		}
	}
}

// FirstSegment returns the leading segment of the path including its slash, that is,
// everything up to but excluding the second slash. The root path is its own first segment.
func FirstSegment(path string) string {
	if len(path) <= 1 {
		return path
	}

	if slash := strings.IndexByte(path[1:], '/'); slash != -1 {
		return path[:slash+1]
	}

	return path
}

var (
	segmentChars = newCharset(func(c byte) bool {
		return !strings.ContainsRune(` ?#/\"<>|^{}`+"`", rune(c))
	})
	queryChars = newCharset(func(c byte) bool {
		return !strings.ContainsRune(` ?#&=\"<>|^{}`+"`", rune(c))
	})
)

// newCharset builds a lookup table of allowed bytes. Control characters and DEL are
// never allowed, bytes of multibyte UTF-8 sequences always are.
func newCharset(allowed func(c byte) bool) (set [256]bool) {
	for i := range set {
		c := byte(i)
		set[i] = c > ' ' && c != 0x7f && (c >= 0x80 || allowed(c))
	}

	return set
}
