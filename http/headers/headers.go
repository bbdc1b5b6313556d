package headers

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Header struct {
	Key, Value string
}

// Headers is an immutable ordered set of header fields. Field names are unique, compared
// case-insensitively, and the order of insertion is kept, so serializing the same headers
// twice always produces the same bytes. Lookups are linear, which is faster than a map
// on the small amounts of fields HTTP messages usually carry.
type Headers struct {
	pairs []Header
}

// Get returns a value and a bool, indicating whether the value was found.
func (h Headers) Get(key string) (value string, found bool) {
	for _, pair := range h.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Value returns the value corresponding to the key. Otherwise, empty string is returned
func (h Headers) Value(key string) string {
	return h.ValueOr(key, "")
}

// ValueOr returns either the value corresponding to the key or custom value, defined
// via the second parameter.
func (h Headers) ValueOr(key, or string) string {
	value, found := h.Get(key)
	if !found {
		return or
	}

	return value
}

// Has indicates, whether there's an entry of the key
func (h Headers) Has(key string) bool {
	_, found := h.Get(key)
	return found
}

func (h Headers) Len() int {
	return len(h.pairs)
}

// Iter returns an iterator over the pairs in the order of insertion.
func (h Headers) Iter() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range h.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Unwrap returns a copy of underlying pairs.
func (h Headers) Unwrap() []Header {
	return clone(h.pairs)
}

// Equal reports whether both contain the same pairs in the same order.
func (h Headers) Equal(other Headers) bool {
	if len(h.pairs) != len(other.pairs) {
		return false
	}

	for i, pair := range h.pairs {
		if pair != other.pairs[i] {
			return false
		}
	}

	return true
}

func clone[T any](source []T) []T {
	if len(source) == 0 {
		return nil
	}

	newSlice := make([]T, len(source))
	copy(newSlice, source)

	return newSlice
}
