package headers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/indigo-web/utils/strcomp"
)

var (
	ErrBadName   = errors.New("header field name must consist of letters and inner hyphens")
	ErrBadValue  = errors.New("header field value must be non-empty and contain no CR or LF")
	ErrDuplicate = errors.New("header field is already present")
)

// Builder collects header fields before they are frozen into Headers. It's the only way
// to produce Headers with content.
type Builder struct {
	pairs []Header
}

func NewBuilder() *Builder {
	return NewPreallocBuilder(0)
}

func NewPreallocBuilder(n int) *Builder {
	return &Builder{
		pairs: make([]Header, 0, n),
	}
}

// Add appends a new field. Field names are validated and must be unique. Surrounding
// whitespace of the value is dropped.
func (b *Builder) Add(key, value string) error {
	value = trimValue(value)

	if !ValidName(key) {
		return fmt.Errorf("%w: %q", ErrBadName, key)
	}

	if !ValidValue(value) {
		return fmt.Errorf("%w: %q", ErrBadValue, key)
	}

	if b.index(key) != -1 {
		return fmt.Errorf("%w: %s", ErrDuplicate, key)
	}

	b.pairs = append(b.pairs, Header{Key: key, Value: value})
	return nil
}

// Set overrides the value of an already present field, keeping its position, or appends
// a new one otherwise.
func (b *Builder) Set(key, value string) error {
	if i := b.index(key); i != -1 {
		value = trimValue(value)
		if !ValidValue(value) {
			return fmt.Errorf("%w: %q", ErrBadValue, key)
		}

		b.pairs[i].Value = value
		return nil
	}

	return b.Add(key, value)
}

// Del removes the field, if present.
func (b *Builder) Del(key string) {
	if i := b.index(key); i != -1 {
		b.pairs = append(b.pairs[:i], b.pairs[i+1:]...)
	}
}

func (b *Builder) Has(key string) bool {
	return b.index(key) != -1
}

// Build freezes collected fields. The builder may be used further without affecting
// already built Headers.
func (b *Builder) Build() Headers {
	return Headers{pairs: clone(b.pairs)}
}

func (b *Builder) index(key string) int {
	for i, pair := range b.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return i
		}
	}

	return -1
}

// ValidName checks the name against [A-Za-z]+(-[A-Za-z]+)*
func ValidName(name string) bool {
	if len(name) == 0 || name[0] == '-' || name[len(name)-1] == '-' {
		return false
	}

	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c == '-':
			if name[i-1] == '-' {
				return false
			}
		case (c|0x20) >= 'a' && (c|0x20) <= 'z':
		default:
			return false
		}
	}

	return true
}

// ValidValue rejects empty values and those that would break the message framing.
func ValidValue(value string) bool {
	if len(value) == 0 {
		return false
	}

	for i := 0; i < len(value); i++ {
		if value[i] == '\r' || value[i] == '\n' {
			return false
		}
	}

	return true
}

func trimValue(value string) string {
	return strings.Trim(value, " \t")
}
