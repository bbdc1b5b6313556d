package method

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethod(t *testing.T) {
	for _, method := range List {
		assert.Equal(t, method.String(), Parse(method.String()).String())
	}

	for _, str := range []string{"", "get", "PUT", "DELETE", "HEAD", "OPTIONS", "POSTS"} {
		assert.Equal(t, Unknown, Parse(str), str)
	}
}
