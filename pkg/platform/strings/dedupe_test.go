package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t,
		[]string{"machining", "model engineering"},
		DedupeAndTrim([]string{"  machining ", "model engineering", "machining", "", "  "}))

	assert.Empty(t, DedupeAndTrim(nil))
	assert.Empty(t, DedupeAndTrim([]string{"", "   "}))
}
