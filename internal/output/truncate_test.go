package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateField(t *testing.T) {
	assert.Equal(t, "short", truncateField("short", 10))
	assert.Equal(t, "abcd…", truncateField("abcdefgh", 5))
	assert.Equal(t, "…", truncateField("abcdefgh", 1))
	assert.Equal(t, "", truncateField("abcdefgh", 0))
	assert.Equal(t, "", truncateField("abcdefgh", -1))
	assert.Equal(t, "ünï…", truncateField("ünïcode", 4))
}
