package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	name, ok := Title("FR")
	assert.True(t, ok)
	assert.Equal(t, "France", name)

	// Lookup is case-insensitive.
	name, ok = Title("us")
	assert.True(t, ok)
	assert.Equal(t, "United States", name)

	_, ok = Title("XX")
	assert.False(t, ok)

	_, ok = Title("")
	assert.False(t, ok)
}
