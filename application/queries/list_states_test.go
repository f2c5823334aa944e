package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListStatesQuery(t *testing.T) {
	q := NewListStatesQuery("true")
	require.True(t, q.Filtered())
	assert.True(t, *q.Contiguous)

	q = NewListStatesQuery("false")
	require.True(t, q.Filtered())
	assert.False(t, *q.Contiguous)

	for _, raw := range []string{"", "TRUE", "yes", "1"} {
		assert.False(t, NewListStatesQuery(raw).Filtered(), raw)
	}
}
