package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatches(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e"}

	got := Batches(texts, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, got)

	assert.Equal(t, [][]string{texts}, Batches(texts, 0))
	assert.Empty(t, Batches(nil, 3))
}
