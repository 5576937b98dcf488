package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntNRange(t *testing.T) {
	r := New()
	for n := 1; n < 50; n++ {
		for range 20 {
			v := r.IntN(n)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, n)
		}
	}
	assert.Equal(t, 0, r.IntN(0))
	assert.Equal(t, 0, r.IntN(-3))
}

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(1, 2), NewSeeded(1, 2)
	for range 100 {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}
