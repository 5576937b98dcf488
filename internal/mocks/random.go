package mocks

import (
	"github.com/vancomm/hexsweeper/internal/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntNResults is a queue of results to return from IntN
	IntNResults []int
	intNIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

func NewMockRandom(values ...int) *MockRandom {
	return &MockRandom{IntNResults: values}
}

// IntN returns the next queued result, or 0 if none remaining. Queued values
// are clamped into [0, n).
func (r *MockRandom) IntN(n int) int {
	if r.intNIndex >= len(r.IntNResults) || n <= 0 {
		return 0
	}
	result := r.IntNResults[r.intNIndex]
	r.intNIndex++
	if result >= n {
		result = n - 1
	}
	if result < 0 {
		result = 0
	}
	return result
}


