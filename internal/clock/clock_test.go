package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRealTickerTicks(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	ticker := New().NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		require.FailNow(t, "ticker did not fire")
	}
}
