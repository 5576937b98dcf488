package mocks

import (
	"sync"
	"time"

	"github.com/vancomm/hexsweeper/internal/clock"
)

// MockClock is a mock implementation of Clock for testing. Tickers it creates
// only fire when Tick is called.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	tickers     []*MockTicker
}

var _ clock.Clock = (*MockClock)(nil)

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTicker{
		Interval: d,
		ch:       make(chan time.Time),
		done:     make(chan struct{}),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Active returns the number of tickers that have not been stopped.
func (c *MockClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

// Tick advances the clock by one second and delivers a tick to every active
// ticker, blocking until each one has been received or stopped. It returns the
// number of tickers that received the tick.
func (c *MockClock) Tick() int {
	c.mu.Lock()
	c.CurrentTime = c.CurrentTime.Add(time.Second)
	now := c.CurrentTime
	tickers := make([]*MockTicker, 0, len(c.tickers))
	for _, t := range c.tickers {
		if !t.Stopped() {
			tickers = append(tickers, t)
		}
	}
	c.mu.Unlock()

	delivered := 0
	for _, t := range tickers {
		select {
		case t.ch <- now:
			delivered++
		case <-t.done:
		}
	}
	return delivered
}

type MockTicker struct {
	Interval time.Duration
	ch       chan time.Time
	done     chan struct{}
	once     sync.Once
}

func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

func (t *MockTicker) Stop() {
	t.once.Do(func() { close(t.done) })
}

func (t *MockTicker) Stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
