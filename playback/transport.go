package playback

import (
	"sync"
	"time"
)

// Transport is the timing authority behind playback. Start returns a channel
// that receives one value per tick; Stop releases the underlying timer and
// must be safe to call more than once.
type Transport interface {
	Start(interval time.Duration) (<-chan time.Time, error)
	Stop()
}

// TickerTransport ticks once immediately and then every interval.
type TickerTransport struct {
	mu     sync.Mutex
	ticker *time.Ticker
	quit   chan struct{}
}

func NewTickerTransport() *TickerTransport {
	return &TickerTransport{}
}

func (t *TickerTransport) Start(interval time.Duration) (<-chan time.Time, error) {
	if interval <= 0 {
		return nil, ErrBadInterval
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker != nil {
		return nil, ErrTransportBusy
	}

	t.ticker = time.NewTicker(interval)
	t.quit = make(chan struct{})
	out := make(chan time.Time, 1)
	out <- time.Now()

	go func(ticker *time.Ticker, quit chan struct{}) {
		for {
			select {
			case <-quit:
				return
			case now := <-ticker.C:
				select {
				case out <- now:
				case <-quit:
					return
				}
			}
		}
	}(t.ticker, t.quit)

	return out, nil
}

func (t *TickerTransport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.quit)
	t.ticker = nil
	t.quit = nil
}
