// Package monitor periodically refreshes an owner's points balance and keeps
// the most recent reading for display.
package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	klog "github.com/Klingon-tech/hashcase/internal/log"
)

// ErrInvalidInterval is returned by Run for a non-positive interval.
var ErrInvalidInterval = errors.New("refresh interval must be positive")

// Balancer reports an owner's total balance. *points.Aggregator implements it.
type Balancer interface {
	TotalBalance(ctx context.Context, owner string) (uint64, error)
}

// Reading is the result of one poll. When Err is set, Balance is the last
// known value and should be shown as stale.
type Reading struct {
	Seq     uint64
	Owner   string
	Balance uint64
	Err     error
	At      time.Time
}

// Stale reports whether the reading came from a failed query.
func (r Reading) Stale() bool { return r.Err != nil }

// Display holds the reading of the newest poll applied so far. Polls may
// finish out of order; an older poll never replaces a newer one.
type Display struct {
	mu      sync.Mutex
	seq     uint64
	set     bool
	reading Reading
}

// Apply records r as the result of poll seq, setting r.Seq. It returns false, leaving the
// display unchanged, when a poll with an equal or higher seq was applied.
func (d *Display) Apply(seq uint64, r Reading) bool {
	return d.apply(seq, r, nil)
}

// apply runs fn under the lock so renders happen in sequence order.
func (d *Display) apply(seq uint64, r Reading, fn func(Reading)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.set && seq <= d.seq {
		return false
	}
	r.Seq = seq
	d.seq, d.set, d.reading = seq, true, r
	if fn != nil {
		fn(r)
	}
	return true
}

// Current returns the latest reading. ok is false before the first Apply.
func (d *Display) Current() (r Reading, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reading, d.set
}

// DefaultMaxInFlight bounds concurrent polls when Refresher.MaxInFlight is zero.
const DefaultMaxInFlight = 4

// Refresher polls a Balancer into a Display.
type Refresher struct {
	// MaxInFlight caps polls started by Run that have not finished. A tick
	// that would exceed it is skipped. Zero means DefaultMaxInFlight.
	MaxInFlight int

	bal      Balancer
	display  *Display
	seq      atomic.Uint64
	inFlight atomic.Int64
	now      func() time.Time
}

// NewRefresher creates a refresher. A nil display gets a fresh one.
func NewRefresher(bal Balancer, display *Display) *Refresher {
	if display == nil {
		display = &Display{}
	}
	return &Refresher{bal: bal, display: display, now: time.Now}
}

// Display returns the display the refresher writes to.
func (r *Refresher) Display() *Display {
	return r.display
}

// Poll queries once and applies the result. onUpdate, if non-nil, is called
// when the reading is applied. It returns whether the reading was applied.
func (r *Refresher) Poll(ctx context.Context, owner string, onUpdate func(Reading)) bool {
	seq := r.seq.Add(1)
	bal, err := r.bal.TotalBalance(ctx, owner)
	if err != nil && ctx.Err() != nil {
		// Shutting down; a cancelled query is not a reading.
		return false
	}
	reading := Reading{Owner: owner, Balance: bal, Err: err, At: r.now()}
	applied := r.display.apply(seq, reading, onUpdate)
	if !applied {
		klog.Monitor.Debug().
			Uint64("seq", seq).
			Str("owner", owner).
			Msg("Discarded out-of-order reading")
	}
	return applied
}

// Run polls immediately and then every interval until ctx is cancelled.
// A slow poll does not delay the next one; the display keeps whichever
// finished poll was started last. At most MaxInFlight polls run at once.
// Run waits for in-flight polls before returning.
func (r *Refresher) Run(ctx context.Context, owner string, interval time.Duration, onUpdate func(Reading)) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	limit := int64(r.MaxInFlight)
	if limit <= 0 {
		limit = DefaultMaxInFlight
	}
	var wg sync.WaitGroup
	defer wg.Wait()

	poll := func() {
		if n := r.inFlight.Add(1); n > limit {
			r.inFlight.Add(-1)
			klog.Monitor.Debug().
				Str("owner", owner).
				Int64("in_flight", n-1).
				Msg("Skipped refresh tick, polls still running")
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer r.inFlight.Add(-1)
			r.Poll(ctx, owner, onUpdate)
		}()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	klog.Monitor.Info().
		Str("owner", owner).
		Dur("interval", interval).
		Msg("Balance refresh started")
	poll()

	for {
		select {
		case <-ctx.Done():
			klog.Monitor.Info().Str("owner", owner).Msg("Balance refresh stopped")
			return nil
		case <-ticker.C:
			poll()
		}
	}
}
