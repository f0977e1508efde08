package ride

import (
	"sync"

	"github.com/02loveslollipop/tpvbc/services/bcast/athlete"
	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

// Tracker guards a Ride written by the focus loop and read by everyone else.
type Tracker struct {
	mu   sync.RWMutex
	ride *Ride
}

// NewTracker creates a tracker holding a fresh ride.
func NewTracker(a athlete.Athlete) *Tracker {
	return &Tracker{ride: New(a)}
}

// Update merges a focus sample under the write lock.
func (t *Tracker) Update(f models.Focus) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ride.Update(f)
}

// Reset starts a new session.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ride.Reset()
}

// Snapshot returns a copy of the current ride.
func (t *Tracker) Snapshot() Ride {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ride.Clone()
}
