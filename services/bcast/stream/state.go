// Package stream runs one polling or watching loop per broadcast feed.
package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned by Start while a loop is still active.
	ErrAlreadyRunning = errors.New("stream already running")
	// ErrNoChange is returned by a Source when nothing new arrived before its
	// wait timed out.
	ErrNoChange = errors.New("no change")
	// ErrUnknownFeed is returned for a feed name that is not in the table.
	ErrUnknownFeed = errors.New("unknown feed")
)

// StatusError reports a non-200 answer from the broadcast source.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s from %s", e.Status, e.URL)
}

// Health is the outcome of the latest fetch cycle.
type Health int

const (
	HealthUnknown Health = iota
	HealthOk
	HealthNotOk
)

func (h Health) String() string {
	switch h {
	case HealthOk:
		return "ok"
	case HealthNotOk:
		return "not_ok"
	default:
		return "unknown"
	}
}

// MarshalText encodes the health as its name.
func (h Health) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// State describes a feed at one point in time. Sequence only advances on a
// successful fetch and decode.
type State struct {
	Running  bool   `json:"running"`
	Health   Health `json:"health"`
	Sequence uint64 `json:"sequence"`
}
