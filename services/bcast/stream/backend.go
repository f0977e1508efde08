package stream

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

const filePrefix = "file://"

// Backend opens a Source for one feed below a base address.
type Backend interface {
	Open(ctx context.Context, base string, kind models.Kind) (Source, error)
	// Interval returns the pause after a successful cycle, given the feed's
	// own poll interval.
	Interval(feed time.Duration) time.Duration
	Name() string
}

// Source produces raw payloads for one feed.
type Source interface {
	// Fetch returns the next payload. ErrNoChange means the wait timed out.
	Fetch(ctx context.Context) ([]byte, error)
	Close() error
}

// SelectBackend picks the filesystem backend for file:// addresses and the
// HTTP backend for anything else. It returns the base the backend expects.
func SelectBackend(address string, client *http.Client) (Backend, string) {
	if strings.HasPrefix(address, filePrefix) {
		return NewFileBackend(), strings.TrimPrefix(address, filePrefix)
	}
	return NewHTTPBackend(client), strings.TrimRight(address, "/")
}
