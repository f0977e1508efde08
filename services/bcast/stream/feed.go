package stream

import (
	"fmt"
	"time"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

const (
	// FastInterval paces the focus and nearest feeds.
	FastInterval = 250 * time.Millisecond
	// SlowInterval paces the event, entries, groups and results feeds.
	SlowInterval = 1000 * time.Millisecond
	// RetryInterval is the pause after any failed cycle.
	RetryInterval = 1000 * time.Millisecond
)

// Decoder turns a payload into the next record. fresh is false when the
// payload held nothing new and prev was kept.
type Decoder[T any] func(raw []byte, prev T) (next T, fresh bool, err error)

// Feed describes one row of the feed table.
type Feed[T any] struct {
	Kind     models.Kind
	Interval time.Duration
	Initial  T
	Decode   Decoder[T]
	// OnRecord runs in the loop with every fresh record, before it is
	// published.
	OnRecord func(T)
}

// Single builds a feed whose record is the first array element. An empty
// array keeps the previous record.
func Single[T any](kind models.Kind, interval time.Duration, initial T) Feed[T] {
	return Feed[T]{
		Kind:     kind,
		Interval: interval,
		Initial:  initial,
		Decode: func(raw []byte, prev T) (T, bool, error) {
			items, err := decodeArray[T](raw)
			if err != nil {
				return prev, false, fmt.Errorf("decode %s: %w", kind, err)
			}
			if len(items) == 0 {
				return prev, false, nil
			}
			return items[0], true, nil
		},
	}
}

// Collection builds a feed whose record is the whole array. An empty array
// is published as an empty list.
func Collection[E any](kind models.Kind, interval time.Duration) Feed[[]E] {
	return Feed[[]E]{
		Kind:     kind,
		Interval: interval,
		Initial:  []E{},
		Decode: func(raw []byte, prev []E) ([]E, bool, error) {
			items, err := decodeArray[E](raw)
			if err != nil {
				return prev, false, fmt.Errorf("decode %s: %w", kind, err)
			}
			return items, true, nil
		},
	}
}

func FocusFeed() Feed[models.Focus] {
	return Single(models.KindFocus, FastInterval, models.NewFocus())
}

func NearestFeed() Feed[[]models.Nearest] {
	return Collection[models.Nearest](models.KindNearest, FastInterval)
}

func EventFeed() Feed[models.Event] {
	return Single(models.KindEvent, SlowInterval, models.NewEvent())
}

func EntriesFeed() Feed[[]models.Entry] {
	return Collection[models.Entry](models.KindEntries, SlowInterval)
}

func GroupsFeed() Feed[[]models.Group] {
	return Collection[models.Group](models.KindGroups, SlowInterval)
}

func ResultsIndvFeed() Feed[[]models.ResultIndv] {
	return Collection[models.ResultIndv](models.KindResultsIndv, SlowInterval)
}

func ResultsTeamFeed() Feed[[]models.ResultTeam] {
	return Collection[models.ResultTeam](models.KindResultsTeam, SlowInterval)
}
