package models

import (
	"fmt"
	"strings"
)

// Kind identifies one broadcast feed.
type Kind int

const (
	KindFocus Kind = iota
	KindNearest
	KindEvent
	KindEntries
	KindGroups
	KindResultsIndv
	KindResultsTeam
)

// Kinds lists every feed in a stable order.
var Kinds = []Kind{
	KindFocus,
	KindNearest,
	KindEvent,
	KindEntries,
	KindGroups,
	KindResultsIndv,
	KindResultsTeam,
}

var kindNames = map[Kind]string{
	KindFocus:       "focus",
	KindNearest:     "nearest",
	KindEvent:       "event",
	KindEntries:     "entries",
	KindGroups:      "groups",
	KindResultsIndv: "resultsIndv",
	KindResultsTeam: "resultsTeam",
}

// String returns the upstream name, which is also the URL path segment and
// the file stem.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Path is the URL path below the source base address.
func (k Kind) Path() string {
	return "bcast/" + k.String()
}

// FileName is the file read by the filesystem source.
func (k Kind) FileName() string {
	return k.String() + ".json"
}

// MarshalText encodes the feed name.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown feed kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// ParseKind resolves a feed name, case-insensitively.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if strings.EqualFold(kindNames[k], name) {
			return k, true
		}
	}
	return 0, false
}
