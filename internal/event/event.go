// Package event defines the filesystem-change record that flows from the
// watcher adapter through the bounded bus to the processing coordinator.
package event

import "time"

// Kind enumerates the filesystem change that produced an FsEvent.
type Kind int

const (
	Created Kind = iota
	Modified
	Deleted
	Renamed
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// NumKinds bounds the fixed-size arrays indexed by Kind.
const NumKinds = int(Renamed) + 1

// FsEvent is the immutable record the watcher adapter constructs for every
// filesystem change it observes. OldPath is only set for Renamed.
type FsEvent struct {
	Kind        Kind
	Path        string
	OldPath     string
	Timestamp   time.Time
	Processable bool
}
