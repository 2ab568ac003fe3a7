package engine

import (
	"time"

	"github.com/goliatone/go-catalog/content"
)

// State is the lifecycle of one kind. There is no error state: a load cycle
// always ends with a publishable collection, possibly empty.
type State int32

const (
	StateIdle State = iota
	StateLoading
	StateReady
	// StateStale marks published content that awaits a refresh, e.g. after a
	// locale switch or a cache clear.
	StateStale
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateStale:
		return "stale"
	default:
		return "idle"
	}
}

// RemotePolicy controls whether a kind consults the remote source.
type RemotePolicy int

const (
	// RemoteNone never calls the remote source.
	RemoteNone RemotePolicy = iota
	// RemoteAnonymous always fetches, attaching a credential when one exists.
	RemoteAnonymous
	// RemoteCredentialed fetches only when a credential is available.
	RemoteCredentialed
)

func (p RemotePolicy) String() string {
	switch p {
	case RemoteAnonymous:
		return "anonymous"
	case RemoteCredentialed:
		return "credentialed"
	default:
		return "none"
	}
}

// KindPolicy is the per-kind load behaviour.
type KindPolicy struct {
	Remote RemotePolicy
	// MergeSupplementary appends the supplementary seed tier to remote results.
	MergeSupplementary bool
}

// DefaultPolicies returns the policy table used when none is configured.
func DefaultPolicies() map[content.Kind]KindPolicy {
	return map[content.Kind]KindPolicy{
		content.KindGuide:       {Remote: RemoteAnonymous, MergeSupplementary: true},
		content.KindChecklist:   {Remote: RemoteCredentialed, MergeSupplementary: true},
		content.KindTemplate:    {Remote: RemoteCredentialed, MergeSupplementary: true},
		content.KindNews:        {Remote: RemoteCredentialed, MergeSupplementary: true},
		content.KindPlace:       {Remote: RemoteNone},
		content.KindBenefitRule: {Remote: RemoteNone},
	}
}

// Origin names where a published collection came from.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginSeeds  Origin = "seeds"
	OriginCache  Origin = "cache"
	OriginNone   Origin = "none"
)

// Snapshot is an immutable published collection. Readers never observe a
// partially built snapshot.
type Snapshot struct {
	Kind        content.Kind
	Language    string
	Items       content.Collection
	Origin      Origin
	Generation  uint64
	PublishedAt time.Time
}

// Event announces a publication.
type Event struct {
	Kind       content.Kind
	Language   string
	Origin     Origin
	Count      int
	Generation uint64
	At         time.Time
}
