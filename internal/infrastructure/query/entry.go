package query

import "time"

// State identifies where a cache entry sits in its fetch lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Policy carries the per-resource freshness knobs. A zero StaleTime means a
// value is stale as soon as it lands; a zero RefetchInterval disables timer
// driven refresh.
type Policy struct {
	StaleTime       time.Duration `json:"staleTime"`
	RefetchInterval time.Duration `json:"refetchInterval"`
}

// entry holds one cached resource value and its fetch lifecycle. A loading
// entry keeps the previous value so readers are never blanked during a
// revalidation; a success entry always carries a value and a fetch
// timestamp. The most recent fetch function is retained so refetches and
// interval refreshes can run without the original caller.
type entry struct {
	key        Key
	state      State
	value      any
	hasValue   bool
	err        error
	fetchedAt  time.Time
	lastAccess time.Time
	policy     Policy
	fetch      FetchFunc
}

// Snapshot is the read-only view of an entry handed to callers and
// watchers.
type Snapshot struct {
	Key       Key       `json:"key"`
	State     State     `json:"state"`
	Data      any       `json:"data,omitempty"`
	Err       error     `json:"-"`
	ErrorText string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetchedAt,omitempty"`
	Stale     bool      `json:"stale"`
}

// IsLoading reports whether a fetch is in flight for the entry.
func (s Snapshot) IsLoading() bool {
	return s.State == StateLoading
}

// IsError reports whether the entry's last fetch failed.
func (s Snapshot) IsError() bool {
	return s.State == StateError
}
