package upstream

import (
	"errors"
	"fmt"
)

// FetchError describes a failed MES API call. The query cache captures it
// in an entry's error state, so handlers and watchers see the same failure
// a direct caller would.
type FetchError struct {
	StatusCode int
	Path       string
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Message != "":
		return fmt.Sprintf("mes api %s returned %d: %s", e.Path, e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("mes api %s returned %d", e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("mes api %s unreachable: %v", e.Path, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// UnimplementedError marks a gateway feature whose contract exists but
// whose implementation does not. It is kept loud and distinct from
// FetchError so a missing feature is never mistaken for an outage.
type UnimplementedError struct {
	Feature string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.Feature)
}

// AsFetchError extracts a FetchError from err's chain.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsUnimplemented reports whether err's chain carries an UnimplementedError.
func IsUnimplemented(err error) bool {
	var ue *UnimplementedError
	return errors.As(err, &ue)
}
