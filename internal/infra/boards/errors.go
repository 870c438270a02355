package boards

import (
	"fmt"

	"github.com/mwhitfield/jobwatch/internal/domain"
)

// FetchError is returned for any transport failure, timeout, or non-2xx
// response from a board API. It propagates uncaught out of the adapter so the
// check cycle can record it per-watch instead of aborting the whole run.
type FetchError struct {
	Source domain.SourceType
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s fetch failed (status %d)", e.Source, e.Status)
	}
	return fmt.Sprintf("%s fetch failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
