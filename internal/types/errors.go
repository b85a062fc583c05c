package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrMissingCompanyName = errors.New("card missing company name")
	ErrMissingDetailLink  = errors.New("card missing detail link")
	ErrMissingQuarter     = errors.New("card missing quarter label")
	ErrMissingEstimates   = errors.New("card missing estimates line")
	ErrStaleCard          = errors.New("card element went stale")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyExists      = errors.New("company already exists")
	ErrStoreClosed        = errors.New("store is closed")
)

// LoginError wraps a failure of one step of the login flow. Login
// failures are fatal to the whole crawl run.
type LoginError struct {
	Step string
	Err  error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed at %q: %v", e.Step, e.Err)
}

func (e *LoginError) Unwrap() error { return e.Err }

// CardError wraps a per-card soft failure. The crawl logs it and moves
// on to the next card.
type CardError struct {
	Company string
	Err     error
}

func (e *CardError) Error() string {
	if e.Company != "" {
		return fmt.Sprintf("card error for %s: %v", e.Company, e.Err)
	}
	return fmt.Sprintf("card error: %v", e.Err)
}

func (e *CardError) Unwrap() error { return e.Err }

// EnrichError wraps a detail-page enrichment failure. The caller keeps
// the card-level fields and stores a partial quarter.
type EnrichError struct {
	URL string
	Err error
}

func (e *EnrichError) Error() string {
	return fmt.Sprintf("enrich error for %s: %v", e.URL, e.Err)
}

func (e *EnrichError) Unwrap() error { return e.Err }

// StoreError wraps errors from the document store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s): %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
