package store

import (
	"context"

	"github.com/sharanyeole/tickerhound/internal/types"
)

// Store is the document-store contract the ingestion pipeline writes
// through. Every mutating operation is a single atomic per-document
// update so that concurrent earnings and estimates crawls cannot
// interleave a read-modify-write race.
type Store interface {
	// FindByCompany returns the record for an exact company name, or
	// types.ErrCompanyNotFound.
	FindByCompany(ctx context.Context, name string) (*types.CompanyRecord, error)

	// FindBySymbol returns the record for an exact ticker symbol, or
	// types.ErrCompanyNotFound.
	FindBySymbol(ctx context.Context, symbol string) (*types.CompanyRecord, error)

	// SearchByName returns records whose company name contains the
	// given substring, case-insensitively.
	SearchByName(ctx context.Context, fragment string) ([]types.CompanyRecord, error)

	// HasQuarter reports whether the company exists and already has a
	// metric for the quarter.
	HasQuarter(ctx context.Context, company, quarter string) (bool, error)

	// InsertCompany creates a new company document.
	InsertCompany(ctx context.Context, rec *types.CompanyRecord) error

	// AppendQuarter pushes a quarter onto an existing company if and
	// only if no metric with that quarter label is present. Returns
	// true when the push happened.
	AppendQuarter(ctx context.Context, company string, metric types.QuarterMetric) (bool, error)

	// SetEstimates sets the estimates field, and only that field, on
	// the matching quarter of an existing company. Returns true when a
	// quarter matched.
	SetEstimates(ctx context.Context, company, quarter, estimates string) (bool, error)

	// SetSymbol sets the company's ticker symbol. Returns true when the
	// company matched.
	SetSymbol(ctx context.Context, company, symbol string) (bool, error)

	// EnsureIndexes creates the company_name and symbol indexes.
	EnsureIndexes(ctx context.Context) error

	// Close releases the backing connection.
	Close(ctx context.Context) error

	// Name returns the backend identifier.
	Name() string
}
