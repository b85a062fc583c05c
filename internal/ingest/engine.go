// Package ingest decides, per scraped record, whether the store gets a
// new company document, a new quarter, an in-place estimates update, or
// nothing. The decisions ride on the store's conditional updates, so
// two crawl processes racing on the same company converge instead of
// duplicating quarters.
package ingest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sharanyeole/tickerhound/internal/store"
	"github.com/sharanyeole/tickerhound/internal/types"
)

// Engine is the merge/upsert engine over a document store.
type Engine struct {
	store  store.Store
	logger *slog.Logger
}

// NewEngine creates an Engine bound to a store.
func NewEngine(st store.Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  st,
		logger: logger.With("component", "ingest"),
	}
}

// HasQuarter reports whether the (company, quarter) pair is already
// stored. The crawl controller consults this before enrichment, since
// opening a detail-page tab for an already-stored quarter is wasted
// work.
func (e *Engine) HasQuarter(ctx context.Context, company, quarter string) (bool, error) {
	return e.store.HasQuarter(ctx, company, quarter)
}

// UpsertEarnings applies the earnings-path merge rules:
// no company -> insert, new quarter -> append, known quarter -> skip.
// A skipped quarter is never field-merged; an earlier partial record
// stays as-is until removed by hand.
func (e *Engine) UpsertEarnings(ctx context.Context, company string, symbol *string, metric types.QuarterMetric) (types.Effect, error) {
	_, err := e.store.FindByCompany(ctx, company)
	if errors.Is(err, types.ErrCompanyNotFound) {
		rec := types.NewCompanyRecord(company, symbol, metric)
		if err := e.store.InsertCompany(ctx, rec); err != nil {
			return types.Skipped, err
		}
		e.logger.Info("company inserted", "company", company, "quarter", metric.Quarter)
		return types.Inserted, nil
	}
	if err != nil {
		return types.Skipped, err
	}

	pushed, err := e.store.AppendQuarter(ctx, company, metric)
	if err != nil {
		return types.Skipped, err
	}
	if !pushed {
		e.logger.Info("quarter already stored, skipping",
			"company", company, "quarter", metric.Quarter)
		return types.Skipped, nil
	}
	e.logger.Info("quarter appended", "company", company, "quarter", metric.Quarter)
	return types.Appended, nil
}

// UpsertEstimate applies the estimates-path merge rules: a matching
// quarter gets only its estimates field set; a missing quarter gets the
// sparse placeholder appended; a missing company gets a sparse record
// created with symbol "NA".
func (e *Engine) UpsertEstimate(ctx context.Context, card EstimateUpsert) (types.Effect, error) {
	_, err := e.store.FindByCompany(ctx, card.Company)
	if errors.Is(err, types.ErrCompanyNotFound) {
		rec := types.NewCompanyRecord(card.Company, types.Str("NA"), card.Placeholder)
		if err := e.store.InsertCompany(ctx, rec); err != nil {
			return types.Skipped, err
		}
		e.logger.Info("company inserted from estimate",
			"company", card.Company, "quarter", card.Quarter)
		return types.Inserted, nil
	}
	if err != nil {
		return types.Skipped, err
	}

	matched, err := e.store.SetEstimates(ctx, card.Company, card.Quarter, card.Estimates)
	if err != nil {
		return types.Skipped, err
	}
	if matched {
		e.logger.Info("estimates updated",
			"company", card.Company, "quarter", card.Quarter)
		return types.EstimateUpdated, nil
	}

	pushed, err := e.store.AppendQuarter(ctx, card.Company, card.Placeholder)
	if err != nil {
		return types.Skipped, err
	}
	if !pushed {
		// A racing earnings crawl appended this quarter between the
		// SetEstimates miss and the push; retry the in-place set once.
		if matched, err := e.store.SetEstimates(ctx, card.Company, card.Quarter, card.Estimates); err == nil && matched {
			return types.EstimateUpdated, nil
		}
		return types.Skipped, err
	}
	e.logger.Info("estimate quarter appended",
		"company", card.Company, "quarter", card.Quarter)
	return types.Appended, nil
}

// EstimateUpsert is one estimates-card write request.
type EstimateUpsert struct {
	Company     string
	Quarter     string
	Estimates   string
	Placeholder types.QuarterMetric
}
