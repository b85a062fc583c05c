package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sharanyeole/tickerhound/internal/types"
)

func seedRecord(t *testing.T, s *MemoryStore) {
	t.Helper()
	rec := types.NewCompanyRecord("Acme Ltd", types.Str("ACME"), types.QuarterMetric{
		Quarter: "Q1FY25",
		Revenue: types.Str("100 Cr"),
		CMP:     types.Str("120.50"),
	})
	if err := s.InsertCompany(context.Background(), rec); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
}

func TestInsertAndFind(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s)

	rec, err := s.FindByCompany(context.Background(), "Acme Ltd")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.CompanyName != "Acme Ltd" || len(rec.FinancialMetrics) != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := s.FindByCompany(context.Background(), "Nobody Inc"); !errors.Is(err, types.ErrCompanyNotFound) {
		t.Errorf("expected ErrCompanyNotFound, got %v", err)
	}

	err = s.InsertCompany(context.Background(), types.NewCompanyRecord("Acme Ltd", nil, types.QuarterMetric{Quarter: "Q2FY25"}))
	if !errors.Is(err, types.ErrCompanyExists) {
		t.Errorf("duplicate insert: expected ErrCompanyExists, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("duplicate insert must not add a record, len=%d", s.Len())
	}
}

func TestAppendQuarterConditional(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s)
	ctx := context.Background()

	pushed, err := s.AppendQuarter(ctx, "Acme Ltd", types.QuarterMetric{Quarter: "Q2FY25"})
	if err != nil || !pushed {
		t.Fatalf("append new quarter: pushed=%v err=%v", pushed, err)
	}

	// Same quarter again: the filter rejects it, no duplicate element.
	pushed, err = s.AppendQuarter(ctx, "Acme Ltd", types.QuarterMetric{Quarter: "Q2FY25", Revenue: types.Str("999")})
	if err != nil || pushed {
		t.Fatalf("duplicate append: pushed=%v err=%v", pushed, err)
	}

	rec, _ := s.FindByCompany(ctx, "Acme Ltd")
	if got := rec.Quarters(); !reflect.DeepEqual(got, []string{"Q1FY25", "Q2FY25"}) {
		t.Errorf("quarters: %v", got)
	}

	// Unknown company is a no-op, not an error.
	pushed, err = s.AppendQuarter(ctx, "Nobody Inc", types.QuarterMetric{Quarter: "Q1FY25"})
	if err != nil || pushed {
		t.Errorf("append to missing company: pushed=%v err=%v", pushed, err)
	}
}

func TestSetEstimatesTouchesOnlyEstimates(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s)
	ctx := context.Background()

	before, _ := s.FindByCompany(ctx, "Acme Ltd")

	matched, err := s.SetEstimates(ctx, "Acme Ltd", "Q1FY25", "Beat: 5%")
	if err != nil || !matched {
		t.Fatalf("set estimates: matched=%v err=%v", matched, err)
	}

	after, _ := s.FindByCompany(ctx, "Acme Ltd")
	m := after.FinancialMetrics[0]
	if m.Estimates == nil || *m.Estimates != "Beat: 5%" {
		t.Fatalf("estimates not written: %+v", m.Estimates)
	}

	// Every other field is byte-identical to the pre-update snapshot.
	cleared := m
	cleared.Estimates = before.FinancialMetrics[0].Estimates
	if !reflect.DeepEqual(cleared, before.FinancialMetrics[0]) {
		t.Errorf("update touched fields other than estimates:\nbefore %+v\nafter  %+v", before.FinancialMetrics[0], cleared)
	}

	// Missing quarter and missing company both report no match.
	if matched, _ := s.SetEstimates(ctx, "Acme Ltd", "Q9FY99", "x"); matched {
		t.Error("matched a quarter that does not exist")
	}
	if matched, _ := s.SetEstimates(ctx, "Nobody Inc", "Q1FY25", "x"); matched {
		t.Error("matched a company that does not exist")
	}
}

func TestSetSymbolAndFindBySymbol(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s)
	ctx := context.Background()

	matched, err := s.SetSymbol(ctx, "Acme Ltd", "ACMELTD")
	if err != nil || !matched {
		t.Fatalf("set symbol: matched=%v err=%v", matched, err)
	}
	rec, err := s.FindBySymbol(ctx, "ACMELTD")
	if err != nil {
		t.Fatalf("find by symbol: %v", err)
	}
	if rec.CompanyName != "Acme Ltd" {
		t.Errorf("wrong record: %+v", rec)
	}
	if matched, _ := s.SetSymbol(ctx, "Nobody Inc", "X"); matched {
		t.Error("set symbol on missing company should not match")
	}
}

func TestSearchByName(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, name := range []string{"Acme Ltd", "Acme Industries", "Zenith Corp"} {
		rec := types.NewCompanyRecord(name, nil, types.QuarterMetric{Quarter: "Q1FY25"})
		if err := s.InsertCompany(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	got, err := s.SearchByName(ctx, "acme")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].CompanyName != "Acme Ltd" || got[1].CompanyName != "Acme Industries" {
		t.Errorf("search results: %+v", got)
	}

	if got, _ := s.SearchByName(ctx, "nothing"); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s)
	ctx := context.Background()

	rec, _ := s.FindByCompany(ctx, "Acme Ltd")
	rec.FinancialMetrics[0].Quarter = "MUTATED"
	rec.FinancialMetrics = append(rec.FinancialMetrics, types.QuarterMetric{Quarter: "Q9FY99"})

	fresh, _ := s.FindByCompany(ctx, "Acme Ltd")
	if fresh.FinancialMetrics[0].Quarter != "Q1FY25" || len(fresh.FinancialMetrics) != 1 {
		t.Errorf("caller mutation leaked into the store: %+v", fresh)
	}
}

func TestClosedStore(t *testing.T) {
	s := NewMemoryStore()
	seedRecord(t, s)
	ctx := context.Background()
	if err := s.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := s.FindByCompany(ctx, "Acme Ltd"); !errors.Is(err, types.ErrStoreClosed) {
		t.Errorf("find after close: %v", err)
	}
	if _, err := s.AppendQuarter(ctx, "Acme Ltd", types.QuarterMetric{Quarter: "Q2FY25"}); !errors.Is(err, types.ErrStoreClosed) {
		t.Errorf("append after close: %v", err)
	}
}
