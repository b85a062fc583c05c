package types

import (
	"testing"
)

func TestParseResultDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"July 26, 2024", "2024-07-26", true},
		{"Jan 2, 2025", "2025-01-02", true},
		{"26 July 2024", "2024-07-26", true},
		{"26 Jul 2024", "2024-07-26", true},
		{"26-07-2024", "2024-07-26", true},
		{"2024-07-26", "2024-07-26", true},
		{"Result Date: July 26, 2024", "2024-07-26", true},
		{"  July 26, 2024  ", "2024-07-26", true},
		{"NA", "", false},
		{"", "", false},
		{"tomorrow", "", false},
	}
	for _, c := range cases {
		got, ok := ParseResultDate(c.in)
		if ok != c.ok {
			t.Errorf("ParseResultDate(%q): ok=%v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != c.want {
			t.Errorf("ParseResultDate(%q): got %s, want %s", c.in, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestLatestQuarterChronological(t *testing.T) {
	// Appended out of chronological order, as happens when the two
	// crawl passes interleave.
	rec := &CompanyRecord{
		CompanyName: "Acme Ltd",
		FinancialMetrics: []QuarterMetric{
			{Quarter: "Q4FY24", ResultDate: Str("April 20, 2024")},
			{Quarter: "Q2FY25", ResultDate: Str("October 18, 2024")},
			{Quarter: "Q1FY25", ResultDate: Str("July 26, 2024")},
		},
	}
	latest := rec.LatestQuarter()
	if latest == nil || latest.Quarter != "Q2FY25" {
		t.Fatalf("expected Q2FY25, got %+v", latest)
	}
}

func TestLatestQuarterFallsBackToInsertionOrder(t *testing.T) {
	rec := &CompanyRecord{
		CompanyName: "Acme Ltd",
		FinancialMetrics: []QuarterMetric{
			{Quarter: "Q4FY24", ResultDate: Str("NA")},
			{Quarter: "Q1FY25"},
		},
	}
	latest := rec.LatestQuarter()
	if latest == nil || latest.Quarter != "Q1FY25" {
		t.Fatalf("expected insertion-order fallback Q1FY25, got %+v", latest)
	}

	empty := &CompanyRecord{CompanyName: "Hollow Corp"}
	if empty.LatestQuarter() != nil {
		t.Error("expected nil for a record with no metrics")
	}
}

func TestLatestQuarterIgnoresUnparseableDates(t *testing.T) {
	rec := &CompanyRecord{
		CompanyName: "Acme Ltd",
		FinancialMetrics: []QuarterMetric{
			{Quarter: "Q1FY25", ResultDate: Str("July 26, 2024")},
			{Quarter: "Q2FY25", ResultDate: Str("NA")},
		},
	}
	latest := rec.LatestQuarter()
	if latest == nil || latest.Quarter != "Q1FY25" {
		t.Fatalf("expected Q1FY25 (only parseable date), got %+v", latest)
	}
}

func TestHasQuarter(t *testing.T) {
	rec := NewCompanyRecord("Acme Ltd", Str("ACME"), QuarterMetric{Quarter: "Q1FY25"})
	if !rec.HasQuarter("Q1FY25") {
		t.Error("expected Q1FY25 present")
	}
	if rec.HasQuarter("Q2FY25") {
		t.Error("Q2FY25 should be absent")
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp should be set at creation")
	}
}

func TestMergeDetail(t *testing.T) {
	m := QuarterMetric{
		Quarter:    "Q1FY25",
		Revenue:    Str("100 Cr"),
		ResultDate: Str("July 26, 2024"),
	}
	detail := &QuarterMetric{
		MarketCap:      Str("5,000 Cr"),
		PiotroskiScore: Str("7"),
	}
	m.MergeDetail(detail)

	if m.Revenue == nil || *m.Revenue != "100 Cr" {
		t.Error("card-level revenue must survive the merge")
	}
	if m.MarketCap == nil || *m.MarketCap != "5,000 Cr" {
		t.Errorf("market cap not merged: %v", m.MarketCap)
	}
	if m.PiotroskiScore == nil || *m.PiotroskiScore != "7" {
		t.Errorf("piotroski not merged: %v", m.PiotroskiScore)
	}
	if m.BookValue != nil {
		t.Error("absent detail fields must stay nil")
	}

	// Nil detail leaves the metric untouched.
	before := m
	m.MergeDetail(nil)
	if m.MarketCap != before.MarketCap || m.Revenue != before.Revenue {
		t.Error("nil detail changed the metric")
	}
}

func TestNewEstimatePlaceholder(t *testing.T) {
	m := NewEstimatePlaceholder("Q1FY25", "Beat: 5%", "120.50", "July 26, 2024")
	if m.Quarter != "Q1FY25" {
		t.Errorf("quarter: got %q", m.Quarter)
	}
	if m.Estimates == nil || *m.Estimates != "Beat: 5%" {
		t.Errorf("estimates: got %v", m.Estimates)
	}
	if m.Revenue == nil || *m.Revenue != "0" {
		t.Errorf("revenue: got %v", m.Revenue)
	}
	if m.ReportType == nil || *m.ReportType != "NA" {
		t.Errorf("report type: got %v", m.ReportType)
	}
	if d, ok := ParseResultDate(*m.ResultDate); !ok || d.Year() != 2024 {
		t.Errorf("result date should stay parseable: %v", *m.ResultDate)
	}
}
