package types

import (
	"strings"
	"time"
)

// CompanyRecord is the per-company document stored in the financials
// collection. CompanyName is the merge key for both crawl passes;
// Symbol is back-filled later by the symbols pass and may be "NA" (or
// nil) until then.
type CompanyRecord struct {
	CompanyName      string          `bson:"company_name"      json:"company_name"`
	Symbol           *string         `bson:"symbol"            json:"symbol"`
	FinancialMetrics []QuarterMetric `bson:"financial_metrics" json:"financial_metrics"`
	Timestamp        time.Time       `bson:"timestamp"         json:"timestamp"`
}

// QuarterMetric holds one fiscal quarter's scraped fields. Everything
// stays the raw trimmed text from the site ("₹1,234 Cr", "12%", ...);
// numeric coercion is the reader's problem. A nil field means the
// source element was absent when the card or detail page was scraped.
type QuarterMetric struct {
	Quarter string `bson:"quarter" json:"quarter"`

	// Card-level fields, always attempted.
	CMP               *string `bson:"cmp"                 json:"cmp"`
	Revenue           *string `bson:"revenue"             json:"revenue"`
	GrossProfit       *string `bson:"gross_profit"        json:"gross_profit"`
	NetProfit         *string `bson:"net_profit"          json:"net_profit"`
	RevenueGrowth     *string `bson:"revenue_growth"      json:"revenue_growth"`
	GrossProfitGrowth *string `bson:"gross_profit_growth" json:"gross_profit_growth"`
	NetProfitGrowth   *string `bson:"net_profit_growth"   json:"net_profit_growth"`
	ResultDate        *string `bson:"result_date"         json:"result_date"`
	ReportType        *string `bson:"report_type"         json:"report_type"`

	// Detail-page fields, best-effort enrichment.
	MarketCap                      *string `bson:"market_cap"                          json:"market_cap"`
	FaceValue                      *string `bson:"face_value"                          json:"face_value"`
	BookValue                      *string `bson:"book_value"                          json:"book_value"`
	DividendYield                  *string `bson:"dividend_yield"                      json:"dividend_yield"`
	TTMEPS                         *string `bson:"ttm_eps"                             json:"ttm_eps"`
	TTMPE                          *string `bson:"ttm_pe"                              json:"ttm_pe"`
	PBRatio                        *string `bson:"pb_ratio"                            json:"pb_ratio"`
	SectorPE                       *string `bson:"sector_pe"                           json:"sector_pe"`
	PiotroskiScore                 *string `bson:"piotroski_score"                     json:"piotroski_score"`
	RevenueGrowth3YrCAGR           *string `bson:"revenue_growth_3yr_cagr"             json:"revenue_growth_3yr_cagr"`
	NetProfitGrowth3YrCAGR         *string `bson:"net_profit_growth_3yr_cagr"          json:"net_profit_growth_3yr_cagr"`
	OperatingProfitGrowth3YrCAGR   *string `bson:"operating_profit_growth_3yr_cagr"    json:"operating_profit_growth_3yr_cagr"`
	Strengths                      *string `bson:"strengths"                           json:"strengths"`
	Weaknesses                     *string `bson:"weaknesses"                          json:"weaknesses"`
	TechnicalsTrend                *string `bson:"technicals_trend"                    json:"technicals_trend"`
	FundamentalInsights            *string `bson:"fundamental_insights"                json:"fundamental_insights"`
	FundamentalInsightsDescription *string `bson:"fundamental_insights_description"    json:"fundamental_insights_description"`

	// Estimates vs actuals label ("Beat: 5%", "Missed: 2%"), written by
	// the estimates pass, possibly on a quarter created by the earnings
	// pass.
	Estimates *string `bson:"estimates,omitempty" json:"estimates,omitempty"`
}

// Str returns a pointer to s. Convenience for building records.
func Str(s string) *string { return &s }

// NewCompanyRecord creates a record with a single initial quarter.
func NewCompanyRecord(name string, symbol *string, metric QuarterMetric) *CompanyRecord {
	return &CompanyRecord{
		CompanyName:      name,
		Symbol:           symbol,
		FinancialMetrics: []QuarterMetric{metric},
		Timestamp:        time.Now().UTC(),
	}
}

// HasQuarter reports whether a metric with the given quarter label
// already exists on the record.
func (r *CompanyRecord) HasQuarter(quarter string) bool {
	for _, m := range r.FinancialMetrics {
		if m.Quarter == quarter {
			return true
		}
	}
	return false
}

// Quarters returns the quarter labels in insertion order.
func (r *CompanyRecord) Quarters() []string {
	qs := make([]string, 0, len(r.FinancialMetrics))
	for _, m := range r.FinancialMetrics {
		qs = append(qs, m.Quarter)
	}
	return qs
}

// LatestQuarter returns the metric with the most recent parseable
// result date. Quarters whose result date does not parse are ignored;
// if none parse, the last appended metric is returned. Returns nil for
// a record with no metrics.
func (r *CompanyRecord) LatestQuarter() *QuarterMetric {
	if len(r.FinancialMetrics) == 0 {
		return nil
	}
	best := -1
	var bestDate time.Time
	for i := range r.FinancialMetrics {
		m := &r.FinancialMetrics[i]
		if m.ResultDate == nil {
			continue
		}
		d, ok := ParseResultDate(*m.ResultDate)
		if !ok {
			continue
		}
		if best == -1 || d.After(bestDate) {
			best = i
			bestDate = d
		}
	}
	if best == -1 {
		return &r.FinancialMetrics[len(r.FinancialMetrics)-1]
	}
	return &r.FinancialMetrics[best]
}

// MergeDetail copies the detail-page fields and only those fields from
// d onto m, leaving card-level fields untouched. Nil detail fields do
// not overwrite anything.
func (m *QuarterMetric) MergeDetail(d *QuarterMetric) {
	if d == nil {
		return
	}
	fields := []struct{ dst, src **string }{
		{&m.MarketCap, &d.MarketCap},
		{&m.FaceValue, &d.FaceValue},
		{&m.BookValue, &d.BookValue},
		{&m.DividendYield, &d.DividendYield},
		{&m.TTMEPS, &d.TTMEPS},
		{&m.TTMPE, &d.TTMPE},
		{&m.PBRatio, &d.PBRatio},
		{&m.SectorPE, &d.SectorPE},
		{&m.PiotroskiScore, &d.PiotroskiScore},
		{&m.RevenueGrowth3YrCAGR, &d.RevenueGrowth3YrCAGR},
		{&m.NetProfitGrowth3YrCAGR, &d.NetProfitGrowth3YrCAGR},
		{&m.OperatingProfitGrowth3YrCAGR, &d.OperatingProfitGrowth3YrCAGR},
		{&m.Strengths, &d.Strengths},
		{&m.Weaknesses, &d.Weaknesses},
		{&m.TechnicalsTrend, &d.TechnicalsTrend},
		{&m.FundamentalInsights, &d.FundamentalInsights},
		{&m.FundamentalInsightsDescription, &d.FundamentalInsightsDescription},
	}
	for _, f := range fields {
		if *f.src != nil {
			*f.dst = *f.src
		}
	}
}

// NewEstimatePlaceholder builds the sparse quarter record the estimates
// pass writes when the earnings pass has not seen the quarter yet. The
// zero/NA placeholders keep the document shape uniform for readers.
func NewEstimatePlaceholder(quarter, estimates, cmp, resultDate string) QuarterMetric {
	na := func() *string { return Str("NA") }
	return QuarterMetric{
		Quarter:           quarter,
		Estimates:         Str(estimates),
		CMP:               Str(cmp),
		Revenue:           Str("0"),
		GrossProfit:       Str("0"),
		NetProfit:         Str("0"),
		NetProfitGrowth:   Str("0%"),
		GrossProfitGrowth: Str("0%"),
		RevenueGrowth:     Str("0%"),
		ResultDate:        Str(resultDate),
		ReportType:        na(),

		MarketCap:                      na(),
		FaceValue:                      na(),
		BookValue:                      na(),
		DividendYield:                  na(),
		TTMEPS:                         na(),
		TTMPE:                          na(),
		PBRatio:                        na(),
		SectorPE:                       na(),
		PiotroskiScore:                 na(),
		RevenueGrowth3YrCAGR:           na(),
		NetProfitGrowth3YrCAGR:         na(),
		OperatingProfitGrowth3YrCAGR:   na(),
		Strengths:                      na(),
		Weaknesses:                     na(),
		TechnicalsTrend:                na(),
		FundamentalInsights:            na(),
		FundamentalInsightsDescription: na(),
	}
}

// resultDateLayouts covers the date renderings seen on result cards.
var resultDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-01-2006",
	"2006-01-02",
}

// ParseResultDate parses a free-text result date. The site sometimes
// prefixes the date ("Result Date: July 26, 2024"); anything before a
// colon is dropped.
func ParseResultDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	for _, layout := range resultDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
