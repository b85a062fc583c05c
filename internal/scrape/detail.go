package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/sharanyeole/tickerhound/internal/types"
)

// symbolSelector locates the NSE ticker in the company-info block.
const symbolSelector = "#company_info > ul > li:nth-child(5) > ul > li:nth-child(2) > p"

// ParseDetailPage extracts the valuation and fundamental fields from a
// company detail page. The returned metric carries only detail-page
// fields; card-level fields stay zero. Every selector miss is a nil
// field, never an error. A structurally different page yields an
// all-nil metric, which the caller treats as partial enrichment.
func ParseDetailPage(pageHTML string) (*types.QuarterMetric, *string, error) {
	root, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, nil, err
	}
	doc := goquery.NewDocumentFromNode(root)
	sel := doc.Selection

	m := &types.QuarterMetric{
		MarketCap:      TextOrNil(sel, "tr:nth-child(7) td.nsemktcap.bsemktcap"),
		FaceValue:      TextOrNil(sel, "tr:nth-child(7) td.nsefv.bsefv"),
		BookValue:      TextOrNil(sel, "tr:nth-child(5) td.nsebv.bsebv"),
		DividendYield:  TextOrNil(sel, "tr:nth-child(6) td.nsedy.bsedy"),
		TTMEPS:         TextOrNil(sel, "tr:nth-child(1) td:nth-child(2) span.nseceps.bseceps"),
		TTMPE:          TextOrNil(sel, "tr:nth-child(2) td:nth-child(2) span.nsepe.bsepe"),
		PBRatio:        TextOrNil(sel, "tr:nth-child(3) td:nth-child(2) span.nsepb.bsepb"),
		SectorPE:       TextOrNil(sel, "tr:nth-child(4) td.nsesc_ttm.bsesc_ttm"),
		PiotroskiScore: TextOrNil(sel, "div:nth-child(2) div.fpioi div.nof"),

		// The 3-yr CAGR rows are only identifiable by their label text,
		// which CSS selectors cannot express; XPath contains() can.
		RevenueGrowth3YrCAGR:         xpathTextOrNil(root, `//tr[contains(., "Revenue")]/td[2]`),
		NetProfitGrowth3YrCAGR:       xpathTextOrNil(root, `//tr[contains(., "NetProfit")]/td[2]`),
		OperatingProfitGrowth3YrCAGR: xpathTextOrNil(root, `//tr[contains(., "OperatingProfit")]/td[2]`),

		Strengths:                      TextOrNil(sel, "#swot_ls > a > strong"),
		Weaknesses:                     TextOrNil(sel, "#swot_lw > a > strong"),
		TechnicalsTrend:                TextOrNil(sel, `#techAnalysis a[style*="flex"]`),
		FundamentalInsights:            TextOrNil(sel, "#mc_essenclick > div.bx_mceti.mc_insght > div > div"),
		FundamentalInsightsDescription: TextOrNil(sel, "#insight_class"),
	}

	symbol := TextOrNil(sel, symbolSelector)
	return m, symbol, nil
}

func xpathTextOrNil(root *html.Node, expr string) *string {
	node, err := htmlquery.Query(root, expr)
	if err != nil || node == nil {
		return nil
	}
	text := strings.TrimSpace(htmlquery.InnerText(node))
	if text == "" {
		return nil
	}
	return &text
}
