package scrape

import "testing"

const testDetailPage = `<!DOCTYPE html>
<html>
<body>
  <div id="company_info">
    <ul>
      <li>One</li>
      <li>Two</li>
      <li>Three</li>
      <li>Four</li>
      <li>
        <ul>
          <li><p>NSE</p></li>
          <li><p>ACME</p></li>
        </ul>
      </li>
    </ul>
  </div>
  <table class="valuation">
    <tr><td>EPS (TTM)</td><td><span class="nseceps bseceps">12.4</span></td></tr>
    <tr><td>P/E</td><td><span class="nsepe bsepe">18.2</span></td></tr>
    <tr><td>P/B</td><td><span class="nsepb bsepb">2.1</span></td></tr>
    <tr><td>Sector P/E</td><td class="nsesc_ttm bsesc_ttm">22.5</td></tr>
    <tr><td>Book Value</td><td class="nsebv bsebv">96.3</td></tr>
    <tr><td>Div Yield</td><td class="nsedy bsedy">1.2%</td></tr>
    <tr><td>Mkt Cap</td><td class="nsemktcap bsemktcap">5,000 Cr</td><td class="nsefv bsefv">10</td></tr>
  </table>
  <div id="score">
    <div>Piotroski</div>
    <div><div class="fpioi"><div class="nof">7</div></div></div>
  </div>
  <table class="cagr">
    <tr><td>Revenue Growth 3Yr CAGR</td><td>14%</td></tr>
    <tr><td>NetProfit Growth 3Yr CAGR</td><td>21%</td></tr>
    <tr><td>OperatingProfit Growth 3Yr CAGR</td><td>17%</td></tr>
  </table>
  <div id="swot_ls"><a href="#"><strong>15 Strengths</strong></a></div>
  <div id="swot_lw"><a href="#"><strong>3 Weaknesses</strong></a></div>
  <div id="techAnalysis"><a style="display:flex">Bullish</a></div>
  <div id="mc_essenclick">
    <div class="bx_mceti mc_insght"><div><div>Strong Performer</div></div></div>
  </div>
  <div id="insight_class">Earnings stronger than peers</div>
</body>
</html>`

func TestParseDetailPage(t *testing.T) {
	m, symbol, err := ParseDetailPage(testDetailPage)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	checks := []struct {
		name string
		got  *string
		want string
	}{
		{"market_cap", m.MarketCap, "5,000 Cr"},
		{"face_value", m.FaceValue, "10"},
		{"book_value", m.BookValue, "96.3"},
		{"dividend_yield", m.DividendYield, "1.2%"},
		{"ttm_eps", m.TTMEPS, "12.4"},
		{"ttm_pe", m.TTMPE, "18.2"},
		{"pb_ratio", m.PBRatio, "2.1"},
		{"sector_pe", m.SectorPE, "22.5"},
		{"piotroski_score", m.PiotroskiScore, "7"},
		{"revenue_growth_3yr_cagr", m.RevenueGrowth3YrCAGR, "14%"},
		{"net_profit_growth_3yr_cagr", m.NetProfitGrowth3YrCAGR, "21%"},
		{"operating_profit_growth_3yr_cagr", m.OperatingProfitGrowth3YrCAGR, "17%"},
		{"strengths", m.Strengths, "15 Strengths"},
		{"weaknesses", m.Weaknesses, "3 Weaknesses"},
		{"technicals_trend", m.TechnicalsTrend, "Bullish"},
		{"fundamental_insights", m.FundamentalInsights, "Strong Performer"},
		{"fundamental_insights_description", m.FundamentalInsightsDescription, "Earnings stronger than peers"},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s: got nil, want %q", c.name, c.want)
			continue
		}
		if *c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, *c.got, c.want)
		}
	}

	if symbol == nil || *symbol != "ACME" {
		t.Errorf("symbol: got %v, want ACME", symbol)
	}
}

func TestParseDetailPageStructurallyDifferent(t *testing.T) {
	m, symbol, err := ParseDetailPage(`<html><body><p>maintenance page</p></body></html>`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if m.MarketCap != nil || m.PiotroskiScore != nil || m.Strengths != nil {
		t.Error("expected all-nil fields on an unrecognized page")
	}
	if symbol != nil {
		t.Errorf("symbol should be nil, got %q", *symbol)
	}
}
