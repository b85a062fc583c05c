package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sharanyeole/tickerhound/internal/types"
)

// EstimateCardSelector matches one estimate-vs-actual card.
const EstimateCardSelector = "#estVsAct > div > ul > li"

// EstimateListingReadySelector is the element whose presence means the
// estimates listing has rendered its first card.
const EstimateListingReadySelector = "#estVsAct > div > ul > li:nth-child(1)"

// EstimateCard is the extraction of a single estimates-vs-actuals card.
// CMP and ResultDate degrade to "NA" when absent; the identity fields
// and the estimates line itself are required.
type EstimateCard struct {
	CompanyName string
	Quarter     string
	Estimates   string
	CMP         string
	ResultDate  string
}

// ParseEstimateCard extracts an estimate card from its HTML fragment.
func ParseEstimateCard(fragment string) (*EstimateCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}
	sel := doc.Selection

	name := strings.TrimSpace(sel.Find("h3 a").First().Text())
	if name == "" {
		return nil, types.ErrMissingCompanyName
	}
	quarter := strings.TrimSpace(sel.Find("tr th:nth-child(1)").First().Text())
	if quarter == "" {
		return nil, types.ErrMissingQuarter
	}
	estimates := strings.TrimSpace(sel.Find("div.EastimateCard_botTxtCen__VpdiR").First().Text())
	if estimates == "" {
		return nil, types.ErrMissingEstimates
	}

	card := &EstimateCard{
		CompanyName: name,
		Quarter:     quarter,
		Estimates:   estimates,
		CMP:         "NA",
		ResultDate:  "NA",
	}
	if cmp := TextOrNil(sel, "p.EastimateCard_priceTxt__8EImd"); cmp != nil {
		card.CMP = *cmp
	}
	if rd := TextOrNil(sel, "p.EastimateCard_gryTxtOne__jmUR2"); rd != nil {
		card.ResultDate = *rd
	}
	return card, nil
}

// Placeholder builds the sparse quarter record written when the
// earnings pass has not seen this quarter yet.
func (c *EstimateCard) Placeholder() types.QuarterMetric {
	return types.NewEstimatePlaceholder(c.Quarter, c.Estimates, c.CMP, c.ResultDate)
}
