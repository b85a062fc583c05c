// Package scrape holds the pure extraction functions of the pipeline:
// HTML fragment in, typed record out, no I/O. Selector misses on
// optional fields become nil values; only the identity fields (company
// name, detail link) escalate to an error, which tells the crawl
// controller to drop the card.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sharanyeole/tickerhound/internal/types"
)

// ResultCardSelector matches one earnings card in the listing.
const ResultCardSelector = "li.rapidResCardWeb_gryCard__hQigs"

// ResultListingReadySelector is the element whose presence means the
// earnings listing has rendered its first card.
const ResultListingReadySelector = "#latestRes > div > ul > li:nth-child(1)"

// ResultCard is the extraction of a single earnings listing card.
type ResultCard struct {
	CompanyName string
	DetailURL   string
	Metric      types.QuarterMetric
}

// ParseResultCard extracts a result card from its HTML fragment.
// Returns types.ErrMissingCompanyName or types.ErrMissingDetailLink
// when the identity fields are absent.
func ParseResultCard(fragment string) (*ResultCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}
	return parseResultCard(doc.Selection)
}

func parseResultCard(sel *goquery.Selection) (*ResultCard, error) {
	nameSel := sel.Find("h3 a").First()
	name := strings.TrimSpace(nameSel.Text())
	if name == "" {
		return nil, types.ErrMissingCompanyName
	}

	link, _ := nameSel.Attr("href")
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, types.ErrMissingDetailLink
	}

	card := &ResultCard{
		CompanyName: name,
		DetailURL:   link,
		Metric: types.QuarterMetric{
			CMP:               TextOrNil(sel, "p.rapidResCardWeb_priceTxt___5MvY"),
			Revenue:           TextOrNil(sel, "tr:nth-child(1) td:nth-child(2)"),
			GrossProfit:       TextOrNil(sel, "tr:nth-child(2) td:nth-child(2)"),
			NetProfit:         TextOrNil(sel, "tr:nth-child(3) td:nth-child(2)"),
			RevenueGrowth:     TextOrNil(sel, "tr:nth-child(1) td:nth-child(4)"),
			GrossProfitGrowth: TextOrNil(sel, "tr:nth-child(2) td:nth-child(4)"),
			NetProfitGrowth:   TextOrNil(sel, "tr:nth-child(3) td:nth-child(4)"),
			ResultDate:        TextOrNil(sel, "p.rapidResCardWeb_gryTxtOne__mEhU_"),
			ReportType:        TextOrNil(sel, "p.rapidResCardWeb_bottomText__p8YzI"),
		},
	}

	if q := TextOrNil(sel, "tr th:nth-child(1)"); q != nil {
		card.Metric.Quarter = *q
	}
	return card, nil
}

// TextOrNil returns the trimmed text of the first selector match, or
// nil when nothing matches or the text is empty.
func TextOrNil(sel *goquery.Selection, selector string) *string {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(found.Text())
	if text == "" {
		return nil
	}
	return &text
}
