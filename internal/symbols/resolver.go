// Package symbols back-fills exchange ticker symbols onto company
// records. The earnings crawl often creates records before the symbol
// is known ("NA"); this pass applies a curated company-name-to-symbol
// mapping, optionally validating each symbol against a quote API
// before writing.
package symbols

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/piquette/finance-go/quote"

	"github.com/sharanyeole/tickerhound/internal/config"
	"github.com/sharanyeole/tickerhound/internal/store"
)

// notListed is the mapping value for companies with no exchange
// listing; those entries are skipped, never written.
const notListed = "Not listed"

// Resolver applies a symbol mapping to the store.
type Resolver struct {
	store  store.Store
	cfg    *config.Symbols
	client *mappingClient
	lookup func(symbol string) error
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given store.
func NewResolver(st store.Store, cfg *config.Symbols, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  st,
		cfg:    cfg,
		client: newMappingClient(cfg),
		lookup: quoteLookup,
		logger: logger.With("component", "symbols"),
	}
}

// Summary reports the outcome of one backfill pass.
type Summary struct {
	Updated int `json:"updated"`
	Missing int `json:"missing"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

// LoadMapping reads a {company_name: symbol} JSON document from a local
// file path or an http(s) URL.
func (r *Resolver) LoadMapping(ctx context.Context, source string) (map[string]string, error) {
	var data []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = r.client.fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load mapping %q: %w", source, err)
	}

	mapping := make(map[string]string)
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("parse mapping %q: %w", source, err)
	}
	return mapping, nil
}

// Run applies the mapping. Companies absent from the store are counted
// and logged, not treated as errors; "Not listed" entries are skipped;
// with validation enabled, symbols that fail a quote lookup are not
// written.
func (r *Resolver) Run(ctx context.Context, mapping map[string]string) (*Summary, error) {
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	sum := &Summary{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		symbol := strings.TrimSpace(mapping[name])
		if symbol == "" || symbol == notListed {
			r.logger.Debug("symbol not listed, skipping", "company", name)
			sum.Skipped++
			continue
		}

		if r.cfg.Validate {
			if err := r.lookup(symbol); err != nil {
				r.logger.Warn("symbol failed quote validation",
					"company", name, "symbol", symbol, "error", err)
				sum.Invalid++
				continue
			}
		}

		matched, err := r.store.SetSymbol(ctx, name, symbol)
		if err != nil {
			return sum, err
		}
		if !matched {
			r.logger.Warn("no record for company", "company", name)
			sum.Missing++
			continue
		}
		r.logger.Info("symbol updated", "company", name, "symbol", symbol)
		sum.Updated++
	}

	r.logger.Info("symbol backfill done",
		"updated", sum.Updated,
		"missing", sum.Missing,
		"skipped", sum.Skipped,
		"invalid", sum.Invalid,
	)
	return sum, nil
}

// quoteLookup checks a symbol against the quote API.
func quoteLookup(symbol string) error {
	q, err := quote.Get(symbol)
	if err != nil {
		return err
	}
	if q == nil {
		return fmt.Errorf("no quote for %q", symbol)
	}
	return nil
}
