package store

import (
	"context"
	"strings"
	"sync"

	"github.com/sharanyeole/tickerhound/internal/types"
)

// MemoryStore is an in-process Store used by tests and the --dry-run
// crawl mode. It mirrors the Mongo backend's conditional-update
// semantics under a single mutex.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*types.CompanyRecord
	order   []string
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*types.CompanyRecord)}
}

func (s *MemoryStore) Name() string { return "memory" }

func clone(rec *types.CompanyRecord) *types.CompanyRecord {
	c := *rec
	c.FinancialMetrics = make([]types.QuarterMetric, len(rec.FinancialMetrics))
	copy(c.FinancialMetrics, rec.FinancialMetrics)
	return &c
}

func (s *MemoryStore) FindByCompany(_ context.Context, name string) (*types.CompanyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	rec, ok := s.records[name]
	if !ok {
		return nil, types.ErrCompanyNotFound
	}
	return clone(rec), nil
}

func (s *MemoryStore) FindBySymbol(_ context.Context, symbol string) (*types.CompanyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	for _, name := range s.order {
		rec := s.records[name]
		if rec.Symbol != nil && *rec.Symbol == symbol {
			return clone(rec), nil
		}
	}
	return nil, types.ErrCompanyNotFound
}

func (s *MemoryStore) SearchByName(_ context.Context, fragment string) ([]types.CompanyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	needle := strings.ToLower(fragment)
	var out []types.CompanyRecord
	for _, name := range s.order {
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, *clone(s.records[name]))
		}
	}
	return out, nil
}

func (s *MemoryStore) HasQuarter(_ context.Context, company, quarter string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, types.ErrStoreClosed
	}
	rec, ok := s.records[company]
	if !ok {
		return false, nil
	}
	return rec.HasQuarter(quarter), nil
}

func (s *MemoryStore) InsertCompany(_ context.Context, rec *types.CompanyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}
	if _, exists := s.records[rec.CompanyName]; exists {
		return &types.StoreError{Op: "insert_company", Err: types.ErrCompanyExists}
	}
	s.records[rec.CompanyName] = clone(rec)
	s.order = append(s.order, rec.CompanyName)
	return nil
}

func (s *MemoryStore) AppendQuarter(_ context.Context, company string, metric types.QuarterMetric) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, types.ErrStoreClosed
	}
	rec, ok := s.records[company]
	if !ok || rec.HasQuarter(metric.Quarter) {
		return false, nil
	}
	rec.FinancialMetrics = append(rec.FinancialMetrics, metric)
	return true, nil
}

func (s *MemoryStore) SetEstimates(_ context.Context, company, quarter, estimates string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, types.ErrStoreClosed
	}
	rec, ok := s.records[company]
	if !ok {
		return false, nil
	}
	for i := range rec.FinancialMetrics {
		if rec.FinancialMetrics[i].Quarter == quarter {
			rec.FinancialMetrics[i].Estimates = types.Str(estimates)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) SetSymbol(_ context.Context, company, symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, types.ErrStoreClosed
	}
	rec, ok := s.records[company]
	if !ok {
		return false, nil
	}
	rec.Symbol = types.Str(symbol)
	return true, nil
}

func (s *MemoryStore) EnsureIndexes(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of company records. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
