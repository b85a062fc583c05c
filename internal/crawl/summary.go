package crawl

import (
	"log/slog"

	"github.com/sharanyeole/tickerhound/internal/types"
)

// Summary is the structured result of one crawl run. Skipped entries
// are idempotent no-ops, not failures; SoftFailed counts cards dropped
// on stale elements, missing identity fields, or store errors.
type Summary struct {
	CardsSeen       int  `json:"cards_seen"`
	Processed       int  `json:"processed"`
	Inserted        int  `json:"inserted"`
	Appended        int  `json:"appended"`
	Skipped         int  `json:"skipped"`
	EstimateUpdated int  `json:"estimate_updated"`
	EnrichFailed    int  `json:"enrich_failed"`
	SoftFailed      int  `json:"soft_failed"`
	Interrupted     bool `json:"interrupted"`
}

func (s *Summary) record(effect types.Effect) {
	switch effect {
	case types.Inserted:
		s.Inserted++
	case types.Appended:
		s.Appended++
	case types.Skipped:
		s.Skipped++
	case types.EstimateUpdated:
		s.EstimateUpdated++
	}
}

// Log writes the summary as one structured log line.
func (s *Summary) Log(logger *slog.Logger) {
	logger.Info("crawl summary",
		"cards_seen", s.CardsSeen,
		"processed", s.Processed,
		"inserted", s.Inserted,
		"appended", s.Appended,
		"skipped", s.Skipped,
		"estimate_updated", s.EstimateUpdated,
		"enrich_failed", s.EnrichFailed,
		"soft_failed", s.SoftFailed,
		"interrupted", s.Interrupted,
	)
}
