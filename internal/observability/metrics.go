package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for a crawl run.
type Metrics struct {
	// Card metrics
	CardsSeen      atomic.Int64
	CardsProcessed atomic.Int64
	CardsSkipped   atomic.Int64
	CardsFailed    atomic.Int64

	// Upsert metrics
	Inserted        atomic.Int64
	Appended        atomic.Int64
	EstimateUpdated atomic.Int64

	// Enrichment metrics
	EnrichOK     atomic.Int64
	EnrichFailed atomic.Int64

	// Scroll metrics
	Scrolls        atomic.Int64
	StalledScrolls atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"tickerhound_cards_seen_total", "Total listing cards seen", m.CardsSeen.Load()},
		{"tickerhound_cards_processed_total", "Total cards processed to a store write", m.CardsProcessed.Load()},
		{"tickerhound_cards_skipped_total", "Total cards skipped as already present", m.CardsSkipped.Load()},
		{"tickerhound_cards_failed_total", "Total cards dropped on soft failures", m.CardsFailed.Load()},
		{"tickerhound_upserts_inserted_total", "Total new company documents", m.Inserted.Load()},
		{"tickerhound_upserts_appended_total", "Total appended quarters", m.Appended.Load()},
		{"tickerhound_estimates_updated_total", "Total in-place estimate updates", m.EstimateUpdated.Load()},
		{"tickerhound_enrich_ok_total", "Total successful detail-page enrichments", m.EnrichOK.Load()},
		{"tickerhound_enrich_failed_total", "Total failed detail-page enrichments", m.EnrichFailed.Load()},
		{"tickerhound_scrolls_total", "Total scroll attempts", m.Scrolls.Load()},
		{"tickerhound_scrolls_stalled_total", "Total scrolls that produced no new cards", m.StalledScrolls.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all counters as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"cards_seen":       m.CardsSeen.Load(),
		"cards_processed":  m.CardsProcessed.Load(),
		"cards_skipped":    m.CardsSkipped.Load(),
		"cards_failed":     m.CardsFailed.Load(),
		"inserted":         m.Inserted.Load(),
		"appended":         m.Appended.Load(),
		"estimate_updated": m.EstimateUpdated.Load(),
		"enrich_ok":        m.EnrichOK.Load(),
		"enrich_failed":    m.EnrichFailed.Load(),
		"scrolls":          m.Scrolls.Load(),
		"scrolls_stalled":  m.StalledScrolls.Load(),
	}
}
