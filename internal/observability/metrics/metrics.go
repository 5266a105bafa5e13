// Package metrics exposes application-level prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Module provides the shared metrics registry.
var Module = fx.Provide(New, NewHTTPMetrics)

// Metrics exposes counters for the financial engine.
type Metrics struct {
	DocumentsCreated *prometheus.CounterVec
	DocumentsDeleted *prometheus.CounterVec
	StockMovements   prometheus.Counter
	JournalEntries   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		DocumentsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fatturo_documents_created_total",
			Help: "Documents created, by kind.",
		}, []string{"kind"}),
		DocumentsDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fatturo_documents_deleted_total",
			Help: "Documents deleted, by kind.",
		}, []string{"kind"}),
		StockMovements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fatturo_stock_movements_total",
			Help: "Stock adjustments applied through the inventory adjuster.",
		}),
		JournalEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fatturo_journal_entries_total",
			Help: "Balanced journal entries committed.",
		}),
	}
}

// RecordDocumentCreated increments the per-kind creation counter.
func (m *Metrics) RecordDocumentCreated(kind string) {
	if m == nil {
		return
	}
	m.DocumentsCreated.WithLabelValues(kind).Inc()
}

// RecordDocumentDeleted increments the per-kind deletion counter.
func (m *Metrics) RecordDocumentDeleted(kind string) {
	if m == nil {
		return
	}
	m.DocumentsDeleted.WithLabelValues(kind).Inc()
}

// RecordStockMovements adds n applied stock movements.
func (m *Metrics) RecordStockMovements(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.StockMovements.Add(float64(n))
}

// RecordJournalEntry counts one committed journal entry.
func (m *Metrics) RecordJournalEntry() {
	if m == nil {
		return
	}
	m.JournalEntries.Inc()
}
