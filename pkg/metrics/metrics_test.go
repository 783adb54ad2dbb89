package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_WriteTextfile(t *testing.T) {
	tests := []struct {
		name     string
		record   func(m *Metrics)
		wantText []string
	}{
		{
			name: "counter",
			record: func(m *Metrics) {
				m.RegisterCounter("runs_total", "Total runs")
				m.IncCounter("runs_total")
				m.IncCounter("runs_total")
				m.IncCounter("not_registered")
			},
			wantText: []string{"seedkit_runs_total 2"},
		},
		{
			name: "counter vec",
			record: func(m *Metrics) {
				m.RegisterCounterVec("seed_runs_total", "Seed runs", []string{"role", "outcome"})
				m.IncCounterVec("seed_runs_total", "admin", "created")
			},
			wantText: []string{`seedkit_seed_runs_total{outcome="created",role="admin"} 1`},
		},
		{
			name: "histogram",
			record: func(m *Metrics) {
				m.RegisterHistogram("seed_duration_seconds", "Seed duration", []float64{0.1, 1})
				m.ObserveHistogram("seed_duration_seconds", 0.05)
			},
			wantText: []string{"seedkit_seed_duration_seconds_count 1"},
		},
		{
			name: "gauge",
			record: func(m *Metrics) {
				m.RegisterGauge("investor_documents", "Investor documents")
				m.SetGauge("investor_documents", 7)
			},
			wantText: []string{"seedkit_investor_documents 7"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetrics("seedkit").(*Metrics)
			tt.record(m)

			path := filepath.Join(t.TempDir(), "seedkit.prom")
			require.NoError(t, m.WriteTextfile(path))

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.wantText {
				assert.Contains(t, string(content), want)
			}
		})
	}
}
