package view

import (
	"testing"

	"github.com/m0rozov/phishsight/internal/analytics/chart"
	"github.com/stretchr/testify/assert"
)

func TestPlanRender(t *testing.T) {
	cfg := chart.Config{Kind: chart.KindLine, Title: "Detections Timeline"}

	t.Run("existing target gets the config", func(t *testing.T) {
		op := PlanRender("timeline", cfg, func(id string) bool { return id == "timeline" })
		assert.False(t, op.NoOp)
		assert.Equal(t, "timeline", op.ContainerID)
		assert.Equal(t, cfg, op.Config)
	})

	t.Run("missing target yields no-op, not an error", func(t *testing.T) {
		op := PlanRender("missing", cfg, func(string) bool { return false })
		assert.True(t, op.NoOp)
	})

	t.Run("nil probe is treated as missing environment", func(t *testing.T) {
		op := PlanRender("timeline", cfg, nil)
		assert.True(t, op.NoOp)
	})
}

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		term    string
		visible bool
	}{
		{"case-insensitive match", "Phishing Email detected", "phishing", true},
		{"substring in the middle", "user@example.com URL scan", "example", true},
		{"no match hides the row", "Safe URL", "phishing", false},
		{"empty term shows everything", "anything", "", true},
		{"term longer than row", "ok", "not ok at all", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, MatchesFilter(tt.row, tt.term))
		})
	}
}

func TestFilterRows(t *testing.T) {
	rows := []string{"Phishing Email", "Safe URL", "PHISHING URL", "Safe Email"}

	assert.Equal(t, []string{"Phishing Email", "PHISHING URL"}, FilterRows(rows, "phishing"))
	assert.Equal(t, rows, FilterRows(rows, ""))
	assert.Empty(t, FilterRows(rows, "hybrid"))
}
