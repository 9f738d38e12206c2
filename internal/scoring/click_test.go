package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trafficguard/trafficguard/internal/models"
)

func clicksAt(timestamps ...int64) []models.ClickEvent {
	clicks := make([]models.ClickEvent, len(timestamps))
	for i, ts := range timestamps {
		clicks[i] = models.ClickEvent{Timestamp: ts}
	}
	return clicks
}

func TestAnalyzeClickSpeed(t *testing.T) {
	cases := []struct {
		name     string
		clicks   []models.ClickEvent
		expected int
	}{
		{"No Clicks", nil, 0},
		{"Single Click", clicksAt(1000), 10},
		{"All Intervals Fast", clicksAt(0, 100, 200, 300), 0},
		// Three intervals of 500, two suspicious out of three is > 0.5.
		{"Majority Fast", clicksAt(0, 500, 1000, 2000), 0},
		{"All Intervals Slow", clicksAt(0, 1500, 3000, 4500), 10},
		// One suspicious interval out of four, ratio 0.25.
		{"Some Fast", clicksAt(0, 500, 2000, 3500, 5000), 5},
		{"Boundary Interval Not Suspicious", clicksAt(0, 1000), 10},
		{"Unordered Negative Interval Is Suspicious", clicksAt(5000, 0), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, analyzeClickSpeed(tc.clicks))
		})
	}
}

func TestAnalyzeClickBehavior(t *testing.T) {
	event := &models.TrafficEvent{
		Clicks: clicksAt(0, 2000, 4000),
	}
	details := &models.ScoreDetails{}

	total := analyzeClickBehavior(event, details)

	assert.Equal(t, 30, total)
	assert.Equal(t, 10, details.ClickSpeedScore)
	assert.Equal(t, 10, details.ClickPatternScore)
	assert.Equal(t, 5, details.ClickPathScore)
	assert.Equal(t, 5, details.DisplayInteractionScore)
}
