package scoring

import (
	"github.com/trafficguard/trafficguard/internal/models"
)

// suspiciousClickInterval is the inter-click gap, in the event's time
// units, below which a click is considered machine-fast.
const suspiciousClickInterval = 1000

// analyzeClickBehavior computes the click/display component: click speed,
// pattern randomness, source path, and display interaction.
func analyzeClickBehavior(event *models.TrafficEvent, details *models.ScoreDetails) int {
	speedScore := analyzeClickSpeed(event.Clicks)
	details.ClickSpeedScore = speedScore

	patternScore := analyzeClickPattern(event.Clicks)
	details.ClickPatternScore = patternScore

	pathScore := analyzeClickPath(event)
	details.ClickPathScore = pathScore

	interactionScore := analyzeDisplayInteraction(event)
	details.DisplayInteractionScore = interactionScore

	return speedScore + patternScore + pathScore + interactionScore
}

// analyzeClickSpeed rates inter-click timing. The suspicious ratio is
// computed over the number of intervals, not clicks: a sequence with no
// intervals has shown nothing suspicious.
func analyzeClickSpeed(clicks []models.ClickEvent) int {
	if len(clicks) == 0 {
		return 0
	}

	intervals := len(clicks) - 1
	if intervals == 0 {
		return 10
	}

	suspicious := 0
	for i := 1; i < len(clicks); i++ {
		if clicks[i].Timestamp-clicks[i-1].Timestamp < suspiciousClickInterval {
			suspicious++
		}
	}

	ratio := float64(suspicious) / float64(intervals)
	switch {
	case ratio > 0.5:
		return 0
	case ratio > 0.2:
		return 5
	}
	return 10
}

// analyzeClickPattern is a fixed-value placeholder for click randomness
// analysis. The value feeds the total, so it cannot simply be removed.
func analyzeClickPattern(clicks []models.ClickEvent) int {
	return 10
}

// analyzeClickPath is a fixed-value placeholder for referrer-path analysis.
func analyzeClickPath(event *models.TrafficEvent) int {
	return 5
}

// analyzeDisplayInteraction is a fixed-value placeholder for impression
// interaction analysis.
func analyzeDisplayInteraction(event *models.TrafficEvent) int {
	return 5
}
