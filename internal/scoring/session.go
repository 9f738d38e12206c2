package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/trafficguard/trafficguard/internal/models"
)

// ErrInvalidSessionData marks a request whose session attributes are
// missing the numeric "duration" field. There is no safe default for it,
// so the request is rejected before scoring rather than given a
// fabricated score.
var ErrInvalidSessionData = errors.New("session data missing numeric duration")

// sessionDuration extracts the numeric "duration" attribute from the
// session mapping. JSON decoding yields float64 for numbers, but numeric
// strings from older collectors are accepted too.
func sessionDuration(sessionData map[string]interface{}) (float64, error) {
	if sessionData == nil {
		return 0, fmt.Errorf("%w: session data absent", ErrInvalidSessionData)
	}

	raw, ok := sessionData["duration"]
	if !ok {
		return 0, fmt.Errorf("%w: duration field absent", ErrInvalidSessionData)
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidSessionData, v.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidSessionData, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: unsupported duration type %T", ErrInvalidSessionData, raw)
	}
}

// analyzeSessionBehavior computes the session component: duration,
// interaction depth, and conversion consistency.
func analyzeSessionBehavior(event *models.TrafficEvent, duration float64, details *models.ScoreDetails) int {
	durationScore := analyzeSessionDuration(duration)
	details.SessionDurationScore = durationScore

	interactionScore := analyzeUserInteraction(event)
	details.UserInteractionScore = interactionScore

	conversionScore := analyzeConversionBehavior(event)
	details.ConversionScore = conversionScore

	return durationScore + interactionScore + conversionScore
}

// analyzeSessionDuration rates session length: sub-5-unit sessions look
// like bounce/bot traffic, sub-30 are borderline.
func analyzeSessionDuration(duration float64) int {
	switch {
	case duration < 5:
		return 0
	case duration < 30:
		return 5
	}
	return 10
}

// analyzeUserInteraction is a fixed-value placeholder for interaction-depth
// analysis. The value feeds the total, so it cannot simply be removed.
func analyzeUserInteraction(event *models.TrafficEvent) int {
	return 10
}

// analyzeConversionBehavior is a fixed-value placeholder for conversion
// consistency analysis.
func analyzeConversionBehavior(event *models.TrafficEvent) int {
	return 5
}
