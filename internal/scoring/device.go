package scoring

import (
	"github.com/trafficguard/trafficguard/internal/models"
)

// analyzeDeviceFingerprint computes the device/browser component. All
// three sub-scorers are fixed-value placeholders pending richer signal;
// they stay independently pluggable because their output keys are part of
// the explainability contract.
func analyzeDeviceFingerprint(event *models.TrafficEvent, details *models.ScoreDetails) int {
	fingerprintScore := checkDeviceFingerprint(event)
	details.DeviceFingerprintScore = fingerprintScore

	browserScore := analyzeBrowserBehavior(event)
	details.BrowserBehaviorScore = browserScore

	uaScore := analyzeUserAgent(event)
	details.UserAgentScore = uaScore

	return fingerprintScore + browserScore + uaScore
}

func checkDeviceFingerprint(event *models.TrafficEvent) int {
	return 5
}

func analyzeBrowserBehavior(event *models.TrafficEvent) int {
	return 5
}

func analyzeUserAgent(event *models.TrafficEvent) int {
	return 5
}
