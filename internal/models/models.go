package models

import (
	"time"
)

// Conclusion is the categorical verdict derived from a total score.
type Conclusion string

const (
	ConclusionGenuine    Conclusion = "genuine"
	ConclusionSuspicious Conclusion = "suspicious"
	ConclusionFraudulent Conclusion = "fraudulent"
)

// ClickEvent is a single click observed during a session.
type ClickEvent struct {
	Timestamp  int64                  `json:"timestamp"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// PointerEvent is a mouse movement or scroll sample.
type PointerEvent struct {
	Timestamp int64   `json:"timestamp"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
}

// TrafficEvent is one inbound traffic sample submitted for scoring.
// IP may be empty at receipt time; the HTTP layer back-fills it from the
// X-Real-IP header, and the engine treats an empty address as local/private.
type TrafficEvent struct {
	IP                string                 `json:"ip"`
	UserAgent         string                 `json:"userAgent"`
	StartTime         int64                  `json:"startTime"`
	Clicks            []ClickEvent           `json:"clicks"`
	MouseMovements    []PointerEvent         `json:"mouseMovements"`
	ScrollEvents      []PointerEvent         `json:"scrollEvents"`
	SessionData       map[string]interface{} `json:"sessionData"`
	DeviceFingerprint string                 `json:"deviceFingerprint"`
}

// ScoreDetails is the per-factor breakdown returned alongside the total
// score. The JSON keys are a stable contract consumed by downstream
// dashboards; do not rename them.
type ScoreDetails struct {
	IPMalicious             bool `json:"ipMalicious"`
	ProxyScore              int  `json:"proxyScore"`
	IPBehaviorScore         int  `json:"ipBehaviorScore"`
	GeoLocationScore        int  `json:"geoLocationScore"`
	ClickSpeedScore         int  `json:"clickSpeedScore"`
	ClickPatternScore       int  `json:"clickPatternScore"`
	ClickPathScore          int  `json:"clickPathScore"`
	DisplayInteractionScore int  `json:"displayInteractionScore"`
	SessionDurationScore    int  `json:"sessionDurationScore"`
	UserInteractionScore    int  `json:"userInteractionScore"`
	ConversionScore         int  `json:"conversionScore"`
	DeviceFingerprintScore  int  `json:"deviceFingerprintScore"`
	BrowserBehaviorScore    int  `json:"browserBehaviorScore"`
	UserAgentScore          int  `json:"userAgentScore"`

	// DegradedMode is true when the reputation databases were unavailable
	// for this scoring call, so callers can tell "low score from detected
	// fraud" apart from "low score from degraded detection".
	DegradedMode bool `json:"degradedMode"`
}

// ScoreResult is the outcome of scoring a single traffic event.
type ScoreResult struct {
	TotalScore int           `json:"totalScore"`
	Details    *ScoreDetails `json:"details"`
	Conclusion Conclusion    `json:"conclusion"`
	IPGeoInfo  string        `json:"ipGeoInfo"`
}

// SetTotalScore sets the total score and derives the conclusion from it.
// This is the only place a conclusion is assigned, which keeps score and
// conclusion from ever drifting apart.
func (r *ScoreResult) SetTotalScore(score int) {
	r.TotalScore = score
	switch {
	case score >= 80:
		r.Conclusion = ConclusionGenuine
	case score >= 50:
		r.Conclusion = ConclusionSuspicious
	default:
		r.Conclusion = ConclusionFraudulent
	}
}

// ScoreRecord is the persisted snapshot of one scored event. Records are
// written once and never mutated; retention is a storage-layer concern.
type ScoreRecord struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	IP           string     `gorm:"not null;index" json:"ip"`
	UserAgent    string     `gorm:"column:user_agent;size:500" json:"userAgent"`
	TotalScore   int        `gorm:"column:total_score;not null" json:"totalScore"`
	IPScore      int        `gorm:"column:ip_score" json:"ipScore"`
	ClickScore   int        `gorm:"column:click_score" json:"clickScore"`
	SessionScore int        `gorm:"column:session_score" json:"sessionScore"`
	DeviceScore  int        `gorm:"column:device_score" json:"deviceScore"`
	Conclusion   Conclusion `gorm:"size:20;index" json:"conclusion"`
	ScoreDetails string     `gorm:"column:score_details;type:text" json:"scoreDetails"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName overrides the default gorm table name.
func (ScoreRecord) TableName() string {
	return "traffic_score_records"
}
