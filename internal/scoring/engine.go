package scoring

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/trafficguard/trafficguard/internal/metrics"
	"github.com/trafficguard/trafficguard/internal/models"
	"github.com/trafficguard/trafficguard/internal/reputation"
)

// RecordStore persists score records. Persistence is best-effort: the
// engine logs and swallows failures so a store outage never affects the
// score returned to the caller.
type RecordStore interface {
	Save(record *models.ScoreRecord) error
}

// Engine scores one traffic event at a time. It holds only read-only
// shared state (the reputation lookup and the classifier, both loaded at
// startup), so concurrent Score calls need no synchronization.
type Engine struct {
	lookup     *reputation.Lookup
	classifier *reputation.Classifier
	store      RecordStore
	metrics    *metrics.Collector
	logger     *zap.Logger
}

// NewEngine creates a new scoring engine. store may be nil when the
// database is disabled; records are then dropped with a debug log.
func NewEngine(
	lookup *reputation.Lookup,
	classifier *reputation.Classifier,
	store RecordStore,
	collector *metrics.Collector,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		lookup:     lookup,
		classifier: classifier,
		store:      store,
		metrics:    collector,
		logger:     logger,
	}
}

// Score analyzes a single traffic event and returns its trust score. The
// only error it returns is a validation error for malformed input; every
// external-lookup problem degrades to neutral defaults instead.
//
// Two terminal paths exist: the malicious-IP short circuit (total 0, all
// component scores 0, behavioral analyzers skipped) and the full pipeline.
// Both end in the same record-emit step.
func (e *Engine) Score(event *models.TrafficEvent) (*models.ScoreResult, error) {
	started := time.Now()

	// Reject malformed input before any scoring so we never fabricate a
	// score from guessed session data.
	duration, err := sessionDuration(event.SessionData)
	if err != nil {
		return nil, err
	}

	details := &models.ScoreDetails{}
	result := &models.ScoreResult{
		Details:   details,
		IPGeoInfo: e.lookup.GeoSummary(event.IP),
	}

	if e.classifier.IsMalicious(event.IP) {
		e.logger.Info("Denylisted IP, short-circuiting score", zap.String("ip", event.IP))
		details.IPMalicious = true
		result.SetTotalScore(0)
		e.metrics.RecordMaliciousIPHit()
		e.emitRecord(event, result, 0, 0, 0, 0)
		e.metrics.RecordScore(string(result.Conclusion), time.Since(started))
		return result, nil
	}

	ipScore := e.analyzeIPFeatures(event, details)
	clickScore := analyzeClickBehavior(event, details)
	sessionScore := analyzeSessionBehavior(event, duration, details)
	deviceScore := analyzeDeviceFingerprint(event, details)

	result.SetTotalScore(ipScore + clickScore + sessionScore + deviceScore)

	e.emitRecord(event, result, ipScore, clickScore, sessionScore, deviceScore)
	e.metrics.RecordScore(string(result.Conclusion), time.Since(started))

	e.logger.Info("Scored traffic event",
		zap.String("ip", event.IP),
		zap.Int("total_score", result.TotalScore),
		zap.String("conclusion", string(result.Conclusion)))

	return result, nil
}

// analyzeIPFeatures computes the network/IP component: proxy check, IP
// behavior pattern, and geography/language consistency.
func (e *Engine) analyzeIPFeatures(event *models.TrafficEvent, details *models.ScoreDetails) int {
	finding := e.lookup.Resolve(event.IP)
	details.DegradedMode = finding.Degraded
	if finding.Degraded {
		e.metrics.RecordDegradedLookup()
	}

	proxyScore := 10
	if finding.IsProxy {
		proxyScore = 0
		e.metrics.RecordProxyVerdict()
	}
	details.ProxyScore = proxyScore

	behaviorScore := analyzeIPBehaviorPattern(event)
	details.IPBehaviorScore = behaviorScore

	geoScore := e.geoLocationScore(finding, event.DeviceFingerprint)
	details.GeoLocationScore = geoScore

	return proxyScore + behaviorScore + geoScore
}

// analyzeIPBehaviorPattern is a fixed-value placeholder pending per-address
// history. The value feeds the total, so it cannot simply be removed.
func analyzeIPBehaviorPattern(event *models.TrafficEvent) int {
	return 8
}

// geoLocationScore rates geography/language consistency on a 0-5 scale.
// Local traffic and a missing country database earn full credit; an
// unresolvable address earns the middle of the range.
func (e *Engine) geoLocationScore(finding reputation.Finding, fingerprint string) int {
	switch {
	case finding.Local:
		return 5
	case finding.CountryUnavailable:
		return 5
	case finding.Malformed, !finding.CountryResolved:
		return 3
	}

	language := reputation.ExtractLanguage(fingerprint)
	matches := reputation.LanguageMatchesCountry(language, finding.CountryCode)

	if finding.HighRiskCountry {
		if matches {
			return 2
		}
		return 1
	}
	if matches {
		return 5
	}
	return 2
}

// emitRecord maps the score into a persistence-ready record and hands it
// to the store. Both terminal scoring paths funnel through here.
func (e *Engine) emitRecord(event *models.TrafficEvent, result *models.ScoreResult, ipScore, clickScore, sessionScore, deviceScore int) {
	if e.store == nil {
		e.logger.Debug("No record store configured, dropping score record", zap.String("ip", event.IP))
		return
	}

	record := &models.ScoreRecord{
		IP:           event.IP,
		UserAgent:    event.UserAgent,
		TotalScore:   result.TotalScore,
		IPScore:      ipScore,
		ClickScore:   clickScore,
		SessionScore: sessionScore,
		DeviceScore:  deviceScore,
		Conclusion:   result.Conclusion,
	}

	if detailsJSON, err := json.Marshal(result.Details); err == nil {
		record.ScoreDetails = string(detailsJSON)
	}

	if err := e.store.Save(record); err != nil {
		e.logger.Error("Failed to save traffic score record",
			zap.String("ip", event.IP),
			zap.Error(err))
		e.metrics.RecordPersistFailure()
		return
	}
	e.metrics.RecordPersisted()
}
