package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trafficguard/trafficguard/internal/cache"
	"github.com/trafficguard/trafficguard/internal/collector"
	"github.com/trafficguard/trafficguard/internal/models"
	"github.com/trafficguard/trafficguard/internal/scoring"
)

const defaultRecordLimit = 20

// RecordQuerier is the read side of the score-record store used by the
// records endpoint. The persistence write side stays inside the engine.
type RecordQuerier interface {
	FindByConclusion(conclusion models.Conclusion, limit int) ([]*models.ScoreRecord, error)
	FindByIP(ip string) ([]*models.ScoreRecord, error)
	FindByScoreRange(min, max int) ([]*models.ScoreRecord, error)
	FindByCreatedAtBetween(start, end time.Time) ([]*models.ScoreRecord, error)
	FindRecent(limit int) ([]*models.ScoreRecord, error)
	CountByConclusion() (map[models.Conclusion]int64, error)
}

// Handler handles HTTP requests for the traffic scoring service
type Handler struct {
	engine    *scoring.Engine
	records   RecordQuerier
	collector *collector.Collector
	cache     *cache.Cache
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. records may be nil when the
// database is disabled; the records endpoint then reports the store
// unavailable instead of failing requests that score traffic.
func NewHandler(
	engine *scoring.Engine,
	records RecordQuerier,
	eventCollector *collector.Collector,
	queryCache *cache.Cache,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		engine:    engine,
		records:   records,
		collector: eventCollector,
		cache:     queryCache,
		logger:    logger,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/traffic-analysis", h.AnalyzeTraffic)
		api.GET("/traffic-records", h.GetTrafficRecords)
		api.POST("/traffic", h.CollectTraffic)
		api.GET("/traffic/latest", h.GetLatestTraffic)
	}
}

// AnalyzeTraffic scores a single traffic event and returns the verdict.
func (h *Handler) AnalyzeTraffic(c *gin.Context) {
	var event models.TrafficEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.backfillClientIP(c, &event)

	result, err := h.engine.Score(&event)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidSessionData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Traffic scoring failed", zap.String("ip", event.IP), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score traffic"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTrafficRecords returns persisted score records plus per-conclusion
// statistics. One filter applies per request, checked in order:
// conclusion, ip, score range, time window; with none the most recent
// records are returned. Responses are served from the query cache when
// one is configured.
func (h *Handler) GetTrafficRecords(c *gin.Context) {
	if h.records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Record store unavailable"})
		return
	}

	limit := defaultRecordLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	cacheKey := "traffic_records:" + c.Request.URL.RawQuery
	var cached recordsResponse
	if h.cache.Get(c.Request.Context(), cacheKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	var (
		records []*models.ScoreRecord
		err     error
	)
	switch {
	case c.Query("conclusion") != "":
		records, err = h.records.FindByConclusion(models.Conclusion(c.Query("conclusion")), limit)
	case c.Query("ip") != "":
		records, err = h.records.FindByIP(c.Query("ip"))
	case c.Query("min_score") != "" || c.Query("max_score") != "":
		minScore, maxScore, perr := scoreRange(c.Query("min_score"), c.Query("max_score"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid score range"})
			return
		}
		records, err = h.records.FindByScoreRange(minScore, maxScore)
	case c.Query("since") != "" || c.Query("until") != "":
		start, end, perr := timeWindow(c.Query("since"), c.Query("until"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window, expected RFC 3339"})
			return
		}
		records, err = h.records.FindByCreatedAtBetween(start, end)
	default:
		records, err = h.records.FindRecent(limit)
	}
	if err != nil {
		h.logger.Error("Failed to query score records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}
	if len(records) > limit {
		records = records[:limit]
	}

	counts, err := h.records.CountByConclusion()
	if err != nil {
		h.logger.Error("Failed to query record statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}

	response := recordsResponse{
		Records:    records,
		Statistics: buildStatistics(counts),
		Timestamp:  time.Now().UTC(),
	}
	h.cache.Set(c.Request.Context(), cacheKey, response)

	c.JSON(http.StatusOK, response)
}

// CollectTraffic buffers a traffic event without scoring it.
func (h *Handler) CollectTraffic(c *gin.Context) {
	var event models.TrafficEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.backfillClientIP(c, &event)
	h.collector.Add(&event)

	c.JSON(http.StatusOK, gin.H{"status": "collected"})
}

// GetLatestTraffic returns the most recently collected traffic event.
func (h *Handler) GetLatestTraffic(c *gin.Context) {
	event := h.collector.Latest()
	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No traffic collected"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "trafficguard",
	})
}

// backfillClientIP fills a missing event address from the X-Real-IP
// header, falling back to the transport-level client address. Events that
// arrive with an address keep it; the submitting page may be reporting on
// behalf of a different client.
func (h *Handler) backfillClientIP(c *gin.Context, event *models.TrafficEvent) {
	if event.IP != "" {
		return
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		event.IP = realIP
		return
	}
	event.IP = c.ClientIP()
}

type recordsResponse struct {
	Records    []*models.ScoreRecord `json:"records"`
	Statistics map[string]int64      `json:"statistics"`
	Timestamp  time.Time             `json:"timestamp"`
}

// scoreRange parses the min_score/max_score parameters, defaulting the
// missing bound to the edge of the score scale.
func scoreRange(minRaw, maxRaw string) (int, int, error) {
	minScore, maxScore := 0, 100
	if minRaw != "" {
		v, err := strconv.Atoi(minRaw)
		if err != nil {
			return 0, 0, err
		}
		minScore = v
	}
	if maxRaw != "" {
		v, err := strconv.Atoi(maxRaw)
		if err != nil {
			return 0, 0, err
		}
		maxScore = v
	}
	if minScore > maxScore {
		return 0, 0, fmt.Errorf("min score %d above max %d", minScore, maxScore)
	}
	return minScore, maxScore, nil
}

// timeWindow parses the since/until parameters as RFC 3339 timestamps.
// A missing since means "from the beginning"; a missing until means now.
func timeWindow(sinceRaw, untilRaw string) (time.Time, time.Time, error) {
	var start time.Time
	end := time.Now().UTC()

	if sinceRaw != "" {
		parsed, err := time.Parse(time.RFC3339, sinceRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if untilRaw != "" {
		parsed, err := time.Parse(time.RFC3339, untilRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}
	return start, end, nil
}

func buildStatistics(counts map[models.Conclusion]int64) map[string]int64 {
	stats := map[string]int64{
		string(models.ConclusionGenuine):    0,
		string(models.ConclusionSuspicious): 0,
		string(models.ConclusionFraudulent): 0,
	}
	var total int64
	for conclusion, count := range counts {
		stats[string(conclusion)] = count
		total += count
	}
	stats["total"] = total
	return stats
}
