package collector

import (
	"sync"

	"go.uber.org/zap"

	"github.com/trafficguard/trafficguard/internal/models"
)

// defaultCapacity bounds the buffer when configuration gives no limit.
const defaultCapacity = 100

// Collector keeps a bounded in-memory buffer of the most recent traffic
// events, newest last. It exists so operators can inspect live traffic
// without touching the persistent store; events here are ephemeral and
// lost on restart.
type Collector struct {
	mu       sync.Mutex
	events   []*models.TrafficEvent
	capacity int
	logger   *zap.Logger
}

// New creates a collector bounded at capacity events. A non-positive
// capacity falls back to the default.
func New(capacity int, logger *zap.Logger) *Collector {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Collector{
		events:   make([]*models.TrafficEvent, 0, capacity),
		capacity: capacity,
		logger:   logger,
	}
}

// Add appends an event, evicting the oldest when the buffer is full.
// Events arriving without an address are attributed to localhost; by the
// time an event reaches the collector the transport layer has already had
// its chance to back-fill the real client address.
func (c *Collector) Add(event *models.TrafficEvent) {
	if event == nil {
		return
	}
	if event.IP == "" {
		event.IP = "127.0.0.1"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.events) >= c.capacity {
		evicted := len(c.events) - c.capacity + 1
		c.events = c.events[evicted:]
	}
	c.events = append(c.events, event)
}

// Latest returns the most recently added event, or nil when the buffer
// is empty.
func (c *Collector) Latest() *models.TrafficEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.events) == 0 {
		return nil
	}
	return c.events[len(c.events)-1]
}

// Len returns the number of buffered events.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Cleanup discards the older half of the buffer once it has grown past
// half capacity. It is called periodically so a slack buffer does not
// pin stale sessions in memory between bursts.
func (c *Collector) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.events) <= c.capacity/2 {
		return
	}

	keep := len(c.events) / 2
	dropped := len(c.events) - keep
	c.events = append(c.events[:0:0], c.events[len(c.events)-keep:]...)

	if c.logger != nil {
		c.logger.Debug("collector cleanup",
			zap.Int("dropped", dropped),
			zap.Int("remaining", len(c.events)),
		)
	}
}
