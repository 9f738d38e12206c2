package collector

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trafficguard/trafficguard/internal/models"
)

func eventWithIP(ip string) *models.TrafficEvent {
	return &models.TrafficEvent{IP: ip}
}

func TestCollector_Add(t *testing.T) {
	t.Run("Evicts Oldest At Capacity", func(t *testing.T) {
		c := New(3, zap.NewNop())
		for i := 0; i < 5; i++ {
			c.Add(eventWithIP(fmt.Sprintf("10.0.0.%d", i)))
		}

		assert.Equal(t, 3, c.Len())
		require.NotNil(t, c.Latest())
		assert.Equal(t, "10.0.0.4", c.Latest().IP)
	})

	t.Run("Backfills Empty Address", func(t *testing.T) {
		c := New(10, zap.NewNop())
		c.Add(eventWithIP(""))

		require.NotNil(t, c.Latest())
		assert.Equal(t, "127.0.0.1", c.Latest().IP)
	})

	t.Run("Ignores Nil Event", func(t *testing.T) {
		c := New(10, zap.NewNop())
		c.Add(nil)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Non Positive Capacity Uses Default", func(t *testing.T) {
		c := New(0, zap.NewNop())
		for i := 0; i < defaultCapacity+10; i++ {
			c.Add(eventWithIP("10.0.0.1"))
		}
		assert.Equal(t, defaultCapacity, c.Len())
	})
}

func TestCollector_Latest(t *testing.T) {
	c := New(10, zap.NewNop())
	assert.Nil(t, c.Latest(), "Empty collector returns nil")

	c.Add(eventWithIP("10.0.0.1"))
	c.Add(eventWithIP("10.0.0.2"))
	assert.Equal(t, "10.0.0.2", c.Latest().IP)
}

func TestCollector_Cleanup(t *testing.T) {
	t.Run("Keeps Newest Half", func(t *testing.T) {
		c := New(10, zap.NewNop())
		for i := 0; i < 8; i++ {
			c.Add(eventWithIP(fmt.Sprintf("10.0.0.%d", i)))
		}

		c.Cleanup()

		assert.Equal(t, 4, c.Len())
		assert.Equal(t, "10.0.0.7", c.Latest().IP, "Cleanup must keep the newest events")
	})

	t.Run("No Op Under Half Capacity", func(t *testing.T) {
		c := New(10, zap.NewNop())
		for i := 0; i < 5; i++ {
			c.Add(eventWithIP("10.0.0.1"))
		}

		c.Cleanup()
		assert.Equal(t, 5, c.Len())
	})
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := New(50, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Add(eventWithIP(fmt.Sprintf("10.0.%d.%d", n, j)))
				c.Latest()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}
