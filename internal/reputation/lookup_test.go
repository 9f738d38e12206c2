package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// All lookup tests run without database files, which is exactly the
// degraded mode the service has to survive in production.
func degradedLookup(t *testing.T) *Lookup {
	t.Helper()
	l := NewLookup("", "", "", testClassifier(), zap.NewNop())
	t.Cleanup(l.Close)
	return l
}

func TestLookup_Degraded(t *testing.T) {
	l := degradedLookup(t)
	assert.True(t, l.Degraded())

	missing := NewLookup("testdata/does-not-exist.mmdb", "", "", testClassifier(), zap.NewNop())
	defer missing.Close()
	assert.True(t, missing.Degraded(), "Unreadable database files should be tolerated")
}

func TestLookup_Resolve(t *testing.T) {
	l := degradedLookup(t)

	t.Run("Manual Override Wins", func(t *testing.T) {
		finding := l.Resolve("74.63.233.50")
		assert.True(t, finding.IsProxy)
		assert.False(t, finding.Local)
		assert.False(t, finding.Malformed)
	})

	t.Run("Manual Override Keeps Geography Independent", func(t *testing.T) {
		// The forced proxy verdict must not mark the country as a lookup
		// miss; with no country database loaded the finding reports the
		// database absent, not an unresolved country.
		finding := l.Resolve("74.63.233.50")
		assert.True(t, finding.CountryUnavailable)
		assert.False(t, finding.CountryResolved)
		assert.False(t, finding.HighRiskCountry)
	})

	t.Run("Empty Address Is Local", func(t *testing.T) {
		finding := l.Resolve("")
		assert.True(t, finding.Local)
		assert.False(t, finding.IsProxy)
	})

	t.Run("Loopback Is Local", func(t *testing.T) {
		finding := l.Resolve("127.0.0.1")
		assert.True(t, finding.Local)
		assert.False(t, finding.IsProxy)
	})

	t.Run("Private Address Is Local", func(t *testing.T) {
		for _, ip := range []string{"10.0.0.1", "172.16.5.5", "192.168.1.10"} {
			finding := l.Resolve(ip)
			assert.True(t, finding.Local, "expected %s to be local", ip)
		}
	})

	t.Run("Malformed Address", func(t *testing.T) {
		finding := l.Resolve("not-an-ip")
		assert.True(t, finding.Malformed)
		assert.False(t, finding.IsProxy)
		assert.False(t, finding.Local)
	})

	t.Run("Public Address Without Databases", func(t *testing.T) {
		finding := l.Resolve("203.0.113.7")
		assert.True(t, finding.Degraded)
		assert.True(t, finding.CountryUnavailable)
		assert.False(t, finding.CountryResolved)
		assert.False(t, finding.IsProxy, "Degraded lookups must not fabricate proxy verdicts")
	})
}

func TestLookup_GeoSummary(t *testing.T) {
	l := degradedLookup(t)

	assert.Equal(t, "local loopback address", l.GeoSummary(""))
	assert.Equal(t, "local loopback address", l.GeoSummary("127.0.0.1"))
	assert.Equal(t, "private network address", l.GeoSummary("192.168.1.10"))
	assert.Equal(t, "unknown", l.GeoSummary("not-an-ip"))
	assert.Equal(t, "unknown", l.GeoSummary("203.0.113.7"))
}
