package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rvd/internal/structures"
)

type countingMetrics struct {
	hits   int
	misses int
}

func (m *countingMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *countingMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *countingMetrics) IncCacheHits()                                    { m.hits++ }
func (m *countingMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *countingMetrics) IncReportsIngested(_ bool)                        {}
func (m *countingMetrics) IncVotes(_ string)                                {}
func (m *countingMetrics) IncBroadcastSends(_ string)                       {}
func (m *countingMetrics) IncResyncFailures()                               {}
func (m *countingMetrics) AddReportsPurged(_ int)                           {}
func (m *countingMetrics) ObservePersistenceDuration(_ time.Duration)       {}

func TestInstrumentedCache_CountsHitsAndMisses(t *testing.T) {
	metrics := &countingMetrics{}
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 1}}
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, metrics)

	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 0, metrics.hits)

	c.Set("key", []byte("val"))
	val, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, []byte("val"), val)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestInstrumentedCache_SetWithTTLPassesThrough(t *testing.T) {
	metrics := &countingMetrics{}
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 1}}
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, metrics)

	c.SetWithTTL("key", []byte("val"), 60)
	val, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, []byte("val"), val)
}

func TestInstrumentedCache_DisabledStaysNoop(t *testing.T) {
	metrics := &countingMetrics{}
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: false}}
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, metrics)

	assert.IsType(t, &noopCache{}, c)
	_, ok := c.Get("key")
	assert.False(t, ok)
	// phantom misses are not counted when the cache is off
	assert.Equal(t, 0, metrics.misses)
}
