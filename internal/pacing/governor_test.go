package pacing

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/config"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func testConfig(t *testing.T) config.PacingConfig {
	t.Helper()
	cfg := config.PacingConfig{
		SessionFile: filepath.Join(t.TempDir(), "session_data.json"),
	}
	cfg.Sanitize()
	return cfg
}

func newTestGovernor(t *testing.T, clock TimeProvider) *Governor {
	t.Helper()
	return New(Options{
		Config: testConfig(t),
		Clock:  clock,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
}

func TestNextDelayBounds(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)}
	g := newTestGovernor(t, clock)

	for range 200 {
		d := g.NextDelay()
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 10*time.Second)
	}
}

func TestNextDelayLongWhenBursting(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)}
	g := newTestGovernor(t, clock)

	// 13 requests inside the trailing minute exceed the burst limit.
	for range 13 {
		g.RecordRequest("https://jobs.example.com/search")
		clock.advance(time.Second)
	}

	for range 50 {
		d := g.NextDelay()
		assert.GreaterOrEqual(t, d, 5*time.Second)
		assert.LessOrEqual(t, d, 15*time.Second)
	}
}

func TestShouldEndSessionDailyLimit(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)}
	g := newTestGovernor(t, clock)
	g.StartSession()

	for range 301 {
		g.RecordRequest("https://jobs.example.com/search")
	}
	assert.True(t, g.ShouldEndSession())
}

func TestShouldEndSessionNightQuota(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 3, 0, 0, 0, time.Local)}
	g := newTestGovernor(t, clock)
	g.StartSession()

	for range 101 {
		g.RecordRequest("https://jobs.example.com/search")
	}
	assert.True(t, g.ShouldEndSession())

	// The same volume at midday is fine.
	clock.now = time.Date(2026, 3, 2, 14, 0, 0, 0, time.Local)
	assert.False(t, g.ShouldEndSession())
}

func TestShouldEndSessionDuration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)}
	g := newTestGovernor(t, clock)
	g.StartSession()

	assert.False(t, g.ShouldEndSession())
	clock.advance(3*time.Hour + time.Minute)
	assert.True(t, g.ShouldEndSession())
}

func TestRecordRequestTracksDomains(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)}
	g := newTestGovernor(t, clock)

	g.RecordRequest("https://jobs.example.com/view/1")
	g.RecordRequest("https://jobs.example.com/view/2")
	g.RecordRequest("careers.other.com/listing")

	require.NoError(t, g.Persist())
	assert.Equal(t, 2, g.state.DomainVisits["jobs.example.com"])
	assert.Equal(t, 1, g.state.DomainVisits["careers.other.com"])
	assert.Equal(t, 3, g.RequestsToday())
}

func TestCorruptStateFileResetsClean(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.SessionFile, []byte("{not json"), 0o644))

	g := New(Options{Config: cfg, Clock: &fakeClock{now: time.Now()}})
	assert.Equal(t, 0, g.RequestsToday())
	assert.NotNil(t, g.state.DailyRequests)
}

func TestStatePersistsAcrossGovernors(t *testing.T) {
	cfg := testConfig(t)
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)}

	g := New(Options{Config: cfg, Clock: clock, Rand: rand.New(rand.NewPCG(7, 7))})
	g.RecordRequest("https://jobs.example.com/a")
	require.NoError(t, g.Persist())

	g2 := New(Options{Config: cfg, Clock: clock})
	assert.Equal(t, 1, g2.RequestsToday())
}
