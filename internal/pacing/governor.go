// Package pacing enforces human-plausible request cadence and session
// length limits. The governor's persisted state only needs to be
// approximately accurate, so it is written opportunistically rather than on
// every event.
package pacing

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/applypilot/applypilot/config"
	"github.com/applypilot/applypilot/internal/domain/model"
)

const dayFormat = "2006-01-02"

// historyWindow bounds how long individual request timestamps are kept.
const historyWindow = time.Hour

// TimeProvider abstracts time.Now so tests can control the clock.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider is the production TimeProvider.
type RealTimeProvider struct{}

// Now returns the current time.
func (RealTimeProvider) Now() time.Time { return time.Now() }

// Governor tracks request history and decides delays and session limits.
// It is not safe for concurrent use; the engine is single-threaded.
type Governor struct {
	cfg    config.PacingConfig
	clock  TimeProvider
	rng    *rand.Rand
	logger *slog.Logger

	state        model.SessionState
	recent       []time.Time
	sessionStart time.Time
}

// Options holds the dependencies for creating a Governor.
type Options struct {
	Config config.PacingConfig
	Clock  TimeProvider
	Rand   *rand.Rand
	Logger *slog.Logger
}

// New creates a Governor, loading persisted session state. An unreadable or
// unparsable state file is treated as an empty-state reset, never an error.
func New(opts Options) *Governor {
	if opts.Clock == nil {
		opts.Clock = RealTimeProvider{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	g := &Governor{
		cfg:    opts.Config,
		clock:  opts.Clock,
		rng:    opts.Rand,
		logger: opts.Logger,
	}
	g.state = g.loadState()
	return g
}

func (g *Governor) loadState() model.SessionState {
	data, err := os.ReadFile(g.cfg.SessionFile)
	if err != nil {
		if !os.IsNotExist(err) {
			g.logger.Warn("read session state failed, resetting", "path", g.cfg.SessionFile, "error", err)
		}
		return model.EmptySessionState()
	}

	var state model.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		g.logger.Warn("parse session state failed, resetting", "path", g.cfg.SessionFile, "error", err)
		return model.EmptySessionState()
	}
	if state.DailyRequests == nil {
		state.DailyRequests = make(map[string]int)
	}
	if state.DomainVisits == nil {
		state.DomainVisits = make(map[string]int)
	}
	return state
}

// Persist writes the session state to disk. Called at lifecycle points and
// with low probability on request events.
func (g *Governor) Persist() error {
	data, err := json.Marshal(g.state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := os.WriteFile(g.cfg.SessionFile, data, 0o644); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}

// StartSession stamps a new session start time. When the previous session
// ended under an hour ago, a short synthetic "natural break" is logged; it
// does not block.
func (g *Governor) StartSession() {
	now := g.clock.Now()

	if !g.state.LastSession.IsZero() && now.Sub(g.state.LastSession) < time.Hour {
		naturalBreak := g.uniform(15*time.Second, 45*time.Second)
		g.logger.Info("short gap since previous session, noting a natural break",
			"break", naturalBreak.Round(time.Second))
	}

	g.sessionStart = now
	g.state.LastSession = now
	if err := g.Persist(); err != nil {
		g.logger.Warn("persist session state failed", "error", err)
	}
	g.logger.Info("started browsing session", "at", now.Format(time.RFC3339))
}

// RecordRequest appends a timestamped request event, prunes events older
// than an hour, and updates daily and per-domain counters. State is flushed
// to disk with low probability to bound I/O.
func (g *Governor) RecordRequest(rawURL string) {
	now := g.clock.Now()
	g.recent = append(g.recent, now)
	g.pruneRecent(now)

	day := now.Format(dayFormat)
	g.state.DailyRequests[day]++

	if domain := hostOf(rawURL); domain != "" {
		g.state.DomainVisits[domain]++
	}

	if g.rng.Float64() < g.cfg.PersistProbability {
		if err := g.Persist(); err != nil {
			g.logger.Warn("persist session state failed", "error", err)
		}
	}
}

func (g *Governor) pruneRecent(now time.Time) {
	cutoff := now.Add(-historyWindow)
	kept := g.recent[:0]
	for _, t := range g.recent {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	g.recent = kept
}

// NextDelay returns a natural delay for the next request. Bursting past the
// configured limit forces a long delay; otherwise most delays are short with
// occasional longer pauses.
func (g *Governor) NextDelay() time.Duration {
	if g.burstExceeded() {
		return g.uniform(5*time.Second, 15*time.Second)
	}
	if g.rng.Float64() < 0.7 {
		return g.uniform(1*time.Second, 4*time.Second)
	}
	return g.uniform(4*time.Second, 10*time.Second)
}

func (g *Governor) burstExceeded() bool {
	now := g.clock.Now()
	cutoff := now.Add(-g.cfg.BurstWindow)
	count := 0
	for _, t := range g.recent {
		if t.After(cutoff) {
			count++
		}
	}
	return count > g.cfg.BurstLimit
}

// RequestsToday returns today's recorded request total.
func (g *Governor) RequestsToday() int {
	return g.state.DailyRequests[g.clock.Now().Format(dayFormat)]
}

// ShouldEndSession reports whether the session has outlived human-plausible
// bounds: the daily quota, the stricter late-night quota, or the maximum
// continuous session duration.
func (g *Governor) ShouldEndSession() bool {
	now := g.clock.Now()
	today := g.state.DailyRequests[now.Format(dayFormat)]

	if today > g.cfg.DailyRequestLimit {
		return true
	}

	hour := now.Hour()
	if hour >= g.cfg.NightStartHour && hour <= g.cfg.NightEndHour && today > g.cfg.NightRequestLimit {
		return true
	}

	if !g.sessionStart.IsZero() && now.Sub(g.sessionStart) > g.cfg.MaxSessionDuration {
		return true
	}
	return false
}

func (g *Governor) uniform(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(g.rng.Int64N(int64(max-min)))
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil && u.Host != "" {
		return u.Host
	}
	// Bare host or scheme-less URL.
	trimmed := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}
