package config

import "time"

// PacingConfig bounds request cadence so a session stays within
// human-plausible limits.
type PacingConfig struct {
	// SessionFile is the path of the persisted session state.
	SessionFile string `env:"SESSION_FILE" envDefault:"session_data.json"`

	// DailyRequestLimit ends the session once today's requests exceed it.
	DailyRequestLimit int `env:"DAILY_REQUEST_LIMIT" envDefault:"300"`

	// NightRequestLimit applies between NightStartHour and NightEndHour
	// local time, when heavy browsing is implausible.
	NightRequestLimit int `env:"NIGHT_REQUEST_LIMIT" envDefault:"100"`
	NightStartHour    int `env:"NIGHT_START_HOUR" envDefault:"1"`
	NightEndHour      int `env:"NIGHT_END_HOUR" envDefault:"5"`

	// MaxSessionDuration ends a continuous session past this length.
	MaxSessionDuration time.Duration `env:"MAX_SESSION_DURATION" envDefault:"3h"`

	// BurstWindow and BurstLimit define the short-window request rate that
	// triggers long delays. Natural browsing rarely exceeds 12 requests a
	// minute.
	BurstWindow time.Duration `env:"BURST_WINDOW" envDefault:"60s"`
	BurstLimit  int           `env:"BURST_LIMIT" envDefault:"12"`

	// PersistProbability is the chance any single recorded request flushes
	// state to disk. Persistence is opportunistic to bound I/O.
	PersistProbability float64 `env:"PERSIST_PROBABILITY" envDefault:"0.2"`
}

// Sanitize applies guardrails to pacing configuration values.
func (p *PacingConfig) Sanitize() {
	if p.SessionFile == "" {
		p.SessionFile = "session_data.json"
	}
	if p.DailyRequestLimit <= 0 {
		p.DailyRequestLimit = 300
	}
	if p.NightRequestLimit <= 0 || p.NightRequestLimit > p.DailyRequestLimit {
		p.NightRequestLimit = p.DailyRequestLimit / 3
	}
	if p.NightStartHour < 0 || p.NightStartHour > 23 {
		p.NightStartHour = 1
	}
	if p.NightEndHour < p.NightStartHour || p.NightEndHour > 23 {
		p.NightEndHour = 5
	}
	if p.MaxSessionDuration <= 0 {
		p.MaxSessionDuration = 3 * time.Hour
	}
	if p.BurstWindow <= 0 {
		p.BurstWindow = time.Minute
	}
	if p.BurstLimit <= 0 {
		p.BurstLimit = 12
	}
	if p.PersistProbability <= 0 || p.PersistProbability > 1 {
		p.PersistProbability = 0.2
	}
}
