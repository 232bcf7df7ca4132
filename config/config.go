package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - search.go: Search policy and blacklist configuration
//   - pacing.go: Request pacing and session limits
//   - storage.go: Output directory and durable store configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, relaxed
	// pacing). Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Driver selects the portal collaborator wired at startup. "dryrun"
	// uses the synthetic in-process portal; integrations register their
	// own driver names.
	Driver string `env:"DRIVER" envDefault:"dryrun"`

	// Mode selects the engine run mode.
	Mode Mode `env:"MODE" envDefault:"apply"`

	// ResumeDir holds pre-built resumes named by language
	// (cv_eng.pdf / cv_esp.pdf). Empty means always generate.
	ResumeDir string `env:"RESUME_DIR"`

	// Search policy configuration
	Search SearchConfig

	// Pacing governor configuration
	Pacing PacingConfig

	// Durable store configuration
	Storage StorageConfig
}

// Mode represents the engine run mode.
type Mode string

const (
	// ModeApply drives applications end to end, including form traversal
	// and submission.
	ModeApply Mode = "apply"
	// ModeCollect pages through listings and records posting data without
	// applying.
	ModeCollect Mode = "collect"
	// ModeManual evaluates suitability, opens the form, and waits for the
	// operator to complete it.
	ModeManual Mode = "manual"
)

// Valid returns true if the mode is a known run mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeApply, ModeCollect, ModeManual:
		return true
	default:
		return false
	}
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Search.Sanitize()
	c.Pacing.Sanitize()
	c.Storage.Sanitize()

	c.Mode = Mode(strings.ToLower(strings.TrimSpace(c.Mode.String())))
	if !c.Mode.Valid() {
		c.Mode = ModeApply
	}

	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}

// Validate checks configuration invariants that Sanitize cannot repair.
func (c *AppConfig) Validate() error {
	if len(c.Search.Positions) == 0 {
		return fmt.Errorf("at least one search position is required")
	}
	if len(c.Search.Locations) == 0 {
		return fmt.Errorf("at least one search location is required")
	}
	if c.Storage.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}
