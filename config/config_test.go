package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppConfigSanitizeDefaults(t *testing.T) {
	cfg := AppConfig{}
	cfg.Sanitize()

	assert.Equal(t, ModeApply, cfg.Mode)
	assert.Equal(t, 300, cfg.Pacing.DailyRequestLimit)
	assert.Equal(t, 12, cfg.Pacing.BurstLimit)
	assert.Equal(t, "job_applications", cfg.Storage.OutputDir)
	assert.Equal(t, 5, cfg.Storage.LockAttempts)
	assert.Equal(t, 45*time.Second, cfg.Search.AppDelayMin)
	assert.Equal(t, 45*time.Second, cfg.Search.AppDelayMax)
}

func TestModeSanitizedToLower(t *testing.T) {
	cfg := AppConfig{Mode: Mode("  Manual ")}
	cfg.Sanitize()
	assert.Equal(t, ModeManual, cfg.Mode)
}

func TestInvalidModeFallsBackToApply(t *testing.T) {
	cfg := AppConfig{Mode: Mode("yolo")}
	cfg.Sanitize()
	assert.Equal(t, ModeApply, cfg.Mode)
}

func TestSearchSanitizeClampsApplicantRange(t *testing.T) {
	s := SearchConfig{MinApplicants: 10, MaxApplicants: 3}
	s.Sanitize()
	assert.Equal(t, 10, s.MinApplicants)
	assert.Equal(t, 10, s.MaxApplicants)
}

func TestPacingSanitizeRepairsNightWindow(t *testing.T) {
	p := PacingConfig{NightStartHour: 30, NightEndHour: -2}
	p.Sanitize()
	assert.Equal(t, 1, p.NightStartHour)
	assert.Equal(t, 5, p.NightEndHour)
}

func TestValidateRequiresSearchTerms(t *testing.T) {
	cfg := AppConfig{}
	cfg.Sanitize()

	assert.Error(t, cfg.Validate())

	cfg.Search.Positions = []string{"backend engineer"}
	assert.Error(t, cfg.Validate())

	cfg.Search.Locations = []string{"Madrid"}
	assert.NoError(t, cfg.Validate())
}
