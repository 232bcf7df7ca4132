package config

import "time"

// StorageConfig controls the durable record store layout and its sentinel
// lock behavior.
type StorageConfig struct {
	// OutputDir holds one JSON array file per outcome category plus the
	// answer cache and generated documents.
	OutputDir string `env:"OUTPUT_DIR" envDefault:"job_applications"`

	// AnswersFile is the answer cache filename within OutputDir.
	AnswersFile string `env:"ANSWERS_FILE" envDefault:"answers.json"`

	// LockAttempts bounds how many times a writer polls for the sentinel
	// lock before proceeding unlocked.
	LockAttempts int `env:"STORE_LOCK_ATTEMPTS" envDefault:"5"`

	// LockPollInterval is the wait between lock polls.
	LockPollInterval time.Duration `env:"STORE_LOCK_POLL_INTERVAL" envDefault:"500ms"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.OutputDir == "" {
		s.OutputDir = "job_applications"
	}
	if s.AnswersFile == "" {
		s.AnswersFile = "answers.json"
	}
	if s.LockAttempts <= 0 {
		s.LockAttempts = 5
	}
	if s.LockPollInterval <= 0 {
		s.LockPollInterval = 500 * time.Millisecond
	}
}
