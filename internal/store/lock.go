package store

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// sentinelLock is a coarse, polling-based mutual-exclusion lock backed by a
// lock file. Acquisition is bounded: if the lock never frees up, the writer
// proceeds anyway and logs a warning, since availability matters more than
// strict exclusion under the single-writer process model.
type sentinelLock struct {
	path     string
	attempts int
	poll     time.Duration
	logger   *slog.Logger

	owner string
}

// acquire polls for the lock file to disappear, then claims it. Returns
// true when the lock was actually claimed; false means the caller proceeds
// unlocked.
func (l *sentinelLock) acquire() bool {
	for attempt := 0; attempt < l.attempts; attempt++ {
		if _, err := os.Stat(l.path); os.IsNotExist(err) {
			break
		}
		time.Sleep(l.poll)
	}

	if _, err := os.Stat(l.path); err == nil {
		l.logger.Warn("could not acquire store lock, proceeding anyway", "path", l.path)
		return false
	}

	l.owner = uuid.NewString()
	if err := os.WriteFile(l.path, []byte(l.owner), 0o644); err != nil {
		l.logger.Warn("create store lock failed, proceeding anyway", "path", l.path, "error", err)
		return false
	}
	return true
}

func (l *sentinelLock) release() {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		l.logger.Warn("remove store lock failed", "path", l.path, "error", err)
	}
	l.owner = ""
}
