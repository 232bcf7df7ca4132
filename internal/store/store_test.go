package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/config"
	"github.com/applypilot/applypilot/internal/domain/model"
)

func testStorageConfig(dir string) config.StorageConfig {
	cfg := config.StorageConfig{OutputDir: dir, LockPollInterval: time.Millisecond}
	cfg.Sanitize()
	cfg.LockPollInterval = time.Millisecond
	return cfg
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Options{Config: testStorageConfig(t.TempDir())})
	require.NoError(t, err)
	return s
}

func testJob(link string) *model.JobPosting {
	return &model.JobPosting{
		ID:       "j-1",
		Title:    "Backend Engineer",
		Company:  "Acme",
		Location: "Madrid",
		Link:     link,
	}
}

func TestStoreOutcomeAppendsExactlyOne(t *testing.T) {
	s := newTestStore(t)

	for i := range 4 {
		job := testJob("https://jobs.example.com/view/" + string(rune('a'+i)))
		require.NoError(t, s.StoreOutcome(job, model.OutcomeSkipped, "blacklisted"))
	}

	records := s.Outcomes(model.OutcomeSkipped)
	require.Len(t, records, 4)
	assert.Equal(t, "blacklisted", records[0].Reason)
	assert.Equal(t, model.OutcomeSchemaVersion, records[0].SchemaVersion)
}

func TestStoreOutcomeRecoversFromCorruptPrimary(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.StoreOutcome(testJob("link-1"), model.OutcomeSuccess, ""))
	require.NoError(t, s.StoreOutcome(testJob("link-2"), model.OutcomeSuccess, ""))

	// Simulate a crash mid-write: the primary is garbage, the backup holds
	// the pre-crash array.
	path := filepath.Join(s.Dir(), "success.json")
	require.NoError(t, os.WriteFile(path, []byte("{torn write"), 0o644))

	require.NoError(t, s.StoreOutcome(testJob("link-3"), model.OutcomeSuccess, ""))

	records := s.Outcomes(model.OutcomeSuccess)
	// The backup held one record (written before link-2's append), so
	// recovery yields the pre-crash length plus the new record.
	require.Len(t, records, 2)
	assert.Equal(t, "link-3", records[1].Link)
}

func TestStoreOutcomeResetsWhenBackupAlsoCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.StoreOutcome(testJob("link-1"), model.OutcomeFailed, "boom"))

	path := filepath.Join(s.Dir(), "failed.json")
	require.NoError(t, os.WriteFile(path, []byte("{torn"), 0o644))
	require.NoError(t, os.WriteFile(path+".bak", []byte("also torn"), 0o644))

	require.NoError(t, s.StoreOutcome(testJob("link-2"), model.OutcomeFailed, "boom"))
	records := s.Outcomes(model.OutcomeFailed)
	require.Len(t, records, 1)
	assert.Equal(t, "link-2", records[0].Link)
}

func TestSeenIndexLoadsAtStartup(t *testing.T) {
	cfg := config.StorageConfig{OutputDir: t.TempDir()}
	cfg.Sanitize()

	s, err := New(Options{Config: cfg})
	require.NoError(t, err)
	require.NoError(t, s.StoreOutcome(testJob("applied-link"), model.OutcomeSuccess, ""))
	require.NoError(t, s.StoreOutcome(testJob("failed-link"), model.OutcomeFailed, "err"))

	reopened, err := New(Options{Config: cfg})
	require.NoError(t, err)
	assert.True(t, reopened.AlreadyApplied("applied-link"))
	assert.True(t, reopened.PreviouslyFailed("failed-link"))
	assert.False(t, reopened.AlreadyApplied("other-link"))
	assert.True(t, reopened.AppliedToCompany("acme"))
	assert.True(t, reopened.AppliedToCompany(" ACME "))
	assert.False(t, reopened.AppliedToCompany("Globex"))
}

func TestStoreOutcomeWithResumePath(t *testing.T) {
	s := newTestStore(t)
	job := testJob("link-r")
	job.ResumePath = filepath.Join(s.Dir(), "resume.pdf")

	require.NoError(t, s.StoreOutcome(job, model.OutcomeManualApply, ""))
	records := s.Outcomes(model.OutcomeManualApply)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].ResumeURI, "file://")
	assert.Contains(t, records[0].ResumeURI, "resume.pdf")
}

func TestStoreOutcomeProceedsWhenLockHeld(t *testing.T) {
	s := newTestStore(t)

	// A stale lock file from a crashed writer must not block outcomes.
	lockPath := filepath.Join(s.Dir(), ".file_lock")
	require.NoError(t, os.WriteFile(lockPath, []byte("stale"), 0o644))

	require.NoError(t, s.StoreOutcome(testJob("link-l"), model.OutcomeSkipped, "reason"))
	assert.Len(t, s.Outcomes(model.OutcomeSkipped), 1)

	// The stale lock is left in place; this writer never owned it.
	_, err := os.Stat(lockPath)
	assert.NoError(t, err)
}

func TestHasOutcomePredicate(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.StoreOutcome(testJob("link-p"), model.OutcomeSkipped, "outside range"))

	assert.True(t, s.HasOutcome(model.OutcomeSkipped, func(r model.OutcomeRecord) bool {
		return r.Reason == "outside range"
	}))
	assert.False(t, s.HasOutcome(model.OutcomeSkipped, func(r model.OutcomeRecord) bool {
		return r.Company == "Globex"
	}))
}
