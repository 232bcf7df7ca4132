// Package store is the durable, crash-tolerant record store for application
// outcomes and previously given answers. Files are JSON arrays guarded by a
// sentinel lock file and a .bak sibling; corruption is recovered from the
// backup or reset to empty, never surfaced to callers.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/applypilot/applypilot/config"
	"github.com/applypilot/applypilot/internal/domain/model"
)

// Store owns the output directory. The process model assumes a single
// writer, so the sentinel lock only guards against accidental concurrent
// invocations and favors forward progress over strict exclusion.
type Store struct {
	dir         string
	answersPath string
	lock        *sentinelLock
	logger      *slog.Logger
	now         func() time.Time

	answers []model.AnswerCacheEntry

	// seen indexes are loaded once at startup and kept current on every
	// StoreOutcome, replacing per-check file scans.
	appliedLinks     map[string]struct{}
	failedLinks      map[string]struct{}
	appliedCompanies map[string]struct{}
}

// Options holds the dependencies for creating a Store.
type Options struct {
	Config config.StorageConfig
	Logger *slog.Logger
	Now    func() time.Time
}

// New creates the output directory if needed and loads the seen indexes and
// answer cache. An uncreatable directory is the one unrecoverable setup
// error the store reports.
func New(opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := os.MkdirAll(opts.Config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", opts.Config.OutputDir, err)
	}

	s := &Store{
		dir:         opts.Config.OutputDir,
		answersPath: filepath.Join(opts.Config.OutputDir, opts.Config.AnswersFile),
		lock: &sentinelLock{
			path:     filepath.Join(opts.Config.OutputDir, ".file_lock"),
			attempts: opts.Config.LockAttempts,
			poll:     opts.Config.LockPollInterval,
			logger:   opts.Logger,
		},
		logger:           opts.Logger,
		now:              opts.Now,
		appliedLinks:     make(map[string]struct{}),
		failedLinks:      make(map[string]struct{}),
		appliedCompanies: make(map[string]struct{}),
	}

	s.loadSeenIndex()
	s.answers = s.loadAnswers()
	return s, nil
}

func (s *Store) loadSeenIndex() {
	for _, rec := range s.readCategory(model.OutcomeSuccess) {
		s.appliedLinks[rec.Link] = struct{}{}
		s.appliedCompanies[normalizeCompany(rec.Company)] = struct{}{}
	}
	for _, rec := range s.readCategory(model.OutcomeFailed) {
		s.failedLinks[rec.Link] = struct{}{}
	}
}

// StoreOutcome serializes an outcome record and appends it to the category
// file. Every successful call adds exactly one array element.
func (s *Store) StoreOutcome(job *model.JobPosting, category model.OutcomeCategory, reason string) error {
	if !category.Valid() {
		return fmt.Errorf("invalid outcome category %q", category)
	}

	acquired := s.lock.acquire()
	defer func() {
		if acquired {
			s.lock.release()
		}
	}()

	rec := model.OutcomeRecord{
		SchemaVersion: model.OutcomeSchemaVersion,
		Company:       job.Company,
		Title:         job.Title,
		Link:          job.Link,
		RecruiterLink: job.RecruiterLink,
		Location:      job.Location,
		StoredAt:      s.now(),
		Reason:        reason,
	}
	if job.ResumePath != "" {
		rec.ResumeURI = fileURI(job.ResumePath)
	}

	existing := s.readCategory(category)
	existing = append(existing, rec)
	if err := s.writeCategory(category, existing); err != nil {
		return err
	}

	switch category {
	case model.OutcomeSuccess:
		s.appliedLinks[rec.Link] = struct{}{}
		s.appliedCompanies[normalizeCompany(rec.Company)] = struct{}{}
	case model.OutcomeFailed:
		s.failedLinks[rec.Link] = struct{}{}
	case model.OutcomeSkipped, model.OutcomeManualApply, model.OutcomeData:
	}

	s.logger.Debug("stored outcome", "category", category.String(), "company", job.Company, "title", job.Title)
	return nil
}

// Outcomes returns all records in a category.
func (s *Store) Outcomes(category model.OutcomeCategory) []model.OutcomeRecord {
	return s.readCategory(category)
}

// HasOutcome reports whether any record in the category satisfies the
// predicate.
func (s *Store) HasOutcome(category model.OutcomeCategory, pred func(model.OutcomeRecord) bool) bool {
	for _, rec := range s.readCategory(category) {
		if pred(rec) {
			return true
		}
	}
	return false
}

// AlreadyApplied reports whether a successful application was recorded for
// this link.
func (s *Store) AlreadyApplied(link string) bool {
	_, ok := s.appliedLinks[link]
	return ok
}

// PreviouslyFailed reports whether a failed attempt was recorded for this
// link.
func (s *Store) PreviouslyFailed(link string) bool {
	_, ok := s.failedLinks[link]
	return ok
}

// AppliedToCompany reports whether any successful application was recorded
// at this company.
func (s *Store) AppliedToCompany(company string) bool {
	_, ok := s.appliedCompanies[normalizeCompany(company)]
	return ok
}

// Dir returns the store's output directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) categoryPath(category model.OutcomeCategory) string {
	return filepath.Join(s.dir, category.String()+".json")
}

// readCategory loads a category file, falling back to the .bak sibling on
// parse failure and to an empty array when both are unreadable.
func (s *Store) readCategory(category model.OutcomeCategory) []model.OutcomeRecord {
	path := s.categoryPath(category)
	records, err := readRecordArray(path)
	if err == nil {
		return records
	}
	if os.IsNotExist(err) {
		return nil
	}

	s.logger.Error("category file unreadable, trying backup", "path", path, "error", err)
	records, bakErr := readRecordArray(path + ".bak")
	if bakErr != nil {
		s.logger.Error("backup also unreadable, resetting category", "path", path+".bak", "error", bakErr)
		return nil
	}
	return records
}

func (s *Store) writeCategory(category model.OutcomeCategory, records []model.OutcomeRecord) error {
	path := s.categoryPath(category)

	// Preserve the previous contents before the rewrite so a torn write
	// can be recovered.
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".bak"); err != nil {
			s.logger.Warn("backup category file failed", "path", path, "error", err)
		}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s records: %w", category, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readRecordArray(path string) ([]model.OutcomeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []model.OutcomeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func fileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

func normalizeCompany(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}
