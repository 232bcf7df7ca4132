package store

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/applypilot/applypilot/internal/domain/model"
)

var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)

// SanitizeQuestion normalizes question text for cache keying: lower-cased,
// quotes and backslashes dropped, control characters stripped, newlines
// flattened, trailing commas trimmed.
func SanitizeQuestion(text string) string {
	sanitized := strings.ToLower(strings.TrimSpace(text))
	sanitized = strings.NewReplacer(`"`, "", `\`, "", "\n", " ", "\r", "").Replace(sanitized)
	sanitized = controlChars.ReplaceAllString(sanitized, "")
	return strings.TrimRight(sanitized, ",")
}

// FindAnswer looks up a cached answer by sanitized question text and kind.
func (s *Store) FindAnswer(question string, kind model.QuestionKind) (model.AnswerCacheEntry, bool) {
	key := SanitizeQuestion(question)
	for _, entry := range s.answers {
		if entry.Question == key && entry.Kind == kind {
			return entry, true
		}
	}
	return model.AnswerCacheEntry{}, false
}

// SaveAnswer persists a new cache entry. It is a no-op when an entry with
// the same (sanitized question, kind) key already exists, or when the answer
// embeds the current job's company name, which would leak company-specific
// text into later applications.
func (s *Store) SaveAnswer(entry model.AnswerCacheEntry, company string) error {
	entry.Question = SanitizeQuestion(entry.Question)

	if _, exists := s.FindAnswer(entry.Question, entry.Kind); exists {
		s.logger.Debug("answer already cached, skipping save", "question", entry.Question)
		return nil
	}
	if company != "" && strings.Contains(entry.Answer, company) {
		s.logger.Debug("answer mentions current company, not caching", "question", entry.Question)
		return nil
	}

	acquired := s.lock.acquire()
	defer func() {
		if acquired {
			s.lock.release()
		}
	}()

	s.answers = append(s.answers, entry)
	return s.writeAnswers()
}

// Answers returns the cached entries.
func (s *Store) Answers() []model.AnswerCacheEntry {
	return s.answers
}

// PruneAnswers drops every cached entry whose sanitized question contains
// the given term and rewrites the cache. Returns how many were removed.
func (s *Store) PruneAnswers(term string) (int, error) {
	term = strings.ToLower(term)
	kept := s.answers[:0]
	removed := 0
	for _, entry := range s.answers {
		if term != "" && strings.Contains(entry.Question, term) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	s.answers = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, s.writeAnswers()
}

// loadAnswers reads the answer cache with the same backup recovery the
// outcome categories get.
func (s *Store) loadAnswers() []model.AnswerCacheEntry {
	entries, err := readAnswerArray(s.answersPath)
	if err == nil {
		return entries
	}
	if os.IsNotExist(err) {
		return nil
	}

	s.logger.Error("answer cache unreadable, trying backup", "path", s.answersPath, "error", err)
	entries, bakErr := readAnswerArray(s.answersPath + ".bak")
	if bakErr != nil {
		s.logger.Error("answer cache backup also unreadable, resetting", "error", bakErr)
		return nil
	}
	return entries
}

func (s *Store) writeAnswers() error {
	if _, err := os.Stat(s.answersPath); err == nil {
		if err := copyFile(s.answersPath, s.answersPath+".bak"); err != nil {
			s.logger.Warn("backup answer cache failed", "error", err)
		}
	}

	data, err := json.MarshalIndent(s.answers, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal answer cache: %w", err)
	}
	if err := os.WriteFile(s.answersPath, data, 0o644); err != nil {
		return fmt.Errorf("write answer cache: %w", err)
	}
	return nil
}

func readAnswerArray(path string) ([]model.AnswerCacheEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []model.AnswerCacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}
