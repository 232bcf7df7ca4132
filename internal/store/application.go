package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/applypilot/applypilot/internal/domain/model"
)

// SaveApplication persists the collected form record under applications/ as a
// side effect of submission. Each record gets its own file so a torn write
// never damages earlier records.
func (s *Store) SaveApplication(record *model.ApplicationRecord) error {
	dir := filepath.Join(s.dir, "applications")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create applications directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal application record: %w", err)
	}

	path := filepath.Join(dir, uuid.NewString()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write application record: %w", err)
	}

	s.logger.Debug("saved application record", "company", record.Company, "title", record.Title, "path", path)
	return nil
}
