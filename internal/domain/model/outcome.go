//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// OutcomeSchemaVersion tags persisted outcome records so the on-disk layout
// can be migrated forward without guessing.
const OutcomeSchemaVersion = 1

// OutcomeCategory names the bucket an outcome record is appended to.
// Each category maps to one JSON array file in the output directory.
type OutcomeCategory string

const (
	OutcomeSuccess     OutcomeCategory = "success"
	OutcomeSkipped     OutcomeCategory = "skipped"
	OutcomeFailed      OutcomeCategory = "failed"
	OutcomeManualApply OutcomeCategory = "manual_apply"
	OutcomeData        OutcomeCategory = "data"
)

// Valid returns true if the outcome category is valid.
func (c OutcomeCategory) Valid() bool {
	switch c {
	case OutcomeSuccess, OutcomeSkipped, OutcomeFailed, OutcomeManualApply, OutcomeData:
		return true
	default:
		return false
	}
}

// String returns the string representation of the outcome category.
func (c OutcomeCategory) String() string {
	return string(c)
}

// OutcomeRecord is one persisted application outcome. Records are append-only;
// categories are never rewritten except through backup recovery.
type OutcomeRecord struct {
	SchemaVersion int       `json:"schema_version"`
	Company       string    `json:"company"`
	Title         string    `json:"job_title"`
	Link          string    `json:"link"`
	RecruiterLink string    `json:"job_recruiter,omitempty"`
	Location      string    `json:"job_location"`
	StoredAt      time.Time `json:"storage_time"`
	Reason        string    `json:"reason,omitempty"`
	ResumeURI     string    `json:"resume_path,omitempty"`
}
