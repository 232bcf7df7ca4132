//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

// WorkType represents the work arrangement advertised on a posting.
type WorkType string

const (
	WorkTypeRemote  WorkType = "Remote"
	WorkTypeHybrid  WorkType = "Hybrid"
	WorkTypeOnSite  WorkType = "On-site"
	WorkTypeUnknown WorkType = ""
)

// Valid returns true if the work type is valid.
func (t WorkType) Valid() bool {
	switch t {
	case WorkTypeRemote, WorkTypeHybrid, WorkTypeOnSite, WorkTypeUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the work type.
func (t WorkType) String() string {
	return string(t)
}

// JobPosting represents one job listing with its metadata and description.
// Fields read from a listing tile are treated as immutable; Description,
// RecruiterLink, ResumePath, and CoverLetterPath are filled in during an
// application attempt.
type JobPosting struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Link     string   `json:"link"`
	WorkType WorkType `json:"work_type,omitempty"`

	Description   string `json:"description,omitempty"`
	RecruiterLink string `json:"recruiter_link,omitempty"`
	PostedTime    string `json:"posted_time,omitempty"`
	EasyApply     bool   `json:"easy_apply"`

	// ApplicantCount is nil when the listing did not expose one.
	ApplicantCount *int `json:"applicant_count,omitempty"`

	ResumePath      string `json:"resume_path,omitempty"`
	CoverLetterPath string `json:"cover_letter_path,omitempty"`
}

// Complete reports whether the identity fields required to track an
// application attempt are all populated.
func (p *JobPosting) Complete() bool {
	return p.ID != "" && p.Title != "" && p.Company != "" && p.Location != "" && p.Link != ""
}

// Identifiable reports whether the posting carries enough text to be
// filtered and recorded. Listing pages occasionally yield ghost tiles with
// empty titles or companies.
func (p *JobPosting) Identifiable() bool {
	return strings.TrimSpace(p.Title) != "" && strings.TrimSpace(p.Company) != ""
}
