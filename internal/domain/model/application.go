//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// QuestionKind represents the widget type of an application form question.
type QuestionKind string

const (
	QuestionKindRadio    QuestionKind = "radio"
	QuestionKindDropdown QuestionKind = "dropdown"
	QuestionKindFreeText QuestionKind = "text"
	QuestionKindNumeric  QuestionKind = "numeric"
)

// Valid returns true if the question kind is valid.
func (k QuestionKind) Valid() bool {
	switch k {
	case QuestionKindRadio, QuestionKindDropdown, QuestionKindFreeText, QuestionKindNumeric:
		return true
	default:
		return false
	}
}

// String returns the string representation of the question kind.
func (k QuestionKind) String() string {
	return string(k)
}

// QuestionAnswer is one question/answer pair collected while filling a form.
type QuestionAnswer struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Kind     QuestionKind `json:"type"`
}

// ApplicationRecord collects everything entered into one posting's form.
// It is owned by a single in-flight application attempt and persisted as a
// side effect of submission.
type ApplicationRecord struct {
	JobID           string           `json:"job_id"`
	Company         string           `json:"company"`
	Title           string           `json:"title"`
	Answers         []QuestionAnswer `json:"answers"`
	ResumePath      string           `json:"resume_path,omitempty"`
	CoverLetterPath string           `json:"cover_letter_path,omitempty"`
}

// NewApplicationRecord starts an empty record for the given posting.
func NewApplicationRecord(job *JobPosting) *ApplicationRecord {
	return &ApplicationRecord{
		JobID:   job.ID,
		Company: job.Company,
		Title:   job.Title,
	}
}

// RecordAnswer appends an answer to the record in form order.
func (r *ApplicationRecord) RecordAnswer(qa QuestionAnswer) {
	r.Answers = append(r.Answers, qa)
}

// AnswerCacheEntry is a previously given answer, keyed by sanitized question
// text and kind. At most one entry per (question, kind) pair is stored.
type AnswerCacheEntry struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Kind     QuestionKind `json:"type"`
}
