// Package core defines the collaborator contracts the application engine
// consumes. Implementations live outside the engine (browser drivers,
// language-model clients, document renderers); the engine only depends on
// these narrow interfaces.
package core

import (
	"context"

	"github.com/applypilot/applypilot/internal/domain/model"
)

// PostingHandle is an opaque reference to a listing tile owned by the
// listing provider.
type PostingHandle interface {
	// Label returns a short human-readable description used in logs.
	Label() string
}

// ElementHandle is an opaque reference to a form control owned by the
// application form provider.
type ElementHandle interface {
	// Label returns a short human-readable description used in logs.
	Label() string
}

// SelectQuestion is a choice question (radio group or dropdown) read from a
// form section.
type SelectQuestion struct {
	Question string
	Options  []string
}

// TextQuestion is a free-text or numeric question read from a form section.
type TextQuestion struct {
	Question string
	Numeric  bool
}

// ListingProvider navigates search result pages and resolves posting tiles
// into postings.
type ListingProvider interface {
	// NextPage navigates to the given results page for a search pair.
	NextPage(ctx context.Context, position, location string, page int) error

	// Postings enumerates the posting tiles on the current page,
	// optionally scrolling to force lazy tiles to load.
	Postings(ctx context.Context, scroll bool) ([]PostingHandle, error)

	// Posting resolves a tile into a JobPosting.
	Posting(ctx context.Context, handle PostingHandle) (*model.JobPosting, error)

	// Insights returns the listing's insight texts (applicant counts and
	// similar) for a posting, if any.
	Insights(ctx context.Context, handle PostingHandle) ([]string, error)

	// GoToPosting loads the posting's own page.
	GoToPosting(ctx context.Context, job *model.JobPosting) error

	// Description returns the posting page's description text.
	Description(ctx context.Context, job *model.JobPosting) (string, error)

	// RecruiterLink returns the recruiter profile link from the current
	// posting page, or empty when none is shown.
	RecruiterLink(ctx context.Context) (string, error)

	// OpenApplication activates the apply affordance on the current
	// posting page.
	OpenApplication(ctx context.Context, job *model.JobPosting) error

	// SubmissionConfirmed reports whether the portal is showing its
	// application-sent indicator. Used by the manual-completion wait.
	SubmissionConfirmed(ctx context.Context) (bool, error)

	// CurrentURL returns the driver's current location, for pacing.
	CurrentURL() string
}

// UploadedDocument is a document already attached to the applicant's portal
// profile, reusable instead of generating a new one.
type UploadedDocument struct {
	Handle   ElementHandle
	Filename string
}

// ApplicationForm drives one posting's multi-step application form.
type ApplicationForm interface {
	HasNextPage(ctx context.Context) (bool, error)
	ClickNext(ctx context.Context) error
	HasSubmit(ctx context.Context) (bool, error)
	ClickSubmit(ctx context.Context) error

	// UncheckFollowCompany clears the follow-company affinity control if
	// present. Best-effort.
	UncheckFollowCompany(ctx context.Context) error

	// InputElements enumerates the current form page's input controls.
	InputElements(ctx context.Context) ([]ElementHandle, error)

	IsUploadField(el ElementHandle) bool
	UploadHeading(ctx context.Context, el ElementHandle) (string, error)
	UploadFile(ctx context.Context, el ElementHandle, path string) error

	// UploadedResumes lists resumes already attached to the profile.
	UploadedResumes(ctx context.Context) ([]UploadedDocument, error)
	SelectUploadedResume(ctx context.Context, doc UploadedDocument) error

	// FormSections enumerates the question sections on the current page.
	FormSections(ctx context.Context) ([]ElementHandle, error)

	IsTermsOfService(section ElementHandle) bool
	AcceptTerms(ctx context.Context, section ElementHandle) error

	IsRadio(section ElementHandle) bool
	RadioQuestion(ctx context.Context, section ElementHandle) (SelectQuestion, error)
	SelectRadio(ctx context.Context, section ElementHandle, answer string) error

	IsTextbox(section ElementHandle) bool
	TextboxQuestion(ctx context.Context, section ElementHandle) (TextQuestion, error)
	FillTextbox(ctx context.Context, section ElementHandle, answer string) error

	IsDropdown(section ElementHandle) bool
	DropdownQuestion(ctx context.Context, section ElementHandle) (SelectQuestion, error)
	SelectDropdown(ctx context.Context, section ElementHandle, answer string) error

	// HandleErrors surfaces form validation errors after a page advance.
	HandleErrors(ctx context.Context) error

	// Discard abandons the in-progress form.
	Discard(ctx context.Context) error

	// Save asks the form to persist itself as a draft. Best-effort,
	// called before a failure propagates.
	Save(ctx context.Context) error
}

// UploadIntent classifies what an upload field is asking for.
type UploadIntent string

const (
	UploadIntentResume      UploadIntent = "resume"
	UploadIntentCoverLetter UploadIntent = "cover_letter"
)

// Oracle judges posting suitability and produces answers to form questions.
type Oracle interface {
	// IsJobSuitable reports whether the posting matches the applicant's
	// profile. The result is authoritative.
	IsJobSuitable(ctx context.Context, job *model.JobPosting) (bool, error)

	// AnswerFromOptions answers a choice question with one of the given
	// options.
	AnswerFromOptions(ctx context.Context, question string, options []string) (string, error)

	// AnswerNumeric answers a numeric question.
	AnswerNumeric(ctx context.Context, question string) (int, error)

	// AnswerFreeText answers a free-text question.
	AnswerFreeText(ctx context.Context, question string) (string, error)

	// ClassifyUploadIntent decides whether an upload field's heading asks
	// for a resume or a cover letter.
	ClassifyUploadIntent(ctx context.Context, heading string) (UploadIntent, error)
}

// DocumentGenerator renders tailored application documents.
type DocumentGenerator interface {
	GenerateResume(ctx context.Context, description string) ([]byte, error)
	GenerateCoverLetter(ctx context.Context, description string) ([]byte, error)
}
