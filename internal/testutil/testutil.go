// Package testutil provides testing utilities and helpers for the applypilot
// engine: posting builders, scriptable fake collaborators, and store setup.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot/config"
	"github.com/applypilot/applypilot/internal/domain/model"
	"github.com/applypilot/applypilot/internal/store"
)

// NewLogger returns a logger that discards everything.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewStore creates a Store rooted in a fresh temporary directory.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := config.StorageConfig{
		OutputDir:        t.TempDir(),
		AnswersFile:      "answers.json",
		LockAttempts:     1,
		LockPollInterval: time.Millisecond,
	}
	s, err := store.New(store.Options{Config: cfg, Logger: NewLogger()})
	require.NoError(t, err)
	return s
}

// JobPostingBuilder provides a fluent interface for building JobPosting
// objects for testing.
type JobPostingBuilder struct {
	job *model.JobPosting
}

// NewJobPosting creates a new JobPostingBuilder with sensible defaults.
func NewJobPosting() *JobPostingBuilder {
	return &JobPostingBuilder{
		job: &model.JobPosting{
			ID:       "posting-1",
			Title:    "Backend Engineer",
			Company:  "Initech",
			Location: "Remote",
			Link:     "https://jobs.example.com/postings/1",
			WorkType: model.WorkTypeRemote,
			Description: "We are hiring. The role requires experience with Go. " +
				"You will have strong skills and meet the requirements.",
			EasyApply: true,
		},
	}
}

// WithID sets the posting ID.
func (b *JobPostingBuilder) WithID(id string) *JobPostingBuilder {
	b.job.ID = id
	return b
}

// WithTitle sets the posting title.
func (b *JobPostingBuilder) WithTitle(title string) *JobPostingBuilder {
	b.job.Title = title
	return b
}

// WithCompany sets the company name.
func (b *JobPostingBuilder) WithCompany(company string) *JobPostingBuilder {
	b.job.Company = company
	return b
}

// WithLocation sets the posting location.
func (b *JobPostingBuilder) WithLocation(location string) *JobPostingBuilder {
	b.job.Location = location
	return b
}

// WithLink sets the posting link.
func (b *JobPostingBuilder) WithLink(link string) *JobPostingBuilder {
	b.job.Link = link
	return b
}

// WithDescription sets the description text.
func (b *JobPostingBuilder) WithDescription(description string) *JobPostingBuilder {
	b.job.Description = description
	return b
}

// WithApplicantCount sets the parsed applicant count.
func (b *JobPostingBuilder) WithApplicantCount(n int) *JobPostingBuilder {
	b.job.ApplicantCount = &n
	return b
}

// Build returns the built posting.
func (b *JobPostingBuilder) Build() *model.JobPosting {
	return b.job
}
