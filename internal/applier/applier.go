// Package applier drives a single posting through the application state
// machine: load the posting, read and evaluate the description, then walk the
// multi-step form until the application is submitted, discarded, or failed.
package applier

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/lthibault/jitterbug/v2"

	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/domain/model"
	apperrors "github.com/applypilot/applypilot/internal/errors"
	"github.com/applypilot/applypilot/internal/store"
)

// State names the phases an application attempt moves through. Transitions
// are strictly forward; a failure at any phase is terminal for the attempt.
type State string

const (
	StateDiscovered        State = "discovered"
	StateNavigated         State = "navigated"
	StateDescriptionLoaded State = "description_loaded"
	StateEvaluated         State = "evaluated"
	StateFormOpened        State = "form_opened"
	StateFormTraversing    State = "form_traversing"
)

// Outcome is the terminal disposition of one application attempt.
type Outcome string

const (
	// OutcomeSubmitted means the form was completed and the submit control
	// activated.
	OutcomeSubmitted Outcome = "submitted"
	// OutcomeRejected means the evaluation judged the posting unsuitable
	// before any form was opened.
	OutcomeRejected Outcome = "rejected"
	// OutcomeDiscarded means the form ran out of pages without ever
	// presenting a submit control. Logged, not an error.
	OutcomeDiscarded Outcome = "discarded_no_submit"
	// OutcomeManualCompleted means the operator finished the form by hand
	// and the portal confirmed the submission.
	OutcomeManualCompleted Outcome = "manual_completed"
	// OutcomeManualAbandoned means the manual-completion wait was
	// interrupted before any confirmation.
	OutcomeManualAbandoned Outcome = "manual_abandoned"
)

// Result is what one attempt produced. Record is always populated, even for
// non-submitted outcomes, so callers can inspect what was entered.
type Result struct {
	Outcome Outcome
	Record  *model.ApplicationRecord
}

// Reading-pause tuning. A thousand characters of description earns about a
// second and a half of reading time, clamped and jittered.
const (
	readingPausePerKChar = 1500 * time.Millisecond
	readingPauseMin      = 2 * time.Second
	readingPauseMax      = 8 * time.Second
	readingPauseJitter   = 0.2
)

const (
	rateLimitAttempts   = 3
	rateLimitDefaultOff = 20 * time.Second
	rateLimitMaxBackoff = 2 * time.Minute

	manualPollInterval = 500 * time.Millisecond
)

// Applier applies to one posting at a time. It is not safe for concurrent
// use; the runner owns exactly one.
type Applier struct {
	page   core.ListingProvider
	form   core.ApplicationForm
	oracle core.Oracle
	docs   core.DocumentGenerator
	store  *store.Store

	resumeDir string
	docsDir   string
	manual    bool
	confirm   <-chan struct{}

	logger *slog.Logger
	rng    *rand.Rand
	sleep  func(ctx context.Context, d time.Duration) error
}

// Options holds the dependencies for creating an Applier.
type Options struct {
	Page      core.ListingProvider
	Form      core.ApplicationForm
	Oracle    core.Oracle
	Documents core.DocumentGenerator
	Store     *store.Store

	// ResumeDir holds pre-built per-language resumes (cv_eng.pdf,
	// cv_esp.pdf). Empty disables the pre-built path.
	ResumeDir string

	// Manual switches the applier to open the form and wait for the
	// operator instead of traversing it.
	Manual bool

	// Confirm delivers operator keypresses confirming a manual
	// submission. Only read in manual mode.
	Confirm <-chan struct{}

	Logger *slog.Logger
	Rand   *rand.Rand
	Sleep  func(ctx context.Context, d time.Duration) error
}

// New creates an Applier. Nil optional dependencies get defaults.
func New(opts Options) *Applier {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Applier{
		page:      opts.Page,
		form:      opts.Form,
		oracle:    opts.Oracle,
		docs:      opts.Documents,
		store:     opts.Store,
		resumeDir: opts.ResumeDir,
		docsDir:   filepath.Join(opts.Store.Dir(), "generated_documents"),
		manual:    opts.Manual,
		confirm:   opts.Confirm,
		logger:    opts.Logger,
		rng:       opts.Rand,
		sleep:     opts.Sleep,
	}
}

// Apply runs the full state machine for one posting. A returned error means
// the attempt failed; the form was asked to save itself as a draft first.
func (a *Applier) Apply(ctx context.Context, job *model.JobPosting) (_ Result, err error) {
	state := StateDiscovered
	record := model.NewApplicationRecord(job)

	defer func() {
		if err == nil {
			return
		}
		// Drafts survive the failure even when the parent context is
		// already canceled.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if saveErr := a.form.Save(saveCtx); saveErr != nil {
			a.logger.Warn("saving application draft failed", "company", job.Company, "error", saveErr)
		}
		err = fmt.Errorf("apply to %q at %q (state %s): %w", job.Title, job.Company, state, err)
	}()

	a.logger.Info("applying", "company", job.Company, "title", job.Title, "link", job.Link)

	if err := a.page.GoToPosting(ctx, job); err != nil {
		return Result{}, apperrors.Wrap(err, apperrors.ErrCodeNavigation, "load posting page")
	}
	state = StateNavigated

	description, err := a.page.Description(ctx, job)
	if err != nil {
		return Result{}, apperrors.Wrap(err, apperrors.ErrCodeExtraction, "read job description")
	}
	job.Description = description
	if err := a.readingPause(ctx, len(description)); err != nil {
		return Result{}, err
	}

	recruiter, err := a.page.RecruiterLink(ctx)
	if err != nil {
		return Result{}, apperrors.Wrap(err, apperrors.ErrCodeExtraction, "read recruiter link")
	}
	job.RecruiterLink = recruiter
	state = StateDescriptionLoaded

	suitable, err := retryRateLimited(ctx, a, "evaluate posting", func() (bool, error) {
		return a.oracle.IsJobSuitable(ctx, job)
	})
	if err != nil {
		return Result{}, err
	}
	state = StateEvaluated
	if !suitable {
		a.logger.Info("posting judged unsuitable", "company", job.Company, "title", job.Title)
		return Result{Outcome: OutcomeRejected, Record: record}, nil
	}

	if a.manual {
		return a.completeManually(ctx, job, record)
	}

	if err := a.page.OpenApplication(ctx, job); err != nil {
		return Result{}, apperrors.Wrap(err, apperrors.ErrCodeNavigation, "open application form")
	}
	state = StateFormOpened

	state = StateFormTraversing
	return a.traverseForm(ctx, job, record)
}

// traverseForm fills page after page until the form runs out of next
// controls, then submits if a submit control exists.
func (a *Applier) traverseForm(ctx context.Context, job *model.JobPosting, record *model.ApplicationRecord) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, apperrors.Wrap(err, apperrors.ErrCodeCanceled, "form traversal interrupted")
		}

		if err := a.fillCurrentPage(ctx, job, record); err != nil {
			return Result{}, err
		}

		next, err := a.form.HasNextPage(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("probe next control: %w", err)
		}
		if !next {
			break
		}
		if err := a.form.ClickNext(ctx); err != nil {
			return Result{}, fmt.Errorf("advance form page: %w", err)
		}
		if err := a.form.HandleErrors(ctx); err != nil {
			return Result{}, fmt.Errorf("form validation after advance: %w", err)
		}
	}

	submit, err := a.form.HasSubmit(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("probe submit control: %w", err)
	}
	if !submit {
		a.logger.Warn("form has no submit control, discarding",
			"company", job.Company, "title", job.Title)
		if err := a.form.Discard(ctx); err != nil {
			a.logger.Warn("discarding form failed", "error", err)
		}
		return Result{Outcome: OutcomeDiscarded, Record: record}, nil
	}

	if err := a.form.UncheckFollowCompany(ctx); err != nil {
		a.logger.Warn("unchecking follow-company failed", "error", err)
	}
	if err := a.form.ClickSubmit(ctx); err != nil {
		return Result{}, fmt.Errorf("submit application: %w", err)
	}

	if err := a.store.SaveApplication(record); err != nil {
		a.logger.Warn("persisting application record failed", "error", err)
	}
	a.logger.Info("application submitted", "company", job.Company, "title", job.Title)
	return Result{Outcome: OutcomeSubmitted, Record: record}, nil
}

// fillCurrentPage processes every input on the current form page: uploads
// first-class, everything else as question sections.
func (a *Applier) fillCurrentPage(ctx context.Context, job *model.JobPosting, record *model.ApplicationRecord) error {
	elements, err := a.form.InputElements(ctx)
	if err != nil {
		return fmt.Errorf("enumerate form inputs: %w", err)
	}
	sectionsFilled := false
	for _, el := range elements {
		if a.form.IsUploadField(el) {
			if err := a.handleUploadField(ctx, el, job, record); err != nil {
				return err
			}
			continue
		}
		// Question sections are enumerated for the whole page, so one
		// pass covers every non-upload input.
		if sectionsFilled {
			continue
		}
		if err := a.fillSections(ctx, job, record); err != nil {
			return err
		}
		sectionsFilled = true
	}
	return nil
}

// completeManually opens the form for the operator and polls until the portal
// confirms a submission or the operator confirms by keypress. Interruption is
// a non-success terminal outcome, not an error.
func (a *Applier) completeManually(ctx context.Context, job *model.JobPosting, record *model.ApplicationRecord) (Result, error) {
	if err := a.page.OpenApplication(ctx, job); err != nil {
		return Result{}, apperrors.Wrap(err, apperrors.ErrCodeNavigation, "open application form")
	}

	a.logger.Info("waiting for manual completion",
		"company", job.Company, "title", job.Title, "link", job.Link)

	ticker := jitterbug.New(manualPollInterval, &jitterbug.Norm{Stdev: manualPollInterval / 10})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("manual completion interrupted", "company", job.Company)
			return Result{Outcome: OutcomeManualAbandoned, Record: record}, nil
		case <-a.confirm:
			return a.finishManual(ctx, job, record)
		case <-ticker.C:
			confirmed, err := a.page.SubmissionConfirmed(ctx)
			if err != nil {
				a.logger.Warn("submission check failed", "error", err)
				continue
			}
			if confirmed {
				return a.finishManual(ctx, job, record)
			}
		}
	}
}

// finishManual generates the tailored resume that accompanies a manual
// submission's stored record.
func (a *Applier) finishManual(ctx context.Context, job *model.JobPosting, record *model.ApplicationRecord) (Result, error) {
	path, err := a.generateTailoredResume(ctx, job)
	if err != nil {
		a.logger.Warn("tailored resume generation failed", "company", job.Company, "error", err)
	} else {
		job.ResumePath = path
		record.ResumePath = path
	}
	a.logger.Info("manual application confirmed", "company", job.Company, "title", job.Title)
	return Result{Outcome: OutcomeManualCompleted, Record: record}, nil
}

// readingPause simulates reading the description before acting on it.
func (a *Applier) readingPause(ctx context.Context, chars int) error {
	base := time.Duration(chars) * readingPausePerKChar / 1000
	if base < readingPauseMin {
		base = readingPauseMin
	}
	if base > readingPauseMax {
		base = readingPauseMax
	}
	jittered := a.uniform(
		time.Duration(float64(base)*(1-readingPauseJitter)),
		time.Duration(float64(base)*(1+readingPauseJitter)),
	)
	return a.sleep(ctx, jittered)
}

func (a *Applier) uniform(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(a.rng.Int64N(int64(max-min)))
}

// retryRateLimited runs fn, retrying rate-limited failures with the
// collaborator's backoff hint (or a default) up to a fixed attempt cap. Any
// other failure returns immediately.
func retryRateLimited[T any](ctx context.Context, a *Applier, op string, fn func() (T, error)) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if !apperrors.IsRateLimited(err) || attempt >= rateLimitAttempts {
			return zero, fmt.Errorf("%s: %w", op, err)
		}

		backoff := apperrors.BackoffHint(err)
		if backoff <= 0 {
			backoff = rateLimitDefaultOff
		}
		if backoff > rateLimitMaxBackoff {
			backoff = rateLimitMaxBackoff
		}
		a.logger.Warn("rate limited, backing off",
			"operation", op, "attempt", attempt, "backoff", backoff)
		if sleepErr := a.sleep(ctx, backoff); sleepErr != nil {
			return zero, sleepErr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
