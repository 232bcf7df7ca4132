// Package runner owns the control loop: it walks shuffled search pairs page
// by page, filters postings, paces every navigation, and hands surviving
// postings to the applier. Errors are contained at the page and search level
// so one bad posting never ends a run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/applypilot/applypilot/config"
	"github.com/applypilot/applypilot/internal/applier"
	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/domain/model"
	"github.com/applypilot/applypilot/internal/pacing"
	"github.com/applypilot/applypilot/internal/store"
	"github.com/applypilot/applypilot/internal/util"
)

// Termination sentinels. Both end a run cleanly.
var (
	errStopRequested = errors.New("stop requested by operator")
	errSessionLimit  = errors.New("session limits reached")
)

// extendedPauseEvery is the page cadence for long browsing breaks.
const extendedPauseEvery = 5

// operatorPollStep is the slice size for interruptible waits.
const operatorPollStep = 500 * time.Millisecond

// JobApplier runs the application state machine for one posting. The applier
// package's Applier satisfies it.
type JobApplier interface {
	Apply(ctx context.Context, job *model.JobPosting) (applier.Result, error)
}

// Stats summarizes one run.
type Stats struct {
	Started    time.Time
	Finished   time.Time
	Pages      int
	Discovered int
	Skipped    int
	Applied    int
	Rejected   int
	Discarded  int
	Failed     int
	Collected  int
}

// Duration returns the run's wall-clock duration.
func (s Stats) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// searchPair is one (position, location) combination.
type searchPair struct {
	position string
	location string
}

// Runner is the top-level control loop. Single-threaded; one Runner per
// process.
type Runner struct {
	cfg      config.AppConfig
	listing  core.ListingProvider
	applier  JobApplier
	filter   *Filter
	store    *store.Store
	governor *pacing.Governor
	operator *Operator

	logger *slog.Logger
	rng    *rand.Rand
	clock  pacing.TimeProvider
	sleep  func(ctx context.Context, d time.Duration) error

	// appDelay is the minimum gap between successive submissions, drawn
	// once per run.
	appDelay time.Duration

	stats Stats
}

// Options holds the dependencies for creating a Runner.
type Options struct {
	Config   config.AppConfig
	Listing  core.ListingProvider
	Applier  JobApplier
	Store    *store.Store
	Governor *pacing.Governor
	Operator *Operator

	Logger *slog.Logger
	Rand   *rand.Rand
	Clock  pacing.TimeProvider
	Sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a Runner. Nil optional dependencies get defaults.
func New(opts Options) (*Runner, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Clock == nil {
		opts.Clock = pacing.RealTimeProvider{}
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Operator == nil {
		opts.Operator = NewOperator(opts.Logger)
	}

	filter, err := NewFilter(opts.Config.Search, opts.Store)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:      opts.Config,
		listing:  opts.Listing,
		applier:  opts.Applier,
		filter:   filter,
		store:    opts.Store,
		governor: opts.Governor,
		operator: opts.Operator,
		logger:   opts.Logger,
		rng:      opts.Rand,
		clock:    opts.Clock,
		sleep:    opts.Sleep,
	}, nil
}

// Run executes one full session over every search pair and returns the run
// statistics. Operator stop, session limits, and context cancellation all
// terminate cleanly.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	r.stats = Stats{Started: r.clock.Now()}
	r.governor.StartSession()
	r.appDelay = r.uniform(r.cfg.Search.AppDelayMin, r.cfg.Search.AppDelayMax)
	r.logger.Info("run starting",
		"mode", r.cfg.Mode.String(),
		"positions", len(r.cfg.Search.Positions),
		"locations", len(r.cfg.Search.Locations),
		"application_delay", r.appDelay.Round(time.Second))

	pairs := r.shuffledPairs()
	for _, pair := range pairs {
		err := r.searchPair(ctx, pair)
		switch {
		case err == nil:
			continue
		case errors.Is(err, errStopRequested), errors.Is(err, errSessionLimit):
			r.logger.Info("ending run early", "reason", err.Error())
			return r.finish(), nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			r.logger.Info("run interrupted")
			return r.finish(), nil
		default:
			// Contain the failure to this search pair.
			r.logger.Error("search failed, moving to next search",
				"position", pair.position, "location", pair.location, "error", err)
		}
	}
	return r.finish(), nil
}

func (r *Runner) finish() Stats {
	r.stats.Finished = r.clock.Now()
	if err := r.governor.Persist(); err != nil {
		r.logger.Warn("persist session state failed", "error", err)
	}
	r.logger.Info("run finished",
		"duration", util.FormatExecutionTime(r.stats.Duration()),
		"pages", r.stats.Pages,
		"discovered", r.stats.Discovered,
		"skipped", r.stats.Skipped,
		"applied", r.stats.Applied,
		"rejected", r.stats.Rejected,
		"discarded", r.stats.Discarded,
		"failed", r.stats.Failed,
		"collected", r.stats.Collected,
		"requests_today", r.governor.RequestsToday())
	return r.stats
}

// shuffledPairs builds the position-by-location cross product in random
// order so successive runs do not walk searches in a recognizable pattern.
func (r *Runner) shuffledPairs() []searchPair {
	var pairs []searchPair
	for _, position := range r.cfg.Search.Positions {
		for _, location := range r.cfg.Search.Locations {
			pairs = append(pairs, searchPair{position: position, location: location})
		}
	}
	r.rng.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})
	return pairs
}

// searchPair paginates one search until a page comes back empty. Page-level
// failures are logged and skipped.
func (r *Runner) searchPair(ctx context.Context, pair searchPair) error {
	r.logger.Info("searching", "position", pair.position, "location", pair.location)

	for page := 0; ; page++ {
		if err := r.checkOperator(ctx); err != nil {
			return err
		}
		if r.governor.ShouldEndSession() {
			return errSessionLimit
		}

		if err := r.listing.NextPage(ctx, pair.position, pair.location, page); err != nil {
			return fmt.Errorf("load results page %d: %w", page, err)
		}
		r.governor.RecordRequest(r.listing.CurrentURL())
		r.stats.Pages++

		handles, err := r.listing.Postings(ctx, true)
		if err != nil {
			r.logger.Error("reading results page failed, skipping page", "page", page, "error", err)
			continue
		}
		if len(handles) == 0 {
			r.logger.Info("no more postings for search",
				"position", pair.position, "location", pair.location, "pages", page)
			return nil
		}

		if err := r.processPage(ctx, handles); err != nil {
			return err
		}

		if err := r.pageBreak(ctx, page); err != nil {
			return err
		}
	}
}

// pageBreak waits between result pages: a long browsing break on the
// extended cadence, otherwise at least the configured floor.
func (r *Runner) pageBreak(ctx context.Context, page int) error {
	if page > 0 && (page+1)%extendedPauseEvery == 0 {
		pause := r.uniform(1*time.Minute, 5*time.Minute)
		r.logger.Info("taking an extended break", "pause", pause.Round(time.Second))
		return r.sleep(ctx, pause)
	}

	wait := r.governor.NextDelay()
	if wait < r.cfg.Search.PageWaitFloor {
		wait = r.cfg.Search.PageWaitFloor
	}
	r.logger.Debug("waiting before next page", "wait", wait.Round(time.Second))
	return r.sleep(ctx, wait)
}

// processPage resolves, filters, and dispatches every posting on the current
// results page. Posting-level failures are recorded and contained.
func (r *Runner) processPage(ctx context.Context, handles []core.PostingHandle) error {
	for _, handle := range handles {
		if err := r.checkOperator(ctx); err != nil {
			return err
		}

		job, err := r.listing.Posting(ctx, handle)
		if err != nil {
			r.logger.Warn("resolving posting tile failed", "tile", handle.Label(), "error", err)
			continue
		}
		if !job.Identifiable() {
			r.logger.Debug("skipping ghost tile", "tile", handle.Label())
			continue
		}
		r.stats.Discovered++

		if insights, err := r.listing.Insights(ctx, handle); err == nil {
			job.ApplicantCount = ParseApplicantCount(insights)
		}

		if reason := r.filter.Check(job); reason != SkipNone {
			r.recordSkip(job, reason)
			continue
		}

		if r.cfg.Mode == config.ModeCollect {
			r.collect(job)
			continue
		}

		if err := r.applyTo(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// recordSkip counts a filtered posting and stores the blacklist and
// applicant-bound skips. Seen-link skips are only logged, they would
// otherwise accumulate on every rerun.
func (r *Runner) recordSkip(job *model.JobPosting, reason SkipReason) {
	r.stats.Skipped++
	r.logger.Debug("skipping posting",
		"company", job.Company, "title", job.Title, "reason", string(reason))

	switch reason {
	case SkipSeenLink, SkipAlreadyApplied, SkipCompanyApplied:
		return
	case SkipNone, SkipBlacklistedTitle, SkipBlacklistedPlace, SkipBlacklistedCo,
		SkipTooFewApplicants, SkipTooManyApplicant:
	}
	if err := r.store.StoreOutcome(job, model.OutcomeSkipped, string(reason)); err != nil {
		r.logger.Warn("storing skip outcome failed", "error", err)
	}
}

// collect records the posting's data without applying.
func (r *Runner) collect(job *model.JobPosting) {
	r.stats.Collected++
	if err := r.store.StoreOutcome(job, model.OutcomeData, "collected"); err != nil {
		r.logger.Warn("storing collected posting failed", "error", err)
	}
}

// applyTo paces and runs one application attempt, then records its outcome.
// Attempt failures are stored and contained; only cancellation propagates.
func (r *Runner) applyTo(ctx context.Context, job *model.JobPosting) error {
	r.governor.RecordRequest(job.Link)
	if err := r.sleep(ctx, r.governor.NextDelay()); err != nil {
		return err
	}

	started := r.clock.Now()
	result, err := r.applier.Apply(ctx, job)
	elapsed := r.clock.Now().Sub(started)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.stats.Failed++
		r.logger.Error("application failed",
			"company", job.Company, "title", job.Title, "error", err)
		if storeErr := r.store.StoreOutcome(job, model.OutcomeFailed, err.Error()); storeErr != nil {
			r.logger.Warn("storing failed outcome failed", "error", storeErr)
		}
		return nil
	}

	switch result.Outcome {
	case applier.OutcomeSubmitted:
		r.stats.Applied++
		r.logger.Info("application completed",
			"company", job.Company, "title", job.Title,
			"took", util.FormatExecutionTime(elapsed))
		r.recordOutcome(job, model.OutcomeSuccess, "applied")
		return r.interApplicationDelay(ctx)
	case applier.OutcomeManualCompleted:
		r.stats.Applied++
		r.logger.Info("application completed",
			"company", job.Company, "title", job.Title,
			"took", util.FormatExecutionTime(elapsed))
		r.recordOutcome(job, model.OutcomeManualApply, "manually completed")
		return r.interApplicationDelay(ctx)
	case applier.OutcomeRejected:
		r.stats.Rejected++
		r.recordOutcome(job, model.OutcomeSkipped, "not suitable")
	case applier.OutcomeDiscarded:
		r.stats.Discarded++
		r.recordOutcome(job, model.OutcomeSkipped, "form had no submit control")
	case applier.OutcomeManualAbandoned:
		r.stats.Discarded++
		r.recordOutcome(job, model.OutcomeSkipped, "manual completion abandoned")
	}
	return nil
}

func (r *Runner) recordOutcome(job *model.JobPosting, category model.OutcomeCategory, reason string) {
	if err := r.store.StoreOutcome(job, category, reason); err != nil {
		r.logger.Warn("storing outcome failed", "category", category.String(), "error", err)
	}
}

// interApplicationDelay waits the per-run delay between submissions. The
// operator can cut it short with the skip command.
func (r *Runner) interApplicationDelay(ctx context.Context) error {
	r.logger.Info("waiting before next application", "delay", r.appDelay.Round(time.Second))
	remaining := r.appDelay
	for remaining > 0 {
		switch cmd := r.operator.Poll(0); cmd {
		case CommandSkip:
			r.logger.Info("delay skipped by operator")
			return nil
		case CommandStop:
			return errStopRequested
		case CommandPause:
			if err := r.pauseLoop(ctx); err != nil {
				return err
			}
		case CommandResume, CommandConfirm, "":
		}

		step := operatorPollStep
		if remaining < step {
			step = remaining
		}
		if err := r.sleep(ctx, step); err != nil {
			return err
		}
		remaining -= step
	}
	return nil
}

// checkOperator drains one pending operator command between units of work.
func (r *Runner) checkOperator(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch cmd := r.operator.Poll(0); cmd {
	case CommandStop:
		return errStopRequested
	case CommandPause:
		return r.pauseLoop(ctx)
	case CommandResume, CommandSkip, CommandConfirm, "":
		return nil
	}
	return nil
}

// pauseLoop blocks until the operator resumes or stops the run.
func (r *Runner) pauseLoop(ctx context.Context) error {
	r.logger.Info("run paused, waiting for resume")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch cmd := r.operator.Poll(operatorPollStep); cmd {
		case CommandResume:
			r.logger.Info("run resumed")
			return nil
		case CommandStop:
			return errStopRequested
		case CommandPause, CommandSkip, CommandConfirm, "":
		}
	}
}

func (r *Runner) uniform(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(r.rng.Int64N(int64(max-min)))
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
