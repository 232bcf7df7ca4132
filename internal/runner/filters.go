package runner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/applypilot/applypilot/config"
	"github.com/applypilot/applypilot/internal/domain/model"
)

// SkipReason explains why a posting was filtered out before any application
// attempt. The zero value means the posting passed every filter.
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipBlacklistedTitle SkipReason = "title matches blacklist"
	SkipBlacklistedPlace SkipReason = "location matches blacklist"
	SkipBlacklistedCo    SkipReason = "company matches blacklist"
	SkipSeenLink         SkipReason = "link already processed"
	SkipTooFewApplicants SkipReason = "applicant count below minimum"
	SkipTooManyApplicant SkipReason = "applicant count above maximum"
	SkipAlreadyApplied   SkipReason = "already applied to this posting"
	SkipCompanyApplied   SkipReason = "already applied at this company"
)

// Filter gates postings against blacklists, applicant-count bounds, and the
// store's seen indexes. Blacklist terms match as whole words anywhere in the
// field, case-insensitively, so "Senior" excludes "Senior Backend Engineer"
// but not "Seniority Inc".
type Filter struct {
	title    *regexp2.Regexp
	location *regexp2.Regexp
	company  *regexp2.Regexp

	minApplicants int
	maxApplicants int
	oncePerCo     bool

	seen SeenIndex
}

// SeenIndex answers whether a posting or company was already handled. The
// store satisfies it.
type SeenIndex interface {
	AlreadyApplied(link string) bool
	PreviouslyFailed(link string) bool
	AppliedToCompany(company string) bool
}

// NewFilter compiles the blacklists from search configuration.
func NewFilter(cfg config.SearchConfig, seen SeenIndex) (*Filter, error) {
	title, err := compileBlacklist(cfg.TitleBlacklist)
	if err != nil {
		return nil, fmt.Errorf("compile title blacklist: %w", err)
	}
	location, err := compileBlacklist(cfg.LocationBlacklist)
	if err != nil {
		return nil, fmt.Errorf("compile location blacklist: %w", err)
	}
	company, err := compileBlacklist(cfg.CompanyBlacklist)
	if err != nil {
		return nil, fmt.Errorf("compile company blacklist: %w", err)
	}

	return &Filter{
		title:         title,
		location:      location,
		company:       company,
		minApplicants: cfg.MinApplicants,
		maxApplicants: cfg.MaxApplicants,
		oncePerCo:     cfg.ApplyOncePerCompany,
		seen:          seen,
	}, nil
}

// compileBlacklist builds a single pattern requiring every posting field to
// avoid all terms. Each term becomes a lookahead so multi-word terms match as
// phrases and single words match on word boundaries.
func compileBlacklist(terms []string) (*regexp2.Regexp, error) {
	var clauses []string
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf(`(?=.*\b%s\b)`, regexp.QuoteMeta(strings.ToLower(term))))
	}
	if len(clauses) == 0 {
		return nil, nil
	}
	pattern := fmt.Sprintf(`(?i)^(?:%s)`, strings.Join(clauses, "|"))
	return regexp2.Compile(pattern, regexp2.None)
}

func blacklisted(re *regexp2.Regexp, text string) bool {
	if re == nil {
		return false
	}
	matched, err := re.MatchString(strings.ToLower(text))
	return err == nil && matched
}

// Check runs the filter chain in order: blacklists and seen links first,
// then applicant bounds, then already-applied checks, then the per-company
// gate. The first failing gate's reason is returned.
func (f *Filter) Check(job *model.JobPosting) SkipReason {
	switch {
	case blacklisted(f.title, job.Title):
		return SkipBlacklistedTitle
	case blacklisted(f.location, job.Location):
		return SkipBlacklistedPlace
	case blacklisted(f.company, job.Company):
		return SkipBlacklistedCo
	case f.seen.PreviouslyFailed(job.Link):
		return SkipSeenLink
	}

	if job.ApplicantCount != nil {
		switch n := *job.ApplicantCount; {
		case n < f.minApplicants:
			return SkipTooFewApplicants
		case n > f.maxApplicants:
			return SkipTooManyApplicant
		}
	}

	if f.seen.AlreadyApplied(job.Link) {
		return SkipAlreadyApplied
	}
	if f.oncePerCo && f.seen.AppliedToCompany(job.Company) {
		return SkipCompanyApplied
	}
	return SkipNone
}

var digitsOnly = regexp.MustCompile(`\D`)

// ParseApplicantCount extracts an applicant count from listing insight texts.
// Texts mentioning applicants have everything but digits stripped; phrasing
// like "Over 100 applicants" counts one past the stated number. Returns nil
// when no insight exposes a count.
func ParseApplicantCount(insights []string) *int {
	for _, text := range insights {
		lower := strings.ToLower(text)
		if !strings.Contains(lower, "applicant") {
			continue
		}
		digits := digitsOnly.ReplaceAllString(lower, "")
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if strings.Contains(lower, "over") {
			n++
		}
		return &n
	}
	return nil
}
