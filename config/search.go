package config

import "time"

// SearchConfig controls which postings are searched and which are filtered
// out before an application attempt starts.
type SearchConfig struct {
	// Positions are the job titles to search for.
	Positions []string `env:"POSITIONS" envSeparator:","`

	// Locations are the locations to search in.
	Locations []string `env:"LOCATIONS" envSeparator:","`

	// CompanyBlacklist lists companies that are never applied to.
	// Entries match as whole words, case-insensitively.
	CompanyBlacklist []string `env:"COMPANY_BLACKLIST" envSeparator:","`

	// TitleBlacklist lists title terms that exclude a posting.
	TitleBlacklist []string `env:"TITLE_BLACKLIST" envSeparator:","`

	// LocationBlacklist lists location terms that exclude a posting.
	LocationBlacklist []string `env:"LOCATION_BLACKLIST" envSeparator:","`

	// MinApplicants is the inclusive lower bound on a posting's applicant
	// count. Postings without an exposed count are not gated.
	MinApplicants int `env:"MIN_APPLICANTS" envDefault:"1"`

	// MaxApplicants is the inclusive upper bound on a posting's applicant
	// count.
	MaxApplicants int `env:"MAX_APPLICANTS" envDefault:"50"`

	// ApplyOncePerCompany skips postings at companies with a recorded
	// successful application.
	ApplyOncePerCompany bool `env:"APPLY_ONCE_PER_COMPANY" envDefault:"false"`

	// PageWaitFloor is the minimum wait between listing pages.
	PageWaitFloor time.Duration `env:"PAGE_WAIT_FLOOR" envDefault:"60s"`

	// AppDelayMin and AppDelayMax bound the randomized minimum delay
	// between successive applications. The effective delay is drawn once
	// per run.
	AppDelayMin time.Duration `env:"APP_DELAY_MIN" envDefault:"45s"`
	AppDelayMax time.Duration `env:"APP_DELAY_MAX" envDefault:"75s"`
}

// Sanitize applies guardrails to search configuration values.
func (s *SearchConfig) Sanitize() {
	if s.MinApplicants < 0 {
		s.MinApplicants = 0
	}
	if s.MaxApplicants < s.MinApplicants {
		s.MaxApplicants = s.MinApplicants
	}
	if s.PageWaitFloor < 0 {
		s.PageWaitFloor = 0
	}
	if s.AppDelayMin <= 0 {
		s.AppDelayMin = 45 * time.Second
	}
	if s.AppDelayMax < s.AppDelayMin {
		s.AppDelayMax = s.AppDelayMin
	}
}
