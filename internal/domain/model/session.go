//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// SessionState is the pacing governor's persisted view of recent activity.
// There is exactly one per process; it is mutated only by the governor and
// written opportunistically, so counts may lag a few requests behind.
type SessionState struct {
	SchemaVersion int `json:"schema_version"`

	// LastSession is the start time of the most recent browsing session.
	LastSession time.Time `json:"last_session"`

	// DailyRequests counts requests per calendar day, keyed YYYY-MM-DD.
	DailyRequests map[string]int `json:"daily_requests"`

	// DomainVisits counts requests per URL host.
	DomainVisits map[string]int `json:"sites_visited"`
}

// EmptySessionState returns a zeroed state with maps allocated, used both on
// first run and when the persisted file is unreadable.
func EmptySessionState() SessionState {
	return SessionState{
		SchemaVersion: OutcomeSchemaVersion,
		DailyRequests: make(map[string]int),
		DomainVisits:  make(map[string]int),
	}
}

// ApplicationStatus is the control-loop lifecycle state, mutated only by
// operator input.
type ApplicationStatus string

const (
	StatusRunning ApplicationStatus = "running"
	StatusPaused  ApplicationStatus = "paused"
	StatusStopped ApplicationStatus = "stopped"
)

// String returns the string representation of the application status.
func (s ApplicationStatus) String() string {
	return string(s)
}
