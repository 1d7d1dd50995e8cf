package team

import "time"

// Profile captures the subset of team member data exposed for task
// assignment and actor attribution.
type Profile struct {
	ID        string
	FullName  string
	Email     string
	Active    bool
	CreatedAt time.Time
}
