package content

import "time"

// Platform is the social channel a draft targets.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformLinkedIn, PlatformInstagram:
		return true
	default:
		return false
	}
}

// Status tracks a draft through its publishing lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// Draft mirrors the content_drafts table.
type Draft struct {
	ID           string
	Title        string
	Body         string
	Platform     Platform
	Status       Status
	ScheduledFor *time.Time
	PublishedAt  *time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
