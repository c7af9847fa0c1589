package models

import (
	"time"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Campaign represents a phishing-awareness exercise with its lifecycle
// status and scheduling/content configuration. Scheduling fields are
// stored as configured; no scheduler acts on them in this service.
type Campaign struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	// draft, active, paused, completed
	Status      string `gorm:"default:'draft';index" json:"status"`
	TargetCount int    `gorm:"default:0" json:"targetCount"`

	// Scheduling
	Frequency          string   `gorm:"default:'once'" json:"frequency"`
	StartDate          string   `json:"startDate"`
	StartTime          string   `json:"startTime"`
	Timezone           string   `json:"timezone"`
	SendingMode        string   `gorm:"default:'all'" json:"sendingMode"` // all, spread
	SpreadDays         int      `gorm:"default:3" json:"spreadDays"`
	SpreadUnit         string   `gorm:"default:'days'" json:"spreadUnit"`
	BusinessHoursStart string   `json:"businessHoursStart"`
	BusinessHoursEnd   string   `json:"businessHoursEnd"`
	BusinessDays       []string `gorm:"type:jsonb;serializer:json" json:"businessDays"`
	TrackActivityDays  int      `gorm:"default:7" json:"trackActivityDays"`

	// Content selection
	Category     string `json:"category"`
	TemplateMode string `gorm:"default:'random'" json:"templateMode"` // random, specific
	TemplateID   string `json:"templateId"`

	// Phishing configuration
	PhishDomain        string `json:"phishDomain"`
	LandingPageID      string `json:"landingPageId"`
	AddClickersToGroup string `json:"addClickersToGroup"`
	SendReportEmail    bool   `gorm:"default:true" json:"sendReportEmail"`

	// Scheduling metadata, recorded but never computed here
	NextRunAt *time.Time `json:"nextRunAt"`
	LastRunAt *time.Time `json:"lastRunAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CampaignPatch carries the fields that may change while a campaign is
// still a draft. Nil means "leave unchanged".
type CampaignPatch struct {
	Name        *string
	Description *string
	TargetCount *int
}

// Empty reports whether the patch changes nothing.
func (p CampaignPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.TargetCount == nil
}
