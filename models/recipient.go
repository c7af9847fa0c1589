package models

import (
	"time"
)

// Recipient statuses
const (
	RecipientStatusPending   = "pending"
	RecipientStatusSent      = "sent"
	RecipientStatusClicked   = "clicked"
	RecipientStatusSubmitted = "submitted"
	RecipientStatusFailed    = "failed"
)

// Recipient is a person enrolled in a campaign. The token is the only
// identity that ever appears in tracking links, so interactions can be
// correlated to a person without exposing their email address.
type Recipient struct {
	ID         string `gorm:"primaryKey" json:"id"`
	CampaignID string `gorm:"not null;index;uniqueIndex:idx_recipients_campaign_email" json:"campaignId"`
	Email      string `gorm:"not null;uniqueIndex:idx_recipients_campaign_email" json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`

	// 32-character random alphanumeric, unique process-wide
	Token string `gorm:"not null;uniqueIndex" json:"token"`

	// pending, sent, clicked, submitted, failed
	Status string `gorm:"default:'pending'" json:"status"`

	SentAt      *time.Time `json:"sentAt,omitempty"`
	ClickedAt   *time.Time `json:"clickedAt,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidRecipientStatus reports whether s is one of the recipient statuses.
func ValidRecipientStatus(s string) bool {
	switch s {
	case RecipientStatusPending, RecipientStatusSent, RecipientStatusClicked,
		RecipientStatusSubmitted, RecipientStatusFailed:
		return true
	}
	return false
}
