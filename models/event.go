package models

import (
	"time"
)

// Event types
const (
	EventTypeClicked   = "clicked"
	EventTypeSubmitted = "submitted"
)

// CampaignEvent is an immutable record of a tracked interaction. Events
// are append-only: they are never updated and only disappear when their
// campaign is deleted. The recipient token is deliberately not a foreign
// key; unknown tokens are still recorded so nothing observed on the
// tracking surface is ever dropped.
type CampaignEvent struct {
	ID         string `gorm:"primaryKey" json:"id"`
	CampaignID string `gorm:"not null;index" json:"campaignId"`

	// clicked, submitted
	Type string `gorm:"not null" json:"type"`

	RecipientToken string `gorm:"not null;index" json:"recipientToken"`
	IPAddress      string `json:"ipAddress,omitempty"`
	UserAgent      string `json:"userAgent,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the relational table name in line with the persisted
// layout used by the admin frontend's reporting queries.
func (CampaignEvent) TableName() string { return "events" }

// ValidEventType reports whether t is a trackable event type.
func ValidEventType(t string) bool {
	return t == EventTypeClicked || t == EventTypeSubmitted
}
