package models

import (
	"time"
)

// LandingPage is the fake page a tracked link resolves to. Shares the
// single-default invariant with email templates.
type LandingPage struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	HTML      string `gorm:"column:html" json:"html"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LandingPagePatch carries optional landing page updates. Nil means
// "leave unchanged".
type LandingPagePatch struct {
	Name      *string
	HTML      *string
	IsDefault *bool
}

// Empty reports whether the patch changes nothing.
func (p LandingPagePatch) Empty() bool {
	return p.Name == nil && p.HTML == nil && p.IsDefault == nil
}
