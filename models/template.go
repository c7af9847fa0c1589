package models

import (
	"time"
)

// EmailTemplate is the HTML body sent to recipients, with placeholder
// tokens substituted at send time. At most one template carries the
// default flag at any moment.
type EmailTemplate struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TemplatePatch carries optional template updates. Nil means "leave
// unchanged".
type TemplatePatch struct {
	Name      *string
	Subject   *string
	Body      *string
	IsDefault *bool
}

// Empty reports whether the patch changes nothing.
func (p TemplatePatch) Empty() bool {
	return p.Name == nil && p.Subject == nil && p.Body == nil && p.IsDefault == nil
}
