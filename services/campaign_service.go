package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"phishguard/models"
	"phishguard/store"
	"phishguard/utils"
)

// CampaignService owns the campaign lifecycle. Status moves along a
// restricted graph:
//
//	draft -> active -> paused -> active
//	active|paused -> completed
//
// completed is terminal and draft is only reachable at creation. A
// transition attempted from any other state answers exactly like an
// unknown id.
type CampaignService struct {
	Store store.Store
}

func NewCampaignService(s store.Store) *CampaignService {
	return &CampaignService{Store: s}
}

// CreateCampaignInput carries the creation payload. Every zero-valued
// optional field gets a documented default.
type CreateCampaignInput struct {
	Name        string
	Description string
	TargetCount int

	Frequency          string
	StartDate          string
	StartTime          string
	Timezone           string
	SendingMode        string
	SpreadDays         int
	SpreadUnit         string
	BusinessHoursStart string
	BusinessHoursEnd   string
	BusinessDays       []string
	TrackActivityDays  int

	Category     string
	TemplateMode string
	TemplateID   string

	PhishDomain        string
	LandingPageID      string
	AddClickersToGroup string
	SendReportEmail    *bool
}

// Create builds a draft campaign with defaults applied and persists it.
// Valid input never fails against a reachable store.
func (s *CampaignService) Create(ctx context.Context, in CreateCampaignInput) (*models.Campaign, error) {
	now := nowFunc()

	c := &models.Campaign{
		ID:          utils.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Status:      models.CampaignStatusDraft,
		TargetCount: in.TargetCount,

		Frequency:          defaultString(in.Frequency, "once"),
		StartDate:          in.StartDate,
		StartTime:          in.StartTime,
		Timezone:           defaultString(in.Timezone, "Europe/Istanbul"),
		SendingMode:        defaultString(in.SendingMode, "all"),
		SpreadDays:         defaultInt(in.SpreadDays, 3),
		SpreadUnit:         defaultString(in.SpreadUnit, "days"),
		BusinessHoursStart: defaultString(in.BusinessHoursStart, "09:00"),
		BusinessHoursEnd:   defaultString(in.BusinessHoursEnd, "17:00"),
		BusinessDays:       in.BusinessDays,
		TrackActivityDays:  defaultInt(in.TrackActivityDays, 7),

		Category:     defaultString(in.Category, "it"),
		TemplateMode: defaultString(in.TemplateMode, "random"),
		TemplateID:   in.TemplateID,

		PhishDomain:        defaultString(in.PhishDomain, "random"),
		LandingPageID:      in.LandingPageID,
		AddClickersToGroup: in.AddClickersToGroup,
		SendReportEmail:    true,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(c.BusinessDays) == 0 {
		c.BusinessDays = []string{"mon", "tue", "wed", "thu", "fri"}
	}
	if in.SendReportEmail != nil {
		c.SendReportEmail = *in.SendReportEmail
	}

	if err := s.Store.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"campaign": c.ID,
		"name":     c.Name,
	}).Info("campaign created")
	return c, nil
}

// List returns all campaigns, newest first.
func (s *CampaignService) List(ctx context.Context) ([]models.Campaign, error) {
	return s.Store.ListCampaigns(ctx)
}

// Get returns one campaign or nil.
func (s *CampaignService) Get(ctx context.Context, id string) (*models.Campaign, error) {
	return s.Store.GetCampaign(ctx, id)
}

// Update applies a partial edit while the campaign is still a draft.
// Returns nil for a missing id and for a non-draft campaign alike.
func (s *CampaignService) Update(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	c, err := s.Store.UpdateCampaign(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if c != nil && !patch.Empty() {
		logrus.WithField("campaign", c.ID).Info("campaign updated")
	}
	return c, nil
}

// Delete removes the campaign and everything it owns: its recipient
// roster and every recorded event.
func (s *CampaignService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.Store.DeleteCampaign(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		logrus.WithField("campaign", id).Info("campaign deleted")
	}
	return deleted, nil
}

// Start activates a draft campaign.
func (s *CampaignService) Start(ctx context.Context, id string) (*models.Campaign, error) {
	return s.transition(ctx, id, []string{models.CampaignStatusDraft}, models.CampaignStatusActive, "campaign started")
}

// Pause suspends an active campaign.
func (s *CampaignService) Pause(ctx context.Context, id string) (*models.Campaign, error) {
	return s.transition(ctx, id, []string{models.CampaignStatusActive}, models.CampaignStatusPaused, "campaign paused")
}

// Resume reactivates a paused campaign.
func (s *CampaignService) Resume(ctx context.Context, id string) (*models.Campaign, error) {
	return s.transition(ctx, id, []string{models.CampaignStatusPaused}, models.CampaignStatusActive, "campaign resumed")
}

// Complete finishes a campaign from active or paused. There is no way
// back out of completed.
func (s *CampaignService) Complete(ctx context.Context, id string) (*models.Campaign, error) {
	return s.transition(ctx, id,
		[]string{models.CampaignStatusActive, models.CampaignStatusPaused},
		models.CampaignStatusCompleted, "campaign completed")
}

func (s *CampaignService) transition(ctx context.Context, id string, from []string, to, logMsg string) (*models.Campaign, error) {
	c, err := s.Store.TransitionCampaign(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	if c != nil {
		logrus.WithFields(logrus.Fields{
			"campaign": c.ID,
			"name":     c.Name,
			"status":   c.Status,
		}).Info(logMsg)
	}
	return c, nil
}

// Stats aggregates distinct-token interaction counts against the
// campaign's planned target count. Rates are percentages and are not
// clamped: more distinct clickers than planned targets reads over 100.
func (s *CampaignService) Stats(ctx context.Context, campaignID string) (models.CampaignStats, error) {
	var stats models.CampaignStats

	c, err := s.Store.GetCampaign(ctx, campaignID)
	if err != nil {
		return stats, err
	}
	if c != nil {
		stats.TotalTargets = c.TargetCount
	}
	stats.EmailsSent = stats.TotalTargets

	if stats.Clicked, err = s.Store.CountDistinctTokens(ctx, campaignID, models.EventTypeClicked); err != nil {
		return stats, err
	}
	if stats.Submitted, err = s.Store.CountDistinctTokens(ctx, campaignID, models.EventTypeSubmitted); err != nil {
		return stats, err
	}

	if stats.TotalTargets > 0 {
		stats.ClickRate = float64(stats.Clicked) / float64(stats.TotalTargets) * 100
		stats.SubmitRate = float64(stats.Submitted) / float64(stats.TotalTargets) * 100
	}
	return stats, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
