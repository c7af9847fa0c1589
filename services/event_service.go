package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"phishguard/models"
	"phishguard/store"
	"phishguard/utils"
)

// EventService is the tracking-surface ingestion point. Recording is
// permissive as a policy: neither the campaign id nor the recipient
// token is checked for existence, so telemetry from stale links or
// deleted recipients is still captured for later analysis.
type EventService struct {
	Store store.Store
}

func NewEventService(s store.Store) *EventService {
	return &EventService{Store: s}
}

// Record appends one immutable event.
func (s *EventService) Record(ctx context.Context, eventType, campaignID, recipientToken, ipAddress, userAgent string) error {
	e := &models.CampaignEvent{
		ID:             utils.NewID(),
		CampaignID:     campaignID,
		Type:           eventType,
		RecipientToken: recipientToken,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		CreatedAt:      nowFunc(),
	}
	if err := s.Store.CreateEvent(ctx, e); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"type":     eventType,
		"campaign": campaignID,
	}).Info("event recorded")
	return nil
}

// ListByCampaign returns a campaign's events, newest first.
func (s *EventService) ListByCampaign(ctx context.Context, campaignID string) ([]models.CampaignEvent, error) {
	return s.Store.ListEventsByCampaign(ctx, campaignID)
}
