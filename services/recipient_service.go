package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"phishguard/models"
	"phishguard/store"
	"phishguard/utils"
)

// RecipientService manages per-campaign rosters. The direct-add paths
// deliberately skip the per-campaign email dedupe that directory sync
// performs, and enrollment is allowed regardless of campaign status;
// both are observed behavior of the admin panel this replaces.
type RecipientService struct {
	Store store.Store
}

func NewRecipientService(s store.Store) *RecipientService {
	return &RecipientService{Store: s}
}

// RecipientInput is one enrollment entry.
type RecipientInput struct {
	Email     string
	FirstName string
	LastName  string
}

// Add enrolls one recipient with a fresh tracking token.
func (s *RecipientService) Add(ctx context.Context, campaignID string, in RecipientInput) (*models.Recipient, error) {
	r := newRecipient(campaignID, in)
	if err := s.Store.CreateRecipient(ctx, r); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"campaign": campaignID,
		"email":    r.Email,
	}).Info("recipient created")
	return r, nil
}

// AddBulk enrolls a batch and returns how many were inserted. Against
// the relational store the batch is one transaction; in memory it is a
// plain loop whose inserts cannot fail.
func (s *RecipientService) AddBulk(ctx context.Context, campaignID string, entries []RecipientInput) (int, error) {
	recipients := make([]*models.Recipient, 0, len(entries))
	for _, in := range entries {
		recipients = append(recipients, newRecipient(campaignID, in))
	}

	count, err := s.Store.CreateRecipients(ctx, recipients)
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"campaign": campaignID,
		"count":    count,
	}).Info("recipients created")
	return count, nil
}

// UpdateStatus looks a recipient up by tracking token and sets the
// status plus its matching first-transition timestamp. Repeated calls
// with the same status overwrite the timestamp. Nil for unknown tokens.
func (s *RecipientService) UpdateStatus(ctx context.Context, token, status string) (*models.Recipient, error) {
	return s.Store.UpdateRecipientStatus(ctx, token, status)
}

// Remove deletes a recipient by id. Events referencing the recipient's
// token are kept; orphaned telemetry stays queryable.
func (s *RecipientService) Remove(ctx context.Context, id string) (bool, error) {
	return s.Store.DeleteRecipient(ctx, id)
}

// GetByToken resolves the external-facing token to a recipient.
func (s *RecipientService) GetByToken(ctx context.Context, token string) (*models.Recipient, error) {
	return s.Store.GetRecipientByToken(ctx, token)
}

// ListByCampaign returns the roster oldest-first, i.e. in add order.
func (s *RecipientService) ListByCampaign(ctx context.Context, campaignID string) ([]models.Recipient, error) {
	return s.Store.ListRecipientsByCampaign(ctx, campaignID)
}

func newRecipient(campaignID string, in RecipientInput) *models.Recipient {
	now := nowFunc()
	return &models.Recipient{
		ID:         utils.NewID(),
		CampaignID: campaignID,
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Token:      utils.NewRecipientToken(),
		Status:     models.RecipientStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
