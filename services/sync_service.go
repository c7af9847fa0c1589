package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"phishguard/directory"
	"phishguard/models"
	"phishguard/store"
	"phishguard/utils"
)

// Sync detail statuses
const (
	SyncStatusSynced  = "synced"
	SyncStatusSkipped = "skipped"
	SyncStatusError   = "error"
)

// SyncDetail reports the outcome for one directory email.
type SyncDetail struct {
	Email   string `json:"email"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Success    bool         `json:"success"`
	TotalFound int          `json:"totalFound"`
	Synced     int          `json:"synced"`
	Skipped    int          `json:"skipped"`
	Errors     int          `json:"errors"`
	Details    []SyncDetail `json:"details"`
}

// SyncService pulls the external user directory into a campaign's
// roster. The two failure modes are deliberately asymmetric: a
// directory fetch failure aborts the whole run before anything is
// written, while a per-row insert failure after a successful fetch is
// tallied and the run continues; one bad row must not block hundreds
// of good ones.
type SyncService struct {
	Store     store.Store
	Directory directory.Client
}

func NewSyncService(s store.Store, d directory.Client) *SyncService {
	return &SyncService{Store: s, Directory: d}
}

// SyncToCampaign imports every directory user not already enrolled in
// the campaign, deduplicating case-insensitively by email. Running it
// again with an unchanged directory skips everything.
func (s *SyncService) SyncToCampaign(ctx context.Context, campaignID string) (*SyncResult, error) {
	result := &SyncResult{Success: true, Details: []SyncDetail{}}

	users, err := s.Directory.ListUsers(ctx)
	if err != nil {
		// Fail fast: no partial summary when the directory itself is
		// unreachable.
		return nil, err
	}
	result.TotalFound = len(users)
	if len(users) == 0 {
		return result, nil
	}

	enrolled, err := s.Store.ListRecipientsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(enrolled))
	for _, r := range enrolled {
		existing[strings.ToLower(r.Email)] = struct{}{}
	}

	now := nowFunc()
	for _, u := range users {
		email := strings.ToLower(u.Mail)
		if _, ok := existing[email]; ok {
			result.Skipped++
			result.Details = append(result.Details, SyncDetail{
				Email:   u.Mail,
				Status:  SyncStatusSkipped,
				Message: "Already exists",
			})
			continue
		}

		r := &models.Recipient{
			ID:         utils.NewID(),
			CampaignID: campaignID,
			Email:      u.Mail,
			FirstName:  u.FirstName(),
			LastName:   u.LastName(),
			Token:      utils.NewRecipientToken(),
			Status:     models.RecipientStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.Store.CreateRecipient(ctx, r); err != nil {
			// Per-row isolation: tally and keep going. Only the
			// relational backend can actually fail here.
			result.Errors++
			result.Details = append(result.Details, SyncDetail{
				Email:   u.Mail,
				Status:  SyncStatusError,
				Message: err.Error(),
			})
			utils.LogError("sync_insert", err, map[string]interface{}{
				"campaign": campaignID,
				"email":    u.Mail,
			})
			continue
		}

		existing[email] = struct{}{}
		result.Synced++
		result.Details = append(result.Details, SyncDetail{
			Email:  u.Mail,
			Status: SyncStatusSynced,
		})
	}

	logrus.WithFields(logrus.Fields{
		"campaign": campaignID,
		"synced":   result.Synced,
		"skipped":  result.Skipped,
		"errors":   result.Errors,
	}).Info("directory sync completed")
	return result, nil
}
