package services

import (
	"context"

	"phishguard/models"
	"phishguard/store"
)

// DashboardService produces the cross-campaign rollup. Note the
// definition split: per-campaign stats equate "emails sent" with the
// planned target count, while this rollup counts enrolled recipients
// whose status moved past pending. Downstream reports depend on both
// figures as they are, so neither side gets unified onto the other.
type DashboardService struct {
	Store store.Store
}

func NewDashboardService(s store.Store) *DashboardService {
	return &DashboardService{Store: s}
}

// Stats computes the dashboard rollup.
func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	counts, err := s.Store.DashboardCounts(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	stats := models.DashboardStats{
		TotalCampaigns:     counts.TotalCampaigns,
		ActiveCampaigns:    counts.ActiveCampaigns,
		CompletedCampaigns: counts.CompletedCampaigns,
		DraftCampaigns:     counts.DraftCampaigns,
		PausedCampaigns:    counts.PausedCampaigns,
		TotalRecipients:    counts.TotalRecipients,
		TotalEmailsSent:    counts.SentRecipients,
		TotalClicks:        counts.DistinctClicked,
		TotalSubmissions:   counts.DistinctSubmitted,
	}
	if stats.TotalEmailsSent > 0 {
		stats.OverallClickRate = float64(stats.TotalClicks) / float64(stats.TotalEmailsSent) * 100
		stats.OverallSubmitRate = float64(stats.TotalSubmissions) / float64(stats.TotalEmailsSent) * 100
	}
	return stats, nil
}
