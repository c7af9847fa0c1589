package models

// CampaignStats aggregates tracked interactions for one campaign.
// Clicked and Submitted count distinct recipient tokens, not raw
// events, so repeated clicks from one person do not inflate the rate.
// TotalTargets is the campaign's planning figure, not the enrolled
// roster size, and EmailsSent mirrors it; rates therefore may exceed
// 100 when more distinct tokens interact than were planned for.
type CampaignStats struct {
	TotalTargets int     `json:"totalTargets"`
	EmailsSent   int     `json:"emailsSent"`
	Clicked      int     `json:"clicked"`
	Submitted    int     `json:"submitted"`
	ClickRate    float64 `json:"clickRate"`
	SubmitRate   float64 `json:"submitRate"`
}

// DashboardStats is the cross-campaign rollup. Unlike CampaignStats,
// TotalEmailsSent here counts enrolled recipients whose status moved
// past pending; the two definitions of "sent" intentionally coexist.
type DashboardStats struct {
	TotalCampaigns     int     `json:"totalCampaigns"`
	ActiveCampaigns    int     `json:"activeCampaigns"`
	CompletedCampaigns int     `json:"completedCampaigns"`
	DraftCampaigns     int     `json:"draftCampaigns"`
	PausedCampaigns    int     `json:"pausedCampaigns"`
	TotalRecipients    int     `json:"totalRecipients"`
	TotalEmailsSent    int     `json:"totalEmailsSent"`
	TotalClicks        int     `json:"totalClicks"`
	TotalSubmissions   int     `json:"totalSubmissions"`
	OverallClickRate   float64 `json:"overallClickRate"`
	OverallSubmitRate  float64 `json:"overallSubmitRate"`
}
