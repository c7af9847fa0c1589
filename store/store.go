package store

import (
	"context"

	"phishguard/models"
)

// DashboardCounts are the raw rollup figures the dashboard service turns
// into rates. SentRecipients counts enrolled recipients whose status has
// moved past pending; DistinctClicked/DistinctSubmitted count unique
// recipient tokens across all campaigns.
type DashboardCounts struct {
	TotalCampaigns     int
	ActiveCampaigns    int
	CompletedCampaigns int
	DraftCampaigns     int
	PausedCampaigns    int
	TotalRecipients    int
	SentRecipients     int
	DistinctClicked    int
	DistinctSubmitted  int
}

// Store is the persistence contract shared by the in-memory and
// relational backends. Both implementations must agree on semantics:
// lookups that miss return (nil, nil), guarded mutations that find no
// eligible row return (nil, nil) rather than a distinct error, and
// deletes report whether anything existed.
//
// Callers never reach past this interface into the backing containers
// or the connection pool.
type Store interface {
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Campaigns. UpdateCampaign applies the patch only while the
	// campaign is a draft; an empty patch is a plain read.
	// TransitionCampaign moves a campaign to status `to` only if its
	// current status is one of `from`. The guard is evaluated at the
	// write point, so concurrent writers cannot both win.
	// DeleteCampaign cascades to the campaign's recipients and events.
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	CreateCampaign(ctx context.Context, c *models.Campaign) error
	UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error)
	TransitionCampaign(ctx context.Context, id string, from []string, to string) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) (bool, error)

	// Recipients. CreateRecipients is atomic on the relational backend
	// (one transaction) and a plain loop in memory. Listing is oldest
	// first to show roster add order.
	ListRecipientsByCampaign(ctx context.Context, campaignID string) ([]models.Recipient, error)
	GetRecipientByToken(ctx context.Context, token string) (*models.Recipient, error)
	CreateRecipient(ctx context.Context, r *models.Recipient) error
	CreateRecipients(ctx context.Context, recipients []*models.Recipient) (int, error)
	UpdateRecipientStatus(ctx context.Context, token, status string) (*models.Recipient, error)
	DeleteRecipient(ctx context.Context, id string) (bool, error)

	// Events. CreateEvent never checks that the campaign or token
	// exists. Listing is newest first. CountDistinctTokens counts
	// unique recipient tokens for one event type; an empty campaignID
	// counts globally.
	ListEventsByCampaign(ctx context.Context, campaignID string) ([]models.CampaignEvent, error)
	CreateEvent(ctx context.Context, e *models.CampaignEvent) error
	CountDistinctTokens(ctx context.Context, campaignID, eventType string) (int, error)

	// Email templates. Creating or updating with IsDefault=true clears
	// the flag everywhere else first, so at most one row holds it.
	ListTemplates(ctx context.Context) ([]models.EmailTemplate, error)
	GetTemplate(ctx context.Context, id string) (*models.EmailTemplate, error)
	CreateTemplate(ctx context.Context, t *models.EmailTemplate) error
	UpdateTemplate(ctx context.Context, id string, patch models.TemplatePatch) (*models.EmailTemplate, error)
	DeleteTemplate(ctx context.Context, id string) (bool, error)

	// Landing pages, same default-flag contract as templates.
	ListLandingPages(ctx context.Context) ([]models.LandingPage, error)
	GetLandingPage(ctx context.Context, id string) (*models.LandingPage, error)
	CreateLandingPage(ctx context.Context, p *models.LandingPage) error
	UpdateLandingPage(ctx context.Context, id string, patch models.LandingPagePatch) (*models.LandingPage, error)
	DeleteLandingPage(ctx context.Context, id string) (bool, error)

	// Dashboard rollup counters.
	DashboardCounts(ctx context.Context) (DashboardCounts, error)
}
