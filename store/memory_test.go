package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishguard/models"
	"phishguard/utils"
)

func newTestCampaign(id, status string) *models.Campaign {
	now := time.Now()
	return &models.Campaign{
		ID:        id,
		Name:      "Campaign " + id,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTransitionCampaign(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("c1", models.CampaignStatusDraft)))

	// draft -> active
	c, err := s.TransitionCampaign(ctx, "c1", []string{models.CampaignStatusDraft}, models.CampaignStatusActive)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, models.CampaignStatusActive, c.Status)

	// Repeating start on an active campaign answers like an unknown id
	c, err = s.TransitionCampaign(ctx, "c1", []string{models.CampaignStatusDraft}, models.CampaignStatusActive)
	require.NoError(t, err)
	assert.Nil(t, c, "second start should be a no-op")

	// Unknown id gives the same signal
	c, err = s.TransitionCampaign(ctx, "nope", []string{models.CampaignStatusDraft}, models.CampaignStatusActive)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestTransitionCampaign_CompletedIsTerminal(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("c1", models.CampaignStatusCompleted)))

	for _, to := range []string{models.CampaignStatusActive, models.CampaignStatusPaused, models.CampaignStatusDraft} {
		c, err := s.TransitionCampaign(ctx, "c1",
			[]string{models.CampaignStatusDraft, models.CampaignStatusActive, models.CampaignStatusPaused}, to)
		require.NoError(t, err)
		assert.Nil(t, c, "no transition should leave completed")
	}
}

func TestUpdateCampaign_DraftOnly(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("draft", models.CampaignStatusDraft)))
	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("active", models.CampaignStatusActive)))

	patch := models.CampaignPatch{Name: utils.Pointer("Renamed")}

	c, err := s.UpdateCampaign(ctx, "draft", patch)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Renamed", c.Name)

	c, err = s.UpdateCampaign(ctx, "active", patch)
	require.NoError(t, err)
	assert.Nil(t, c, "non-draft campaigns are not editable")
}

func TestUpdateCampaign_EmptyPatchIsARead(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("active", models.CampaignStatusActive)))
	before, err := s.GetCampaign(ctx, "active")
	require.NoError(t, err)

	c, err := s.UpdateCampaign(ctx, "active", models.CampaignPatch{})
	require.NoError(t, err)
	require.NotNil(t, c, "empty patch should succeed even outside draft")
	assert.Equal(t, before.UpdatedAt, c.UpdatedAt, "empty patch must not refresh updatedAt")
}

func TestDeleteCampaign_Cascades(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("c1", models.CampaignStatusActive)))
	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("c2", models.CampaignStatusActive)))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateRecipient(ctx, &models.Recipient{
			ID:         fmt.Sprintf("r%d", i),
			CampaignID: "c1",
			Email:      fmt.Sprintf("user%d@example.com", i),
			Token:      fmt.Sprintf("token-%d", i),
			Status:     models.RecipientStatusPending,
		}))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateEvent(ctx, &models.CampaignEvent{
			ID:             fmt.Sprintf("e%d", i),
			CampaignID:     "c1",
			Type:           models.EventTypeClicked,
			RecipientToken: fmt.Sprintf("token-%d", i%3),
		}))
	}
	// Unrelated campaign data must survive
	require.NoError(t, s.CreateRecipient(ctx, &models.Recipient{
		ID: "other", CampaignID: "c2", Email: "other@example.com", Token: "token-other",
	}))

	deleted, err := s.DeleteCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, deleted)

	recipients, err := s.ListRecipientsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, recipients)

	events, err := s.ListEventsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, events)

	others, err := s.ListRecipientsByCampaign(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, others, 1)

	deleted, err = s.DeleteCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete should report nothing existed")
}

func TestListCampaigns_NewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		c := newTestCampaign(fmt.Sprintf("c%d", i), models.CampaignStatusDraft)
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.CreateCampaign(ctx, c))
	}

	campaigns, err := s.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 3)
	assert.Equal(t, "c2", campaigns[0].ID)
	assert.Equal(t, "c0", campaigns[2].ID)
}

func TestListRecipients_RosterOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	for i := 2; i >= 0; i-- {
		require.NoError(t, s.CreateRecipient(ctx, &models.Recipient{
			ID:         fmt.Sprintf("r%d", i),
			CampaignID: "c1",
			Email:      fmt.Sprintf("user%d@example.com", i),
			Token:      fmt.Sprintf("token-%d", i),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	recipients, err := s.ListRecipientsByCampaign(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, recipients, 3)
	assert.Equal(t, "r0", recipients[0].ID, "roster lists oldest first")
	assert.Equal(t, "r2", recipients[2].ID)
}

func TestUpdateRecipientStatus_StampsTimestamp(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateRecipient(ctx, &models.Recipient{
		ID: "r1", CampaignID: "c1", Email: "a@example.com", Token: "tok",
		Status: models.RecipientStatusPending,
	}))

	r, err := s.UpdateRecipientStatus(ctx, "tok", models.RecipientStatusClicked)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, models.RecipientStatusClicked, r.Status)
	assert.NotNil(t, r.ClickedAt)
	assert.Nil(t, r.SentAt)

	r, err = s.UpdateRecipientStatus(ctx, "unknown", models.RecipientStatusClicked)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestDeleteRecipient_KeepsEvents(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateRecipient(ctx, &models.Recipient{
		ID: "r1", CampaignID: "c1", Email: "a@example.com", Token: "tok",
	}))
	require.NoError(t, s.CreateEvent(ctx, &models.CampaignEvent{
		ID: "e1", CampaignID: "c1", Type: models.EventTypeClicked, RecipientToken: "tok",
	}))

	deleted, err := s.DeleteRecipient(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, deleted)

	events, err := s.ListEventsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, events, 1, "orphaned events stay queryable")
}

func TestCountDistinctTokens(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Duplicate clicks from token A must count once
	for i, tok := range []string{"A", "A", "B"} {
		require.NoError(t, s.CreateEvent(ctx, &models.CampaignEvent{
			ID:             fmt.Sprintf("e%d", i),
			CampaignID:     "c1",
			Type:           models.EventTypeClicked,
			RecipientToken: tok,
		}))
	}
	require.NoError(t, s.CreateEvent(ctx, &models.CampaignEvent{
		ID: "e3", CampaignID: "c2", Type: models.EventTypeClicked, RecipientToken: "C",
	}))

	count, err := s.CountDistinctTokens(ctx, "c1", models.EventTypeClicked)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Empty campaign id counts globally
	count, err = s.CountDistinctTokens(ctx, "", models.EventTypeClicked)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = s.CountDistinctTokens(ctx, "c1", models.EventTypeSubmitted)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateEvent_Permissive(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// No campaign, no recipient: the event is still recorded
	require.NoError(t, s.CreateEvent(ctx, &models.CampaignEvent{
		ID: "e1", CampaignID: "ghost", Type: models.EventTypeClicked, RecipientToken: "nobody",
	}))

	events, err := s.ListEventsByCampaign(ctx, "ghost")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestTemplateSingleDefault(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateTemplate(ctx, &models.EmailTemplate{ID: "t1", Name: "One", IsDefault: true}))
	require.NoError(t, s.CreateTemplate(ctx, &models.EmailTemplate{ID: "t2", Name: "Two", IsDefault: true}))

	templates, err := s.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, countDefaultTemplates(templates))

	// Flipping the flag back via update moves it, never duplicates it
	tmpl, err := s.UpdateTemplate(ctx, "t1", models.TemplatePatch{IsDefault: utils.Pointer(true)})
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.True(t, tmpl.IsDefault)

	templates, err = s.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, countDefaultTemplates(templates))
	for _, tm := range templates {
		if tm.ID == "t2" {
			assert.False(t, tm.IsDefault)
		}
	}
}

func countDefaultTemplates(templates []models.EmailTemplate) int {
	n := 0
	for _, t := range templates {
		if t.IsDefault {
			n++
		}
	}
	return n
}

func TestLandingPageSingleDefault(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateLandingPage(ctx, &models.LandingPage{ID: "p1", Name: "One", IsDefault: true}))

	page, err := s.UpdateLandingPage(ctx, "p1", models.LandingPagePatch{IsDefault: utils.Pointer(true)})
	require.NoError(t, err)
	require.NotNil(t, page)

	require.NoError(t, s.CreateLandingPage(ctx, &models.LandingPage{ID: "p2", Name: "Two", IsDefault: true}))

	pages, err := s.ListLandingPages(ctx)
	require.NoError(t, err)
	defaults := 0
	for _, p := range pages {
		if p.IsDefault {
			defaults++
			assert.Equal(t, "p2", p.ID, "last set wins")
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestDashboardCounts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("c1", models.CampaignStatusActive)))
	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("c2", models.CampaignStatusDraft)))
	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("c3", models.CampaignStatusCompleted)))

	require.NoError(t, s.CreateRecipient(ctx, &models.Recipient{
		ID: "r1", CampaignID: "c1", Email: "a@example.com", Token: "t1",
		Status: models.RecipientStatusSent,
	}))
	require.NoError(t, s.CreateRecipient(ctx, &models.Recipient{
		ID: "r2", CampaignID: "c1", Email: "b@example.com", Token: "t2",
		Status: models.RecipientStatusPending,
	}))

	require.NoError(t, s.CreateEvent(ctx, &models.CampaignEvent{
		ID: "e1", CampaignID: "c1", Type: models.EventTypeClicked, RecipientToken: "t1",
	}))
	require.NoError(t, s.CreateEvent(ctx, &models.CampaignEvent{
		ID: "e2", CampaignID: "c1", Type: models.EventTypeClicked, RecipientToken: "t1",
	}))

	counts, err := s.DashboardCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.TotalCampaigns)
	assert.Equal(t, 1, counts.ActiveCampaigns)
	assert.Equal(t, 1, counts.DraftCampaigns)
	assert.Equal(t, 1, counts.CompletedCampaigns)
	assert.Equal(t, 2, counts.TotalRecipients)
	assert.Equal(t, 1, counts.SentRecipients, "only non-pending recipients count as sent")
	assert.Equal(t, 1, counts.DistinctClicked)
}

func TestReset(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateCampaign(ctx, newTestCampaign("c1", models.CampaignStatusDraft)))
	s.Reset()

	campaigns, err := s.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, campaigns)
}
