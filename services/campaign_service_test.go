package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishguard/models"
	"phishguard/store"
)

func TestCreate_AppliesDefaults(t *testing.T) {
	svc := NewCampaignService(store.NewMemoryStore())
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCampaignInput{Name: "Security Drill"})
	require.NoError(t, err)

	assert.Equal(t, models.CampaignStatusDraft, c.Status)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "once", c.Frequency)
	assert.Equal(t, "Europe/Istanbul", c.Timezone)
	assert.Equal(t, "all", c.SendingMode)
	assert.Equal(t, 3, c.SpreadDays)
	assert.Equal(t, "days", c.SpreadUnit)
	assert.Equal(t, "09:00", c.BusinessHoursStart)
	assert.Equal(t, "17:00", c.BusinessHoursEnd)
	assert.Equal(t, []string{"mon", "tue", "wed", "thu", "fri"}, c.BusinessDays)
	assert.Equal(t, 7, c.TrackActivityDays)
	assert.Equal(t, "it", c.Category)
	assert.Equal(t, "random", c.TemplateMode)
	assert.Equal(t, "random", c.PhishDomain)
	assert.True(t, c.SendReportEmail)
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
}

func TestCreate_ExplicitValuesWin(t *testing.T) {
	svc := NewCampaignService(store.NewMemoryStore())
	ctx := context.Background()

	off := false
	c, err := svc.Create(ctx, CreateCampaignInput{
		Name:            "Custom",
		Timezone:        "UTC",
		SendingMode:     "spread",
		BusinessDays:    []string{"sat", "sun"},
		SendReportEmail: &off,
	})
	require.NoError(t, err)

	assert.Equal(t, "UTC", c.Timezone)
	assert.Equal(t, "spread", c.SendingMode)
	assert.Equal(t, []string{"sat", "sun"}, c.BusinessDays)
	assert.False(t, c.SendReportEmail)
}

func TestLifecycle_StartOnlyFromDraft(t *testing.T) {
	svc := NewCampaignService(store.NewMemoryStore())
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCampaignInput{Name: "Drill"})
	require.NoError(t, err)

	started, err := svc.Start(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, started)
	assert.Equal(t, models.CampaignStatusActive, started.Status)

	again, err := svc.Start(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, again, "starting an active campaign is a no-op")
}

func TestLifecycle_PauseResumeRoundTrip(t *testing.T) {
	svc := NewCampaignService(store.NewMemoryStore())
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCampaignInput{Name: "Drill"})
	require.NoError(t, err)
	_, err = svc.Start(ctx, c.ID)
	require.NoError(t, err)

	paused, err := svc.Pause(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, paused)
	assert.Equal(t, models.CampaignStatusPaused, paused.Status)

	resumed, err := svc.Resume(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, resumed)
	assert.Equal(t, models.CampaignStatusActive, resumed.Status)

	paused, err = svc.Pause(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, paused)
	assert.Equal(t, models.CampaignStatusPaused, paused.Status)
}

func TestLifecycle_CompleteFromActiveAndPaused(t *testing.T) {
	svc := NewCampaignService(store.NewMemoryStore())
	ctx := context.Background()

	// Never from draft
	draft, err := svc.Create(ctx, CreateCampaignInput{Name: "Draft"})
	require.NoError(t, err)
	done, err := svc.Complete(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, done, "draft campaigns cannot complete")

	// From active
	active, err := svc.Create(ctx, CreateCampaignInput{Name: "Active"})
	require.NoError(t, err)
	_, err = svc.Start(ctx, active.ID)
	require.NoError(t, err)
	done, err = svc.Complete(ctx, active.ID)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, models.CampaignStatusCompleted, done.Status)

	// From paused
	paused, err := svc.Create(ctx, CreateCampaignInput{Name: "Paused"})
	require.NoError(t, err)
	_, err = svc.Start(ctx, paused.ID)
	require.NoError(t, err)
	_, err = svc.Pause(ctx, paused.ID)
	require.NoError(t, err)
	done, err = svc.Complete(ctx, paused.ID)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, models.CampaignStatusCompleted, done.Status)

	// And never back out
	resumed, err := svc.Resume(ctx, done.ID)
	require.NoError(t, err)
	assert.Nil(t, resumed)
}

func TestUpdate_FailsOnActiveCampaign(t *testing.T) {
	svc := NewCampaignService(store.NewMemoryStore())
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCampaignInput{Name: "Drill"})
	require.NoError(t, err)
	_, err = svc.Start(ctx, c.ID)
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.Update(ctx, c.ID, models.CampaignPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, updated, "active campaigns reject edits with the not-found signal")
}

func TestStats_DistinctTokensAndRates(t *testing.T) {
	mem := store.NewMemoryStore()
	campaigns := NewCampaignService(mem)
	events := NewEventService(mem)
	ctx := context.Background()

	c, err := campaigns.Create(ctx, CreateCampaignInput{Name: "Q1 Test", TargetCount: 100})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusDraft, c.Status)

	started, err := campaigns.Start(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, started.Status)

	// Duplicate click from token A must not move the needle
	for _, tok := range []string{"A", "A", "B"} {
		require.NoError(t, events.Record(ctx, models.EventTypeClicked, c.ID, tok, "", ""))
	}

	stats, err := campaigns.Stats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Clicked)

	require.NoError(t, events.Record(ctx, models.EventTypeSubmitted, c.ID, "A", "", ""))

	stats, err = campaigns.Stats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalTargets)
	assert.Equal(t, 100, stats.EmailsSent)
	assert.Equal(t, 2, stats.Clicked)
	assert.Equal(t, 1, stats.Submitted)
	assert.InDelta(t, 2.0, stats.ClickRate, 0.0001)
	assert.InDelta(t, 1.0, stats.SubmitRate, 0.0001)
}

func TestStats_ZeroTargetsMeansZeroRates(t *testing.T) {
	mem := store.NewMemoryStore()
	campaigns := NewCampaignService(mem)
	events := NewEventService(mem)
	ctx := context.Background()

	c, err := campaigns.Create(ctx, CreateCampaignInput{Name: "No Targets"})
	require.NoError(t, err)
	require.NoError(t, events.Record(ctx, models.EventTypeClicked, c.ID, "A", "", ""))

	stats, err := campaigns.Stats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Clicked)
	assert.Zero(t, stats.ClickRate)
	assert.Zero(t, stats.SubmitRate)
}

func TestStats_RatesAreNotClamped(t *testing.T) {
	mem := store.NewMemoryStore()
	campaigns := NewCampaignService(mem)
	events := NewEventService(mem)
	ctx := context.Background()

	c, err := campaigns.Create(ctx, CreateCampaignInput{Name: "Small Plan", TargetCount: 1})
	require.NoError(t, err)
	require.NoError(t, events.Record(ctx, models.EventTypeClicked, c.ID, "A", "", ""))
	require.NoError(t, events.Record(ctx, models.EventTypeClicked, c.ID, "B", "", ""))

	stats, err := campaigns.Stats(ctx, c.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, stats.ClickRate, 0.0001)
}
