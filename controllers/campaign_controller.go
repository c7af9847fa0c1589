package controller

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"phishguard/models"
	"phishguard/services"
	"phishguard/utils"
)

type CampaignController struct {
	Campaigns *services.CampaignService
	Events    *services.EventService
	Logger    *log.Logger
}

func NewCampaignController(campaigns *services.CampaignService, events *services.EventService, logger *log.Logger) *CampaignController {
	return &CampaignController{
		Campaigns: campaigns,
		Events:    events,
		Logger:    logger,
	}
}

type createCampaignInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	TargetCount int    `json:"targetCount"`

	Frequency          string   `json:"frequency"`
	StartDate          string   `json:"startDate"`
	StartTime          string   `json:"startTime"`
	Timezone           string   `json:"timezone"`
	SendingMode        string   `json:"sendingMode"`
	SpreadDays         int      `json:"spreadDays"`
	SpreadUnit         string   `json:"spreadUnit"`
	BusinessHoursStart string   `json:"businessHoursStart"`
	BusinessHoursEnd   string   `json:"businessHoursEnd"`
	BusinessDays       []string `json:"businessDays"`
	TrackActivityDays  int      `json:"trackActivityDays"`

	Category     string `json:"category"`
	TemplateMode string `json:"templateMode"`
	TemplateID   string `json:"templateId"`

	PhishDomain        string `json:"phishDomain"`
	LandingPageID      string `json:"landingPageId"`
	AddClickersToGroup string `json:"addClickersToGroup"`
	SendReportEmail    *bool  `json:"sendReportEmail"`
}

type updateCampaignInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	TargetCount *int    `json:"targetCount"`
}

// campaignDetail is the GET /campaigns/:id body: the campaign fields
// flattened, plus stats and the event log.
type campaignDetail struct {
	models.Campaign
	Stats  models.CampaignStats   `json:"stats"`
	Events []models.CampaignEvent `json:"events"`
}

// GetCampaigns returns all campaigns, newest first.
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	campaigns, err := cc.Campaigns.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(campaigns)
}

// GetCampaign returns a single campaign with its stats and events.
func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	campaign, err := cc.Campaigns.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if campaign == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}

	stats, err := cc.Campaigns.Stats(c.Context(), campaign.ID)
	if err != nil {
		return err
	}
	events, err := cc.Events.ListByCampaign(c.Context(), campaign.ID)
	if err != nil {
		return err
	}
	if events == nil {
		events = []models.CampaignEvent{}
	}

	return c.JSON(campaignDetail{
		Campaign: *campaign,
		Stats:    stats,
		Events:   events,
	})
}

// CreateCampaign creates a draft campaign, applying defaults for every
// omitted scheduling and content field.
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	var input createCampaignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := utils.ValidateStruct(input); err != nil {
		cc.Logger.Printf("create campaign rejected: %v", err)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if input.TargetCount == 0 {
		input.TargetCount = 10
	}

	campaign, err := cc.Campaigns.Create(c.Context(), services.CreateCampaignInput{
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		TargetCount: input.TargetCount,

		Frequency:          input.Frequency,
		StartDate:          input.StartDate,
		StartTime:          input.StartTime,
		Timezone:           input.Timezone,
		SendingMode:        input.SendingMode,
		SpreadDays:         input.SpreadDays,
		SpreadUnit:         input.SpreadUnit,
		BusinessHoursStart: input.BusinessHoursStart,
		BusinessHoursEnd:   input.BusinessHoursEnd,
		BusinessDays:       input.BusinessDays,
		TrackActivityDays:  input.TrackActivityDays,

		Category:     input.Category,
		TemplateMode: input.TemplateMode,
		TemplateID:   input.TemplateID,

		PhishDomain:        input.PhishDomain,
		LandingPageID:      input.LandingPageID,
		AddClickersToGroup: input.AddClickersToGroup,
		SendReportEmail:    input.SendReportEmail,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// UpdateCampaign edits name/description/targetCount while the campaign
// is still a draft.
func (cc *CampaignController) UpdateCampaign(c *fiber.Ctx) error {
	var input updateCampaignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	patch := models.CampaignPatch{
		Description: trimPtr(input.Description),
		TargetCount: input.TargetCount,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		patch.Name = &name
	}

	campaign, err := cc.Campaigns.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	if campaign == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found or not editable")
	}
	return c.JSON(campaign)
}

// DeleteCampaign removes the campaign plus its recipients and events.
func (cc *CampaignController) DeleteCampaign(c *fiber.Ctx) error {
	deleted, err := cc.Campaigns.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}
	return utils.SuccessResponse(c)
}

// StartCampaign moves draft -> active.
func (cc *CampaignController) StartCampaign(c *fiber.Ctx) error {
	return cc.respondTransition(c, cc.Campaigns.Start, "Campaign not found or already started")
}

// PauseCampaign moves active -> paused.
func (cc *CampaignController) PauseCampaign(c *fiber.Ctx) error {
	return cc.respondTransition(c, cc.Campaigns.Pause, "Campaign not found or not active")
}

// ResumeCampaign moves paused -> active.
func (cc *CampaignController) ResumeCampaign(c *fiber.Ctx) error {
	return cc.respondTransition(c, cc.Campaigns.Resume, "Campaign not found or not paused")
}

// CompleteCampaign moves active or paused -> completed.
func (cc *CampaignController) CompleteCampaign(c *fiber.Ctx) error {
	return cc.respondTransition(c, cc.Campaigns.Complete, "Campaign not found or not completable")
}

func (cc *CampaignController) respondTransition(
	c *fiber.Ctx,
	transition func(ctx context.Context, id string) (*models.Campaign, error),
	notFoundMsg string,
) error {
	campaign, err := transition(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if campaign == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, notFoundMsg)
	}
	return c.JSON(campaign)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
