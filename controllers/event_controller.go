package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"phishguard/models"
	"phishguard/services"
	"phishguard/utils"
)

type EventController struct {
	Events *services.EventService
	Logger *log.Logger
}

func NewEventController(events *services.EventService, logger *log.Logger) *EventController {
	return &EventController{
		Events: events,
		Logger: logger,
	}
}

type eventInput struct {
	Type           string `json:"type" validate:"required"`
	CampaignID     string `json:"campaignId" validate:"required,max=255"`
	RecipientToken string `json:"recipientToken" validate:"required,max=255"`
}

// RecordEvent ingests a tracking event. Events are accepted as long as
// the payload is well formed; the campaign and token are not checked
// against the roster.
func (ec *EventController) RecordEvent(c *fiber.Ctx) error {
	var input eventInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(input); err != nil {
		ec.Logger.Printf("event rejected: %v", err)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if !models.ValidEventType(input.Type) {
		ec.Logger.Printf("event rejected: unknown type %q", input.Type)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	err := ec.Events.Record(c.Context(), input.Type, input.CampaignID, input.RecipientToken, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// GetCampaignEvents returns a campaign's events, newest first.
func (ec *EventController) GetCampaignEvents(c *fiber.Ctx) error {
	events, err := ec.Events.ListByCampaign(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if events == nil {
		events = []models.CampaignEvent{}
	}
	return c.JSON(events)
}
