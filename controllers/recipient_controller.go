package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"phishguard/models"
	"phishguard/services"
	"phishguard/utils"
)

type RecipientController struct {
	Recipients *services.RecipientService
	Logger     *log.Logger
}

func NewRecipientController(recipients *services.RecipientService, logger *log.Logger) *RecipientController {
	return &RecipientController{
		Recipients: recipients,
		Logger:     logger,
	}
}

type recipientInput struct {
	Email     string `json:"email" validate:"required,contains=@"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type bulkRecipientsInput struct {
	Recipients []recipientInput `json:"recipients"`
}

type recipientStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// GetRecipients returns a campaign's roster in add order.
func (rc *RecipientController) GetRecipients(c *fiber.Ctx) error {
	recipients, err := rc.Recipients.ListByCampaign(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if recipients == nil {
		recipients = []models.Recipient{}
	}
	return c.JSON(recipients)
}

// AddRecipient enrolls a single recipient.
func (rc *RecipientController) AddRecipient(c *fiber.Ctx) error {
	var input recipientInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(input); err != nil {
		rc.Logger.Printf("add recipient rejected: %v", err)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	recipient, err := rc.Recipients.Add(c.Context(), c.Params("id"), services.RecipientInput{
		Email:     strings.TrimSpace(input.Email),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(recipient)
}

// AddRecipientsBulk enrolls a batch. Entries that fail validation are
// dropped; the request only fails when nothing valid remains.
func (rc *RecipientController) AddRecipientsBulk(c *fiber.Ctx) error {
	var input bulkRecipientsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(input.Recipients) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	valid := make([]services.RecipientInput, 0, len(input.Recipients))
	for _, r := range input.Recipients {
		if err := utils.ValidateStruct(r); err != nil {
			continue
		}
		valid = append(valid, services.RecipientInput{
			Email:     strings.TrimSpace(r.Email),
			FirstName: strings.TrimSpace(r.FirstName),
			LastName:  strings.TrimSpace(r.LastName),
		})
	}
	if len(valid) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "No valid recipients provided")
	}

	count, err := rc.Recipients.AddBulk(c.Context(), c.Params("id"), valid)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"count":   count,
	})
}

// DeleteRecipient removes a recipient by id.
func (rc *RecipientController) DeleteRecipient(c *fiber.Ctx) error {
	deleted, err := rc.Recipients.Remove(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Recipient not found")
	}
	return utils.SuccessResponse(c)
}

// GetRecipientByToken resolves a tracking token.
func (rc *RecipientController) GetRecipientByToken(c *fiber.Ctx) error {
	recipient, err := rc.Recipients.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	if recipient == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Recipient not found")
	}
	return c.JSON(recipient)
}

// UpdateRecipientStatus sets the recipient status by token, stamping
// the matching timestamp field.
func (rc *RecipientController) UpdateRecipientStatus(c *fiber.Ctx) error {
	var input recipientStatusInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status")
	}
	if !models.ValidRecipientStatus(input.Status) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status")
	}

	recipient, err := rc.Recipients.UpdateStatus(c.Context(), c.Params("token"), input.Status)
	if err != nil {
		return err
	}
	if recipient == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Recipient not found")
	}
	return c.JSON(recipient)
}
