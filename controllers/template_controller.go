package controller

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"phishguard/models"
	"phishguard/store"
	"phishguard/utils"
)

type TemplateController struct {
	Store  store.Store
	Logger *log.Logger
}

func NewTemplateController(s store.Store, logger *log.Logger) *TemplateController {
	return &TemplateController{
		Store:  s,
		Logger: logger,
	}
}

type createTemplateInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	IsDefault bool   `json:"isDefault"`
}

type updateTemplateInput struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	Subject   *string `json:"subject"`
	Body      *string `json:"body"`
	IsDefault *bool   `json:"isDefault"`
}

func (tc *TemplateController) GetTemplates(c *fiber.Ctx) error {
	templates, err := tc.Store.ListTemplates(c.Context())
	if err != nil {
		return err
	}
	if templates == nil {
		templates = []models.EmailTemplate{}
	}
	return c.JSON(templates)
}

func (tc *TemplateController) GetTemplate(c *fiber.Ctx) error {
	template, err := tc.Store.GetTemplate(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if template == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found")
	}
	return c.JSON(template)
}

func (tc *TemplateController) CreateTemplate(c *fiber.Ctx) error {
	var input createTemplateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := utils.ValidateStruct(input); err != nil {
		tc.Logger.Printf("create template rejected: %v", err)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	now := time.Now().UTC()
	template := &models.EmailTemplate{
		ID:        utils.NewID(),
		Name:      input.Name,
		Subject:   input.Subject,
		Body:      input.Body,
		IsDefault: input.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tc.Store.CreateTemplate(c.Context(), template); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(template)
}

func (tc *TemplateController) UpdateTemplate(c *fiber.Ctx) error {
	var input updateTemplateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	template, err := tc.Store.UpdateTemplate(c.Context(), c.Params("id"), models.TemplatePatch{
		Name:      trimPtr(input.Name),
		Subject:   input.Subject,
		Body:      input.Body,
		IsDefault: input.IsDefault,
	})
	if err != nil {
		return err
	}
	if template == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found")
	}
	return c.JSON(template)
}

func (tc *TemplateController) DeleteTemplate(c *fiber.Ctx) error {
	deleted, err := tc.Store.DeleteTemplate(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found")
	}
	return utils.SuccessResponse(c)
}
