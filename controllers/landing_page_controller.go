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

type LandingPageController struct {
	Store  store.Store
	Logger *log.Logger
}

func NewLandingPageController(s store.Store, logger *log.Logger) *LandingPageController {
	return &LandingPageController{
		Store:  s,
		Logger: logger,
	}
}

type createLandingPageInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	HTML      string `json:"html"`
	IsDefault bool   `json:"isDefault"`
}

type updateLandingPageInput struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	HTML      *string `json:"html"`
	IsDefault *bool   `json:"isDefault"`
}

func (lc *LandingPageController) GetLandingPages(c *fiber.Ctx) error {
	pages, err := lc.Store.ListLandingPages(c.Context())
	if err != nil {
		return err
	}
	if pages == nil {
		pages = []models.LandingPage{}
	}
	return c.JSON(pages)
}

func (lc *LandingPageController) GetLandingPage(c *fiber.Ctx) error {
	page, err := lc.Store.GetLandingPage(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if page == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Landing page not found")
	}
	return c.JSON(page)
}

func (lc *LandingPageController) CreateLandingPage(c *fiber.Ctx) error {
	var input createLandingPageInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := utils.ValidateStruct(input); err != nil {
		lc.Logger.Printf("create landing page rejected: %v", err)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	now := time.Now().UTC()
	page := &models.LandingPage{
		ID:        utils.NewID(),
		Name:      input.Name,
		HTML:      input.HTML,
		IsDefault: input.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := lc.Store.CreateLandingPage(c.Context(), page); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(page)
}

func (lc *LandingPageController) UpdateLandingPage(c *fiber.Ctx) error {
	var input updateLandingPageInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	page, err := lc.Store.UpdateLandingPage(c.Context(), c.Params("id"), models.LandingPagePatch{
		Name:      trimPtr(input.Name),
		HTML:      input.HTML,
		IsDefault: input.IsDefault,
	})
	if err != nil {
		return err
	}
	if page == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Landing page not found")
	}
	return c.JSON(page)
}

func (lc *LandingPageController) DeleteLandingPage(c *fiber.Ctx) error {
	deleted, err := lc.Store.DeleteLandingPage(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Landing page not found")
	}
	return utils.SuccessResponse(c)
}
