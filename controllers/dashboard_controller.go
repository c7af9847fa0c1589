package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"phishguard/services"
)

type DashboardController struct {
	Dashboard *services.DashboardService
	Logger    *log.Logger
}

func NewDashboardController(dashboard *services.DashboardService, logger *log.Logger) *DashboardController {
	return &DashboardController{
		Dashboard: dashboard,
		Logger:    logger,
	}
}

// GetStats returns aggregate counts across every campaign.
func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	stats, err := dc.Dashboard.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
