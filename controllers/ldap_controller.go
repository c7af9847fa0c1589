package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"phishguard/directory"
	"phishguard/services"
	"phishguard/utils"
)

type LDAPController struct {
	Directory directory.Client
	Sync      *services.SyncService
	Logger    *log.Logger
}

func NewLDAPController(dir directory.Client, sync *services.SyncService, logger *log.Logger) *LDAPController {
	return &LDAPController{
		Directory: dir,
		Sync:      sync,
		Logger:    logger,
	}
}

// TestConnection binds against the directory and reports the outcome.
// The probe itself always answers 200; a failed bind is a result, not
// an error.
func (lc *LDAPController) TestConnection(c *fiber.Ctx) error {
	if err := lc.Directory.TestConnection(c.Context()); err != nil {
		lc.Logger.Printf("directory connection test failed: %v", err)
		return c.JSON(fiber.Map{
			"success": false,
			"message": "LDAP connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "LDAP connection successful",
	})
}

// GetUsers lists directory entries that carry a mail attribute.
// Directory failures propagate to the global error handler.
func (lc *LDAPController) GetUsers(c *fiber.Ctx) error {
	users, err := lc.Directory.ListUsers(c.Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []directory.User{}
	}
	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// SyncCampaign enrolls every directory user not already on the
// campaign's roster.
func (lc *LDAPController) SyncCampaign(c *fiber.Ctx) error {
	campaignID := c.Params("campaignId")
	if campaignID == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Campaign ID is required")
	}

	result, err := lc.Sync.SyncToCampaign(c.Context(), campaignID)
	if err != nil {
		lc.Logger.Printf("directory sync failed for campaign %s: %v", campaignID, err)
		return err
	}

	return c.JSON(result)
}
