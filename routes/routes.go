package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"phishguard/config"
	controller "phishguard/controllers"
	"phishguard/directory"
	"phishguard/middleware"
	"phishguard/services"
	"phishguard/store"
)

// Setup wires every HTTP route against the given store and directory
// client.
func Setup(app *fiber.App, s store.Store, dir directory.Client) {
	campaignService := services.NewCampaignService(s)
	recipientService := services.NewRecipientService(s)
	eventService := services.NewEventService(s)
	dashboardService := services.NewDashboardService(s)
	syncService := services.NewSyncService(s, dir)

	campaignController := controller.NewCampaignController(campaignService, eventService, log.New(os.Stdout, "CAMPAIGN: ", log.LstdFlags))
	recipientController := controller.NewRecipientController(recipientService, log.New(os.Stdout, "RECIPIENT: ", log.LstdFlags))
	eventController := controller.NewEventController(eventService, log.New(os.Stdout, "EVENT: ", log.LstdFlags))
	templateController := controller.NewTemplateController(s, log.New(os.Stdout, "TEMPLATE: ", log.LstdFlags))
	landingPageController := controller.NewLandingPageController(s, log.New(os.Stdout, "LANDING: ", log.LstdFlags))
	dashboardController := controller.NewDashboardController(dashboardService, log.New(os.Stdout, "DASHBOARD: ", log.LstdFlags))
	ldapController := controller.NewLDAPController(dir, syncService, log.New(os.Stdout, "LDAP: ", log.LstdFlags))

	// Liveness plus storage reachability
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := s.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"ok":       false,
				"database": "unreachable",
			})
		}
		return c.JSON(fiber.Map{
			"ok":       true,
			"database": config.AppConfig.StoreDriver,
		})
	})

	requestLogger := logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	})

	// Campaign routes
	campaigns := app.Group("/campaigns", requestLogger)
	campaigns.Get("/", campaignController.GetCampaigns)
	campaigns.Post("/", campaignController.CreateCampaign)
	campaigns.Get("/:id", campaignController.GetCampaign)
	campaigns.Put("/:id", campaignController.UpdateCampaign)
	campaigns.Delete("/:id", campaignController.DeleteCampaign)

	// Lifecycle transitions
	campaigns.Post("/:id/start", campaignController.StartCampaign)
	campaigns.Post("/:id/pause", campaignController.PauseCampaign)
	campaigns.Post("/:id/resume", campaignController.ResumeCampaign)
	campaigns.Post("/:id/complete", campaignController.CompleteCampaign)

	// Roster
	campaigns.Get("/:id/recipients", recipientController.GetRecipients)
	campaigns.Post("/:id/recipients", recipientController.AddRecipient)
	campaigns.Post("/:id/recipients/bulk", recipientController.AddRecipientsBulk)
	campaigns.Get("/:id/events", eventController.GetCampaignEvents)

	// Recipient routes keyed by id or tracking token
	recipients := app.Group("/recipients", requestLogger)
	recipients.Delete("/:id", recipientController.DeleteRecipient)
	recipients.Get("/token/:token", recipientController.GetRecipientByToken)
	recipients.Patch("/token/:token/status", recipientController.UpdateRecipientStatus)

	// Template and landing page CRUD
	templates := app.Group("/templates", requestLogger)
	templates.Get("/", templateController.GetTemplates)
	templates.Post("/", templateController.CreateTemplate)
	templates.Get("/:id", templateController.GetTemplate)
	templates.Put("/:id", templateController.UpdateTemplate)
	templates.Delete("/:id", templateController.DeleteTemplate)

	landingPages := app.Group("/landing-pages", requestLogger)
	landingPages.Get("/", landingPageController.GetLandingPages)
	landingPages.Post("/", landingPageController.CreateLandingPage)
	landingPages.Get("/:id", landingPageController.GetLandingPage)
	landingPages.Put("/:id", landingPageController.UpdateLandingPage)
	landingPages.Delete("/:id", landingPageController.DeleteLandingPage)

	// Public tracking surface, rate limited by client IP
	app.Post("/events", middleware.TrackingRateLimiter(), eventController.RecordEvent)

	// Dashboard rollup
	app.Get("/dashboard/stats", requestLogger, dashboardController.GetStats)

	// Directory integration
	ldap := app.Group("/ldap", requestLogger)
	ldap.Get("/test", ldapController.TestConnection)
	ldap.Get("/users", ldapController.GetUsers)
	ldap.Post("/sync/:campaignId", ldapController.SyncCampaign)
	ldap.Post("/sync", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Campaign ID is required",
		})
	})

	// Everything else is a 404
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	})
}
