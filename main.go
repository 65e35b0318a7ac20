package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	"github.com/kfinlab/ipo-calendar-backend/config"
	"github.com/kfinlab/ipo-calendar-backend/handlers"
	"github.com/kfinlab/ipo-calendar-backend/jobs"
	"github.com/kfinlab/ipo-calendar-backend/services"
	"github.com/kfinlab/ipo-calendar-backend/shared"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	logrus.SetLevel(cfg.ParseLogLevel())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	httpClients := shared.NewHTTPClientFactory(10 * time.Second)
	defer httpClients.CleanupAllClients()

	clock := services.SystemClock()

	// Crawl and fetch services
	fetcher := services.NewListingPageFetcher()
	enricher := services.NewMarketEnricher(nil, httpClients)
	crawler := services.NewIPOCrawler(fetcher, enricher, cfg.CrawlWindow, clock)

	realEstateConfig := services.NewDefaultRealEstateConfiguration(cfg.RealEstateAPIKey)
	realEstateService := services.NewRealEstateService(realEstateConfig, httpClients, clock)

	commodityConfig := services.NewDefaultCommodityConfiguration(cfg.CommodityAPIKey)
	commodityService := services.NewCommodityService(commodityConfig, httpClients, clock)

	// Shared snapshot cache across all data sources
	cache := services.NewSnapshotCache(clock, cfg.IPOCacheTTL)

	// Handlers
	ipoHandler := handlers.NewIPOHandler(crawler, cache, clock)
	realEstateHandler := handlers.NewRealEstateHandler(realEstateService, cache, clock, cfg.RealEstateCacheTTL)
	commodityHandler := handlers.NewCommodityHandler(commodityService, cache, clock, cfg.CommodityCacheTTL)

	// Keep the IPO snapshot warm in the background
	refreshJob := jobs.NewSnapshotRefreshJob(crawler, cache, cfg.IPOCacheTTL)
	if err := refreshJob.Start(); err != nil {
		logrus.WithError(err).Fatal("Failed to start snapshot refresh job")
	}
	defer refreshJob.Stop()

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Routes
	api := app.Group("/api/v1")
	api.Get("/ipo", ipoHandler.GetIPOCalendar)
	api.Get("/real-estate", realEstateHandler.GetSubscriptions)
	api.Get("/commodities", commodityHandler.GetPrices)

	// Start server
	logrus.WithField("port", cfg.ServerPort).Info("Server starting")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.WithError(err).Fatal("Server failed to start")
	}
}
