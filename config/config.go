package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort       string
	LogLevel         string
	RealEstateAPIKey string
	CommodityAPIKey  string

	IPOCacheTTL        time.Duration
	RealEstateCacheTTL time.Duration
	CommodityCacheTTL  time.Duration

	CrawlWindow CrawlWindow
}

// CrawlWindow is the sliding retention range for IPO listing rows. The
// source's two crawl entry points disagreed on the forward bound (45 vs 30
// days), so both bounds are configuration rather than constants.
type CrawlWindow struct {
	PastDays   int
	FutureDays int
}

// DefaultCrawlWindow returns the window used by the primary crawl entry point.
func DefaultCrawlWindow() CrawlWindow {
	return CrawlWindow{
		PastDays:   30,
		FutureDays: 45,
	}
}

// Bounds resolves the window against a reference time, usually time.Now().
func (w CrawlWindow) Bounds(now time.Time) (past, future time.Time) {
	past = now.AddDate(0, 0, -w.PastDays)
	future = now.AddDate(0, 0, w.FutureDays)
	return past, future
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	window := DefaultCrawlWindow()
	window.PastDays = getEnvInt("IPO_WINDOW_PAST_DAYS", window.PastDays)
	window.FutureDays = getEnvInt("IPO_WINDOW_FUTURE_DAYS", window.FutureDays)

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RealEstateAPIKey:   getEnv("REAL_ESTATE_API_KEY", ""),
		CommodityAPIKey:    getEnv("COMMODITY_API_KEY", ""),
		IPOCacheTTL:        getEnvMinutes("IPO_CACHE_TTL_MINUTES", 60),
		RealEstateCacheTTL: getEnvMinutes("REAL_ESTATE_CACHE_TTL_MINUTES", 60),
		CommodityCacheTTL:  getEnvMinutes("COMMODITY_CACHE_TTL_MINUTES", 10),
		CrawlWindow:        window,
	}
}

// ParseLogLevel maps the configured level to a logrus level, defaulting to
// info on unknown values.
func (c *Config) ParseLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", c.LogLevel)
		return logrus.InfoLevel
	}
	return level
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvMinutes(key string, fallbackMinutes int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMinutes)) * time.Minute
}
