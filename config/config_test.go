package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCrawlWindowBounds(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	past, future := DefaultCrawlWindow().Bounds(now)

	assert.Equal(t, time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC), past)
	assert.Equal(t, time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC), future)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.IPOCacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.CommodityCacheTTL)
	assert.Equal(t, 30, cfg.CrawlWindow.PastDays)
	assert.Equal(t, 45, cfg.CrawlWindow.FutureDays)
}

func TestLoadConfigWindowOverride(t *testing.T) {
	t.Setenv("IPO_WINDOW_PAST_DAYS", "7")
	t.Setenv("IPO_WINDOW_FUTURE_DAYS", "30")

	cfg := LoadConfig()
	assert.Equal(t, 7, cfg.CrawlWindow.PastDays)
	assert.Equal(t, 30, cfg.CrawlWindow.FutureDays)
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("IPO_CACHE_TTL_MINUTES", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, time.Hour, cfg.IPOCacheTTL)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, (&Config{LogLevel: "debug"}).ParseLogLevel())
	assert.Equal(t, logrus.WarnLevel, (&Config{LogLevel: "warn"}).ParseLogLevel())
	assert.Equal(t, logrus.InfoLevel, (&Config{LogLevel: "nonsense"}).ParseLogLevel())
}
