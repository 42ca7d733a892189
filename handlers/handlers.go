package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/alerts"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/config"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/logger"
)

var (
	cfg      *config.Config
	log      *logger.Logger
	notifier alerts.Notifier
)

// Init wires the shared dependencies before routes are registered.
func Init(c *config.Config, l *logger.Logger, n alerts.Notifier) {
	cfg = c
	log = l
	notifier = n
}

// parseDate reads a YYYY-MM-DD query param in the reporting timezone,
// defaulting to today.
func parseDate(c *gin.Context, param string) (time.Time, bool) {
	loc := cfg.Location()
	raw := c.Query(param)
	if raw == "" {
		return time.Now().In(loc), true
	}
	d, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid " + param + ", want YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

// parseTimeRange reads from/to RFC3339 query params, defaulting to the last
// 24 hours.
func parseTimeRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from, to := now.Add(-24*time.Hour), now

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid from, want RFC3339"})
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid to, want RFC3339"})
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	return from, to, true
}
