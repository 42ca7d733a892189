package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/database"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/stats"
)

// GetPlatformStats returns per-platform daily counts and uptime for the
// requested date (reporting timezone), defaulting to today.
func GetPlatformStats(c *gin.Context) {
	date, ok := parseDate(c, "date")
	if !ok {
		return
	}
	out, err := stats.PlatformStats(database.GetDB(), date, cfg.Location())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetStoreUptime returns a store's count-based uptime for one day.
func GetStoreUptime(c *gin.Context) {
	storeID, err := strconv.Atoi(c.Param("id"))
	if err != nil || storeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}
	date, ok := parseDate(c, "date")
	if !ok {
		return
	}
	up, err := stats.StoreDailyUptime(database.GetDB(), uint(storeID), date, cfg.Location())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, up)
}

// CreateDailyReport persists a point-in-time fleet summary report.
func CreateDailyReport(c *gin.Context) {
	report, err := stats.BuildDailyReport(database.GetDB(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Info("daily report saved",
		"total", report.TotalStores,
		"online", report.OnlineStores,
		"offline", report.OfflineStores,
		"online_pct", report.OnlinePercentage,
	)
	c.JSON(http.StatusCreated, report)
}
