package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/database"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/status"
)

// StoreStatusView is one store's latest resolved status for the dashboard.
type StoreStatusView struct {
	StoreID        uint       `json:"store_id"`
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	Platform       string     `json:"platform"`
	Status         string     `json:"status"`
	CheckedAt      *time.Time `json:"checked_at,omitempty"`
	ResponseTimeMs *int       `json:"response_time_ms,omitempty"`
}

// GetLatestStatus returns the latest resolved status of every store. Stores
// that have never been probed render as UNKNOWN, never as an error.
func GetLatestStatus(c *gin.Context) {
	db := database.GetDB()

	var stores []models.Store
	if err := db.Order("name").Find(&stores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	latest, err := status.ResolveAll(db, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]StoreStatusView, 0, len(stores))
	for _, store := range stores {
		view := StoreStatusView{
			StoreID:  store.ID,
			Name:     store.DisplayName(),
			URL:      store.URL,
			Platform: store.Platform,
			Status:   string(models.StatusUnknown),
		}
		if probe, ok := latest[store.ID]; ok {
			view.Status = string(models.ClassifyCheck(probe))
			checkedAt := probe.CheckedAt
			view.CheckedAt = &checkedAt
			view.ResponseTimeMs = probe.ResponseTimeMs
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// GetHourlySnapshots returns snapshot rows in a time range.
func GetHourlySnapshots(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}
	db := database.GetDB()

	var snaps []models.StoreStatusHourly
	err := db.
		Where("effective_at >= ? AND effective_at < ?", from, to).
		Order("effective_at, platform, store_id").
		Find(&snaps).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snaps)
}

// GetHourlySummaries returns fleet summary rows in a time range.
func GetHourlySummaries(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}
	db := database.GetDB()

	var summaries []models.StatusSummaryHourly
	err := db.
		Where("effective_at >= ? AND effective_at < ?", from, to).
		Order("effective_at").
		Find(&summaries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetAttention lists stores whose latest probe today classifies as
// BLOCKED, ERROR or UNKNOWN, for the admin's manual-review queue.
func GetAttention(c *gin.Context) {
	db := database.GetDB()
	loc := cfg.Location()
	now := time.Now().In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	latest, err := status.LatestInWindow(db, dayStart, now.Add(time.Second))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var stores []models.Store
	if err := db.Find(&stores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]StoreStatusView, 0)
	for _, store := range stores {
		probe, ok := latest[store.ID]
		if !ok {
			continue
		}
		cls := models.ClassifyCheck(probe)
		if cls != models.StatusBlocked && cls != models.StatusError && cls != models.StatusUnknown {
			continue
		}
		checkedAt := probe.CheckedAt
		views = append(views, StoreStatusView{
			StoreID:        store.ID,
			Name:           store.DisplayName(),
			URL:            store.URL,
			Platform:       store.Platform,
			Status:         string(cls),
			CheckedAt:      &checkedAt,
			ResponseTimeMs: probe.ResponseTimeMs,
		})
	}
	c.JSON(http.StatusOK, views)
}
