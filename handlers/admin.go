package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/alerts"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/database"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/qa"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/retention"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/rollup"
)

// RunAggregation executes the hourly rollup for one hour. The external
// scheduler calls this once per hour; retried or duplicate calls are safe
// because the rollup upserts on the snapshot primary key.
func RunAggregation(c *gin.Context) {
	hour := time.Now().In(cfg.Location()).Truncate(time.Hour)
	if raw := c.Query("hour"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hour, want RFC3339"})
			return
		}
		hour = t.Truncate(time.Hour)
	}

	db := database.GetDB()
	runID := uuid.New()
	agg := rollup.NewAggregator(db, log)

	res, err := agg.AggregateHour(c.Request.Context(), hour, runID)
	if err != nil {
		if errors.Is(err, rollup.ErrSummaryInvariant) {
			// Internal bug signal, not a user error.
			log.Error("summary invariant violated", "hour", hour, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal: summary invariant violated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	notifyProblemStores(db, res.Snapshots)

	c.JSON(http.StatusOK, gin.H{
		"run_id":    runID.String(),
		"snapshots": len(res.Snapshots),
		"summary":   res.Summary,
	})
}

// notifyProblemStores emits the manual-verification signal for stores whose
// hourly status needs a human look. Silent stores (confidence 0) are skipped;
// staleness is the freshness check's job, not an alert per store.
func notifyProblemStores(db *gorm.DB, snaps []models.StoreStatusHourly) {
	var problemIDs []uint
	byID := map[uint]models.StoreStatusHourly{}
	for _, snap := range snaps {
		switch models.StatusClass(snap.Status) {
		case models.StatusBlocked, models.StatusError, models.StatusUnknown:
			if snap.Confidence > 0 {
				problemIDs = append(problemIDs, snap.StoreID)
				byID[snap.StoreID] = snap
			}
		}
	}
	if len(problemIDs) == 0 {
		return
	}

	var stores []models.Store
	if err := db.Where("id IN ?", problemIDs).Find(&stores).Error; err != nil {
		log.Error("load problem stores", "err", err)
		return
	}
	problems := make([]alerts.ProblemStore, 0, len(stores))
	for _, store := range stores {
		snap := byID[store.ID]
		evidence := ""
		if snap.Evidence != nil {
			evidence = *snap.Evidence
		}
		problems = append(problems, alerts.ProblemStore{
			StoreID:  store.ID,
			Name:     store.DisplayName(),
			URL:      store.URL,
			Platform: store.Platform,
			Status:   snap.Status,
			Evidence: evidence,
		})
	}
	notifier.NotifyProblemStores(problems)
}

// RunCleanup purges rows older than the retention horizon. Returns the four
// per-table counts; a failed run reports failure, never partial counts.
func RunCleanup(c *gin.Context) {
	days := cfg.RetentionDays
	if raw := c.Query("days"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		days = d
	}

	counts, err := retention.Cleanup(database.GetDB(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Info("retention cleanup finished",
		"days_to_keep", days,
		"probes", counts.DeletedProbes,
		"daily_reports", counts.DeletedDailyReports,
		"hourly_snapshots", counts.DeletedHourlySnapshots,
		"hourly_summaries", counts.DeletedHourlySummaries,
	)
	c.JSON(http.StatusOK, counts)
}

type nameOverrideRequest struct {
	Name  string `json:"name" binding:"required"`
	SetBy string `json:"set_by"`
}

// SetStoreName sets a manual display-name override and stamps the manual
// check time.
func SetStoreName(c *gin.Context) {
	storeID, err := strconv.Atoi(c.Param("id"))
	if err != nil || storeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}
	var req nameOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	db := database.GetDB()
	res := db.Model(&models.Store{}).
		Where("id = ?", storeID).
		Updates(map[string]interface{}{
			"name_override":     req.Name,
			"last_manual_check": time.Now(),
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		return
	}
	log.Info("store name override set", "store_id", storeID, "name", req.Name, "set_by", req.SetBy)
	c.JSON(http.StatusOK, gin.H{"store_id": storeID, "name_override": req.Name})
}

// Validate runs the consistency check battery and returns the full list.
func Validate(c *gin.Context) {
	v := qa.NewValidator(database.GetDB(), cfg.ExpectedStoreCount, cfg.GenericNameRegexp())
	c.JSON(http.StatusOK, v.Validate())
}

// Health is the liveness endpoint with a couple of fleet counters.
func Health(c *gin.Context) {
	db := database.GetDB()
	var stores, probes int64
	if err := db.Model(&models.Store{}).Count(&stores).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	if err := db.Model(&models.StatusCheck{}).Count(&probes).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "stores": stores, "probes": probes})
}
