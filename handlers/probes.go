package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/database"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
)

const maxErrorMessageLen = 500

type probeRequest struct {
	StoreID        uint       `json:"store_id" binding:"required"`
	IsOnline       *bool      `json:"is_online" binding:"required"`
	ResponseTimeMs *int       `json:"response_time_ms"`
	ErrorMessage   *string    `json:"error_message"`
	CheckedAt      *time.Time `json:"checked_at"`
}

// CreateProbe appends one probe result to the ledger. This is the sink the
// external probing workers write into; rows are never updated afterwards.
func CreateProbe(c *gin.Context) {
	var req probeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ResponseTimeMs != nil && *req.ResponseTimeMs < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response_time_ms must be >= 0"})
		return
	}

	db := database.GetDB()

	var store models.Store
	if err := db.First(&store, req.StoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	checkedAt := time.Now()
	if req.CheckedAt != nil {
		checkedAt = *req.CheckedAt
	}
	msg := req.ErrorMessage
	if msg != nil && len(*msg) > maxErrorMessageLen {
		truncated := (*msg)[:maxErrorMessageLen] + "..."
		msg = &truncated
	}

	probe := models.StatusCheck{
		StoreID:        store.ID,
		IsOnline:       *req.IsOnline,
		CheckedAt:      checkedAt,
		ResponseTimeMs: req.ResponseTimeMs,
		ErrorMessage:   msg,
	}
	if err := db.Create(&probe).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, probe)
}

type importStore struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

// ImportStores upserts stores keyed on URL. Existing stores are left alone;
// the URL is the natural key, so re-importing the same list is a no-op.
func ImportStores(c *gin.Context) {
	var req []importStore
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	db := database.GetDB()
	created, existing := 0, 0
	for _, in := range req {
		var store models.Store
		err := db.Where("url = ?", in.URL).First(&store).Error
		switch {
		case err == nil:
			existing++
		case errors.Is(err, gorm.ErrRecordNotFound):
			store = models.Store{
				Name:     in.Name,
				URL:      in.URL,
				Platform: models.PlatformFromURL(in.URL),
			}
			if err := db.Create(&store).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			created++
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	log.Info("store import finished", "created", created, "existing", existing)
	c.JSON(http.StatusOK, gin.H{"created": created, "existing": existing})
}
