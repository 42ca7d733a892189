package models

import (
	"time"
)

// Store is the registry row for one storefront. The URL is the natural key:
// the import process upserts on it, and it must stay globally unique.
type Store struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name" gorm:"not null"`
	URL             string     `json:"url" gorm:"not null;uniqueIndex"`
	Platform        string     `json:"platform" gorm:"not null;index"`
	CreatedAt       time.Time  `json:"created_at"`
	NameOverride    *string    `json:"name_override,omitempty"`
	LastManualCheck *time.Time `json:"last_manual_check,omitempty"`
}

// DisplayName prefers the manual override over the scraped name.
func (s Store) DisplayName() string {
	if s.NameOverride != nil && *s.NameOverride != "" {
		return *s.NameOverride
	}
	return s.Name
}

// StatusCheck is one raw probe result. Rows are append-only; only the
// retention cleanup ever deletes them.
type StatusCheck struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	StoreID        uint      `json:"store_id" gorm:"not null;index"`
	Store          *Store    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	IsOnline       bool      `json:"is_online" gorm:"not null"`
	CheckedAt      time.Time `json:"checked_at" gorm:"not null;index"`
	ResponseTimeMs *int      `json:"response_time_ms,omitempty"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
}

// SummaryReport is an ad-hoc, point-in-time fleet snapshot. Coarser grain
// than the hourly rollups and kept separate from them.
type SummaryReport struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	TotalStores      int       `json:"total_stores" gorm:"not null"`
	OnlineStores     int       `json:"online_stores" gorm:"not null"`
	OfflineStores    int       `json:"offline_stores" gorm:"not null"`
	OnlinePercentage float64   `json:"online_percentage" gorm:"not null"`
	ReportTime       time.Time `json:"report_time" gorm:"not null;index"`
}

// StoreStatusHourly is the resolved status of one store for one hour bucket.
// At most one row per (platform, store_id, effective_at); re-running an hour
// overwrites in place.
type StoreStatusHourly struct {
	EffectiveAt time.Time `json:"effective_at" gorm:"primaryKey;index"`
	Platform    string    `json:"platform" gorm:"primaryKey"`
	StoreID     uint      `json:"store_id" gorm:"primaryKey"`
	Store       *Store    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Status      string    `json:"status" gorm:"not null"`
	Confidence  float64   `json:"confidence" gorm:"not null"`
	ResponseMs  *int      `json:"response_ms,omitempty"`
	Evidence    *string   `json:"evidence,omitempty"`
	ProbeTime   time.Time `json:"probe_time" gorm:"not null"`
	RunID       string    `json:"run_id" gorm:"not null"`
}

func (StoreStatusHourly) TableName() string { return "store_status_hourly" }

// StatusSummaryHourly is the fleet-wide rollup for one hour.
// Invariant: Total == Online+Offline+Blocked+Errors+Unknown.
type StatusSummaryHourly struct {
	EffectiveAt time.Time `json:"effective_at" gorm:"primaryKey"`
	Total       int       `json:"total" gorm:"not null"`
	Online      int       `json:"online" gorm:"not null"`
	Offline     int       `json:"offline" gorm:"not null"`
	Blocked     int       `json:"blocked" gorm:"not null"`
	Errors      int       `json:"errors" gorm:"not null"`
	Unknown     int       `json:"unknown" gorm:"not null"`
	LastProbeAt time.Time `json:"last_probe_at" gorm:"not null"`
}

func (StatusSummaryHourly) TableName() string { return "status_summary_hourly" }
