// Package stats computes per-platform and per-store uptime statistics.
//
// Daily figures are evaluated against the reporting timezone's day
// boundaries, not UTC midnight, so they line up with the business day.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/status"
)

// PlatformStat is one platform's resolved-status breakdown for a day.
type PlatformStat struct {
	Platform  string  `json:"platform"`
	Total     int     `json:"total"`
	Online    int     `json:"online"`
	Offline   int     `json:"offline"`
	Blocked   int     `json:"blocked"`
	Errors    int     `json:"errors"`
	Unknown   int     `json:"unknown"`
	UptimePct float64 `json:"uptime_pct"`
}

// DailyUptime is a count-based uptime figure over every probe of one store
// for one day. Different granularity from PlatformStats, which only looks at
// each store's latest probe.
type DailyUptime struct {
	TotalChecks  int     `json:"total_checks"`
	OnlineChecks int     `json:"online_checks"`
	UptimePct    float64 `json:"uptime_pct"`
}

// PlatformStats resolves each store's latest probe within the given calendar
// day (in loc), classifies it, and groups the counts by platform. Stores not
// probed that day count as UNKNOWN. A platform with zero stores reports all
// zeros; nothing here ever divides by zero.
func PlatformStats(db *gorm.DB, date time.Time, loc *time.Location) ([]PlatformStat, error) {
	dayStart, dayEnd := dayBounds(date, loc)

	var stores []models.Store
	if err := db.Order("id").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("stats: load stores: %w", err)
	}
	latest, err := status.LatestInWindow(db, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("stats: resolve day: %w", err)
	}

	byPlatform := make(map[string]*PlatformStat, len(models.Platforms))
	for _, p := range models.Platforms {
		byPlatform[p] = &PlatformStat{Platform: p}
	}
	for _, store := range stores {
		ps, ok := byPlatform[store.Platform]
		if !ok {
			ps = &PlatformStat{Platform: store.Platform}
			byPlatform[store.Platform] = ps
		}
		ps.Total++

		cls := models.StatusUnknown
		if probe, ok := latest[store.ID]; ok {
			cls = models.ClassifyCheck(probe)
		}
		switch cls {
		case models.StatusOnline:
			ps.Online++
		case models.StatusOffline:
			ps.Offline++
		case models.StatusBlocked:
			ps.Blocked++
		case models.StatusError:
			ps.Errors++
		default:
			ps.Unknown++
		}
	}

	out := make([]PlatformStat, 0, len(byPlatform))
	for _, ps := range byPlatform {
		ps.UptimePct = round2(float64(ps.Online) / float64(max(ps.Total, 1)) * 100)
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out, nil
}

// StoreDailyUptime counts every probe of one store within the given day.
// Zero probes yields zeros, not an error.
func StoreDailyUptime(db *gorm.DB, storeID uint, date time.Time, loc *time.Location) (DailyUptime, error) {
	dayStart, dayEnd := dayBounds(date, loc)

	var probes []models.StatusCheck
	err := db.
		Where("store_id = ? AND checked_at >= ? AND checked_at < ?", storeID, dayStart, dayEnd).
		Find(&probes).Error
	if err != nil {
		return DailyUptime{}, fmt.Errorf("stats: load probes: %w", err)
	}

	up := DailyUptime{TotalChecks: len(probes)}
	for _, p := range probes {
		if p.IsOnline {
			up.OnlineChecks++
		}
	}
	up.UptimePct = round2(float64(up.OnlineChecks) / float64(max(up.TotalChecks, 1)) * 100)
	return up, nil
}

// BuildDailyReport snapshots the fleet's current latest statuses into a
// SummaryReport row. Online and offline count only those classes; stores
// under review (BLOCKED/ERROR/UNKNOWN) are in the total but in neither bucket.
func BuildDailyReport(db *gorm.DB, now time.Time) (models.SummaryReport, error) {
	var stores []models.Store
	if err := db.Find(&stores).Error; err != nil {
		return models.SummaryReport{}, fmt.Errorf("stats: load stores: %w", err)
	}
	latest, err := status.ResolveAll(db, now)
	if err != nil {
		return models.SummaryReport{}, fmt.Errorf("stats: resolve latest: %w", err)
	}

	report := models.SummaryReport{
		TotalStores: len(stores),
		ReportTime:  now,
	}
	for _, store := range stores {
		probe, ok := latest[store.ID]
		if !ok {
			continue
		}
		switch models.ClassifyCheck(probe) {
		case models.StatusOnline:
			report.OnlineStores++
		case models.StatusOffline:
			report.OfflineStores++
		}
	}
	report.OnlinePercentage = round2(float64(report.OnlineStores) / float64(max(report.TotalStores, 1)) * 100)

	if err := db.Create(&report).Error; err != nil {
		return models.SummaryReport{}, fmt.Errorf("stats: save report: %w", err)
	}
	return report, nil
}

func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
