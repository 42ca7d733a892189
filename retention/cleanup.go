// Package retention purges historical rows past the configured horizon.
package retention

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
)

// Counts reports exactly how many rows each table lost.
type Counts struct {
	DeletedProbes          int64 `json:"deleted_probes"`
	DeletedDailyReports    int64 `json:"deleted_daily_reports"`
	DeletedHourlySnapshots int64 `json:"deleted_hourly_snapshots"`
	DeletedHourlySummaries int64 `json:"deleted_hourly_summaries"`
}

// Cleanup deletes rows strictly older than now - daysToKeep days from the
// probe ledger, daily reports, hourly snapshots and hourly summaries. Each
// row's age is judged by its own timestamp column. All four deletions run in
// one transaction: on any failure nothing is applied, so the caller never
// sees partial counts presented as success.
//
// Deletes are bounded by timestamp comparison, which makes the call safe to
// run while aggregation writes recent hours: rows newer than the cutoff are
// never touched.
func Cleanup(db *gorm.DB, daysToKeep int) (Counts, error) {
	if daysToKeep < 0 {
		return Counts{}, fmt.Errorf("retention: daysToKeep must be >= 0, got %d", daysToKeep)
	}
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)
	return CleanupBefore(db, cutoff)
}

// CleanupBefore is Cleanup with an explicit cutoff, which also keeps the
// deletion window testable.
func CleanupBefore(db *gorm.DB, cutoff time.Time) (Counts, error) {
	var counts Counts
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("checked_at < ?", cutoff).Delete(&models.StatusCheck{})
		if res.Error != nil {
			return fmt.Errorf("probes: %w", res.Error)
		}
		counts.DeletedProbes = res.RowsAffected

		res = tx.Where("report_time < ?", cutoff).Delete(&models.SummaryReport{})
		if res.Error != nil {
			return fmt.Errorf("daily reports: %w", res.Error)
		}
		counts.DeletedDailyReports = res.RowsAffected

		res = tx.Where("effective_at < ?", cutoff).Delete(&models.StoreStatusHourly{})
		if res.Error != nil {
			return fmt.Errorf("hourly snapshots: %w", res.Error)
		}
		counts.DeletedHourlySnapshots = res.RowsAffected

		res = tx.Where("effective_at < ?", cutoff).Delete(&models.StatusSummaryHourly{})
		if res.Error != nil {
			return fmt.Errorf("hourly summaries: %w", res.Error)
		}
		counts.DeletedHourlySummaries = res.RowsAffected
		return nil
	})
	if err != nil {
		return Counts{}, fmt.Errorf("retention: cleanup before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return counts, nil
}
