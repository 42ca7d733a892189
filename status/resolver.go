// Package status derives "latest status" from the append-only probe ledger.
//
// The latest probe per store is the row with the maximum checked_at; exact
// timestamp ties break by highest id, so the most recently inserted probe
// wins. Concurrent probing workers can share a timestamp under coarse clocks,
// which is why the tie-break has to be deterministic. The per-key pick is done
// with an ordered scan in Go rather than a database-specific DISTINCT ON, so
// it behaves identically on SQLite and Postgres.
package status

import (
	"time"

	"gorm.io/gorm"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
)

// Resolve returns the latest probe for one store, or nil if the store has
// never been probed. Callers must treat nil as UNKNOWN, not OFFLINE.
func Resolve(db *gorm.DB, storeID uint) (*models.StatusCheck, error) {
	var rows []models.StatusCheck
	err := db.
		Where("store_id = ?", storeID).
		Order("checked_at DESC, id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ResolveAll returns the latest probe per store considering only probes with
// checked_at <= asOf, which supports historical re-derivation.
func ResolveAll(db *gorm.DB, asOf time.Time) (map[uint]models.StatusCheck, error) {
	var rows []models.StatusCheck
	err := db.
		Where("checked_at <= ?", asOf).
		Order("checked_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return firstPerStore(rows), nil
}

// LatestInWindow returns the latest probe per store with checked_at in
// [start, end). Stores silent during the window are simply absent.
func LatestInWindow(db *gorm.DB, start, end time.Time) (map[uint]models.StatusCheck, error) {
	var rows []models.StatusCheck
	err := db.
		Where("checked_at >= ? AND checked_at < ?", start, end).
		Order("checked_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return firstPerStore(rows), nil
}

// AllInWindow returns every probe per store with checked_at in [start, end),
// newest first within each store.
func AllInWindow(db *gorm.DB, start, end time.Time) (map[uint][]models.StatusCheck, error) {
	var rows []models.StatusCheck
	err := db.
		Where("checked_at >= ? AND checked_at < ?", start, end).
		Order("checked_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint][]models.StatusCheck)
	for _, row := range rows {
		out[row.StoreID] = append(out[row.StoreID], row)
	}
	return out, nil
}

// firstPerStore keeps the first row seen per store. Input must already be
// ordered by checked_at DESC, id DESC.
func firstPerStore(rows []models.StatusCheck) map[uint]models.StatusCheck {
	out := make(map[uint]models.StatusCheck, len(rows))
	for _, row := range rows {
		if _, seen := out[row.StoreID]; !seen {
			out[row.StoreID] = row
		}
	}
	return out
}
