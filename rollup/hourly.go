// Package rollup turns raw probes into hourly per-store snapshots and a
// fleet-wide summary row, idempotently.
package rollup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/logger"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/status"
)

// ErrSummaryInvariant means a computed fleet summary failed its sum check.
// This is an internal bug signal; the run aborts and nothing is persisted.
var ErrSummaryInvariant = errors.New("rollup: summary counts do not sum to total")

type Aggregator struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAggregator(db *gorm.DB, log *logger.Logger) *Aggregator {
	return &Aggregator{db: db, log: log.With("component", "rollup")}
}

// Result is one completed hourly aggregation pass.
type Result struct {
	Snapshots []models.StoreStatusHourly `json:"snapshots"`
	Summary   models.StatusSummaryHourly `json:"summary"`
}

// AggregateHour computes one snapshot per store for the hour starting at
// hourStart and the matching fleet summary, then writes both in a single
// transaction. Re-running the same hour with a new runID overwrites the
// previous rows in place; other hours are never touched.
//
// Only probes with checked_at inside [hourStart, hourStart+1h) contribute.
// A store silent during the hour is recorded as UNKNOWN with confidence 0
// rather than carrying a stale status forward.
func (a *Aggregator) AggregateHour(ctx context.Context, hourStart time.Time, runID uuid.UUID) (*Result, error) {
	hourStart = hourStart.Truncate(time.Hour)
	hourEnd := hourStart.Add(time.Hour)

	var stores []models.Store
	if err := a.db.WithContext(ctx).Order("id").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("rollup: load stores: %w", err)
	}

	probesByStore, err := status.AllInWindow(a.db.WithContext(ctx), hourStart, hourEnd)
	if err != nil {
		return nil, fmt.Errorf("rollup: load probes: %w", err)
	}

	snapshots := make([]models.StoreStatusHourly, 0, len(stores))
	lastProbeAt := hourStart
	for _, store := range stores {
		snap := buildSnapshot(store, probesByStore[store.ID], hourStart, runID)
		if snap.ProbeTime.After(lastProbeAt) {
			lastProbeAt = snap.ProbeTime
		}
		snapshots = append(snapshots, snap)
	}

	summary, err := summarize(snapshots, hourStart, lastProbeAt)
	if err != nil {
		return nil, err
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(snapshots) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "platform"}, {Name: "store_id"}, {Name: "effective_at"},
				},
				DoUpdates: clause.AssignmentColumns([]string{
					"status", "confidence", "response_ms", "evidence", "probe_time", "run_id",
				}),
			}).Create(&snapshots).Error
			if err != nil {
				return fmt.Errorf("upsert snapshots: %w", err)
			}
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "effective_at"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total", "online", "offline", "blocked", "errors", "unknown", "last_probe_at",
			}),
		}).Create(&summary).Error
		if err != nil {
			return fmt.Errorf("upsert summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rollup: write hour %s: %w", hourStart.Format(time.RFC3339), err)
	}

	a.log.Info("hourly rollup complete",
		"effective_at", hourStart,
		"run_id", runID.String(),
		"stores", summary.Total,
		"online", summary.Online,
		"offline", summary.Offline,
		"blocked", summary.Blocked,
		"errors", summary.Errors,
		"unknown", summary.Unknown,
	)
	return &Result{Snapshots: snapshots, Summary: summary}, nil
}

// buildSnapshot resolves one store for the hour. probes are newest first.
func buildSnapshot(store models.Store, probes []models.StatusCheck, hourStart time.Time, runID uuid.UUID) models.StoreStatusHourly {
	snap := models.StoreStatusHourly{
		EffectiveAt: hourStart,
		Platform:    store.Platform,
		StoreID:     store.ID,
		Status:      string(models.StatusUnknown),
		Confidence:  0,
		ProbeTime:   hourStart,
		RunID:       runID.String(),
	}
	if len(probes) == 0 {
		return snap
	}

	chosen := probes[0]
	chosenClass := models.ClassifyCheck(chosen)

	// Confidence is probe agreement within the hour: the fraction of
	// in-window probes whose class matches the chosen status. A lone probe
	// yields 1.0.
	agree := 0
	for _, p := range probes {
		if models.ClassifyCheck(p) == chosenClass {
			agree++
		}
	}

	snap.Status = string(chosenClass)
	snap.Confidence = float64(agree) / float64(len(probes))
	snap.ResponseMs = chosen.ResponseTimeMs
	snap.Evidence = chosen.ErrorMessage
	snap.ProbeTime = chosen.CheckedAt
	return snap
}

func summarize(snapshots []models.StoreStatusHourly, hourStart, lastProbeAt time.Time) (models.StatusSummaryHourly, error) {
	s := models.StatusSummaryHourly{
		EffectiveAt: hourStart,
		Total:       len(snapshots),
		LastProbeAt: lastProbeAt,
	}
	for _, snap := range snapshots {
		switch models.StatusClass(snap.Status) {
		case models.StatusOnline:
			s.Online++
		case models.StatusOffline:
			s.Offline++
		case models.StatusBlocked:
			s.Blocked++
		case models.StatusError:
			s.Errors++
		default:
			s.Unknown++
		}
	}
	if sum := s.Online + s.Offline + s.Blocked + s.Errors + s.Unknown; sum != s.Total {
		return models.StatusSummaryHourly{}, fmt.Errorf("%w: total=%d sum=%d at %s",
			ErrSummaryInvariant, s.Total, sum, hourStart.Format(time.RFC3339))
	}
	return s, nil
}
