package status

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/database"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
)

func seedStore(t *testing.T, db *gorm.DB, name, url string) models.Store {
	t.Helper()
	s := models.Store{Name: name, URL: url, Platform: models.PlatformFromURL(url)}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return s
}

func seedCheck(t *testing.T, db *gorm.DB, storeID uint, online bool, at time.Time) models.StatusCheck {
	t.Helper()
	sc := models.StatusCheck{StoreID: storeID, IsOnline: online, CheckedAt: at}
	if err := db.Create(&sc).Error; err != nil {
		t.Fatalf("seed check: %v", err)
	}
	return sc
}

func TestResolveReturnsLatestProbe(t *testing.T) {
	db := database.OpenTest(t)
	store := seedStore(t, db, "Cocopan Makati", "https://food.grab.com/ph/en/restaurant/cocopan-makati-delivery")

	base := time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC)
	seedCheck(t, db, store.ID, true, base)
	seedCheck(t, db, store.ID, false, base.Add(20*time.Minute))
	latest := seedCheck(t, db, store.ID, true, base.Add(50*time.Minute))

	got, err := Resolve(db, store.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.ID != latest.ID {
		t.Fatalf("Resolve: got %+v, want id %d", got, latest.ID)
	}
}

func TestResolveTieBreaksByHighestID(t *testing.T) {
	db := database.OpenTest(t)
	store := seedStore(t, db, "Cocopan QC", "https://www.foodpanda.ph/restaurant/abc1/cocopan-qc")

	at := time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC)
	seedCheck(t, db, store.ID, true, at)
	second := seedCheck(t, db, store.ID, false, at)

	got, err := Resolve(db, store.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.ID != second.ID {
		t.Fatalf("tie-break: got id %v, want %d (most recently inserted)", got, second.ID)
	}
	if got.IsOnline {
		t.Fatalf("tie-break picked the wrong row")
	}
}

func TestResolveNoProbesReturnsNil(t *testing.T) {
	db := database.OpenTest(t)
	store := seedStore(t, db, "Cocopan BGC", "https://www.foodpanda.ph/restaurant/abc2/cocopan-bgc")

	got, err := Resolve(db, store.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for store with zero probes, got %+v", got)
	}
}

func TestResolveAllHonorsAsOf(t *testing.T) {
	db := database.OpenTest(t)
	a := seedStore(t, db, "Cocopan A", "https://www.foodpanda.ph/restaurant/aaa1/cocopan-a")
	b := seedStore(t, db, "Cocopan B", "https://food.grab.com/ph/en/restaurant/cocopan-b-delivery")

	base := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	early := seedCheck(t, db, a.ID, false, base)
	seedCheck(t, db, a.ID, true, base.Add(2*time.Hour))
	seedCheck(t, db, b.ID, true, base.Add(3*time.Hour))

	got, err := ResolveAll(db, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ResolveAll: got %d stores, want 1", len(got))
	}
	if got[a.ID].ID != early.ID {
		t.Fatalf("ResolveAll picked probe after asOf")
	}
}

func TestLatestInWindowIsHalfOpen(t *testing.T) {
	db := database.OpenTest(t)
	store := seedStore(t, db, "Cocopan C", "https://www.foodpanda.ph/restaurant/ccc1/cocopan-c")

	hour := time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC)
	seedCheck(t, db, store.ID, false, hour.Add(-time.Second))
	inWindow := seedCheck(t, db, store.ID, true, hour.Add(59*time.Minute))
	seedCheck(t, db, store.ID, false, hour.Add(time.Hour))

	got, err := LatestInWindow(db, hour, hour.Add(time.Hour))
	if err != nil {
		t.Fatalf("LatestInWindow: %v", err)
	}
	if got[store.ID].ID != inWindow.ID {
		t.Fatalf("window selection wrong: got id %d, want %d", got[store.ID].ID, inWindow.ID)
	}
}
