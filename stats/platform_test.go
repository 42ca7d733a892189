package stats

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

func seedProbe(t *testing.T, db *gorm.DB, storeID uint, online bool, at time.Time, msg string) {
	t.Helper()
	sc := models.StatusCheck{StoreID: storeID, IsOnline: online, CheckedAt: at}
	if msg != "" {
		sc.ErrorMessage = &msg
	}
	if err := db.Create(&sc).Error; err != nil {
		t.Fatalf("seed probe: %v", err)
	}
}

func TestPlatformStatsGroupsByPlatform(t *testing.T) {
	db := database.OpenTest(t)
	loc := time.UTC
	day := time.Date(2025, 8, 10, 0, 0, 0, 0, loc)

	fp1 := seedStore(t, db, "Cocopan A", "https://www.foodpanda.ph/restaurant/a1/cocopan-a")
	fp2 := seedStore(t, db, "Cocopan B", "https://www.foodpanda.ph/restaurant/b1/cocopan-b")
	gf := seedStore(t, db, "Cocopan C", "https://food.grab.com/ph/en/restaurant/cocopan-c-delivery")

	seedProbe(t, db, fp1.ID, true, day.Add(9*time.Hour), "")
	seedProbe(t, db, fp2.ID, false, day.Add(10*time.Hour), "[BLOCKED] captcha")
	seedProbe(t, db, gf.ID, true, day.Add(11*time.Hour), "")

	stats, err := PlatformStats(db, day, loc)
	if err != nil {
		t.Fatalf("PlatformStats: %v", err)
	}
	byPlatform := map[string]PlatformStat{}
	for _, s := range stats {
		byPlatform[s.Platform] = s
	}

	fp := byPlatform[models.PlatformFoodpanda]
	if fp.Total != 2 || fp.Online != 1 || fp.Blocked != 1 {
		t.Fatalf("foodpanda: %+v", fp)
	}
	if fp.UptimePct != 50.0 {
		t.Fatalf("foodpanda uptime: got %v, want 50", fp.UptimePct)
	}
	grab := byPlatform[models.PlatformGrabfood]
	if grab.Total != 1 || grab.Online != 1 || grab.UptimePct != 100.0 {
		t.Fatalf("grabfood: %+v", grab)
	}
}

func TestPlatformStatsEmptyPlatformIsZeroNotError(t *testing.T) {
	db := database.OpenTest(t)

	stats, err := PlatformStats(db, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("PlatformStats on empty fleet: %v", err)
	}
	for _, s := range stats {
		if s.UptimePct != 0 || s.Total != 0 {
			t.Fatalf("empty platform %s: %+v, want zeros", s.Platform, s)
		}
	}
}

func TestPlatformStatsUsesLocalDayBoundaries(t *testing.T) {
	db := database.OpenTest(t)
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	store := seedStore(t, db, "Cocopan A", "https://www.foodpanda.ph/restaurant/a2/cocopan-a")
	// 23:00 UTC Aug 9 is 07:00 Aug 10 in Manila: inside the Manila day.
	seedProbe(t, db, store.ID, true, time.Date(2025, 8, 9, 23, 0, 0, 0, time.UTC), "")

	day := time.Date(2025, 8, 10, 0, 0, 0, 0, loc)
	stats, err := PlatformStats(db, day, loc)
	if err != nil {
		t.Fatalf("PlatformStats: %v", err)
	}
	for _, s := range stats {
		if s.Platform == models.PlatformFoodpanda {
			if s.Online != 1 {
				t.Fatalf("Manila day boundary missed the probe: %+v", s)
			}
			return
		}
	}
	t.Fatalf("foodpanda row missing")
}

func TestStoreDailyUptimeCountsAllProbes(t *testing.T) {
	db := database.OpenTest(t)
	day := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	store := seedStore(t, db, "Cocopan A", "https://www.foodpanda.ph/restaurant/a3/cocopan-a")

	seedProbe(t, db, store.ID, true, day.Add(8*time.Hour), "")
	seedProbe(t, db, store.ID, false, day.Add(12*time.Hour), "")
	seedProbe(t, db, store.ID, true, day.Add(16*time.Hour), "")

	up, err := StoreDailyUptime(db, store.ID, day, time.UTC)
	if err != nil {
		t.Fatalf("StoreDailyUptime: %v", err)
	}
	if up.TotalChecks != 3 || up.OnlineChecks != 2 {
		t.Fatalf("counts: %+v", up)
	}
	if up.UptimePct != 66.67 {
		t.Fatalf("uptime: got %v, want 66.67", up.UptimePct)
	}
}

func TestStoreDailyUptimeNoProbesYieldsZeros(t *testing.T) {
	db := database.OpenTest(t)
	store := seedStore(t, db, "Cocopan A", "https://www.foodpanda.ph/restaurant/a4/cocopan-a")

	up, err := StoreDailyUptime(db, store.ID, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("StoreDailyUptime: %v", err)
	}
	if up.TotalChecks != 0 || up.OnlineChecks != 0 || up.UptimePct != 0 {
		t.Fatalf("want zeros, got %+v", up)
	}
}

func TestBuildDailyReport(t *testing.T) {
	db := database.OpenTest(t)
	now := time.Date(2025, 8, 10, 14, 0, 0, 0, time.UTC)

	online := seedStore(t, db, "Cocopan A", "https://www.foodpanda.ph/restaurant/a5/cocopan-a")
	offline := seedStore(t, db, "Cocopan B", "https://food.grab.com/ph/en/restaurant/cocopan-b5-delivery")
	seedStore(t, db, "Cocopan C", "https://www.foodpanda.ph/restaurant/c5/cocopan-c") // never probed

	seedProbe(t, db, online.ID, true, now.Add(-time.Hour), "")
	seedProbe(t, db, offline.ID, false, now.Add(-time.Hour), "")

	report, err := BuildDailyReport(db, now)
	if err != nil {
		t.Fatalf("BuildDailyReport: %v", err)
	}
	if report.TotalStores != 3 || report.OnlineStores != 1 || report.OfflineStores != 1 {
		t.Fatalf("report: %+v", report)
	}
	if report.OnlinePercentage != 33.33 {
		t.Fatalf("online pct: got %v, want 33.33", report.OnlinePercentage)
	}

	var persisted int64
	if err := db.Model(&models.SummaryReport{}).Count(&persisted).Error; err != nil {
		t.Fatalf("count reports: %v", err)
	}
	if persisted != 1 {
		t.Fatalf("report not persisted")
	}
}
