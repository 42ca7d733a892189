// Package qa runs the consistency check battery over the data set.
//
// Purely diagnostic: it never mutates data and never aborts early. Every
// check reports PASS, WARN or FAIL independently, including on storage
// errors, so an operator always gets the full list.
package qa

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
)

type CheckStatus string

const (
	Pass CheckStatus = "PASS"
	Warn CheckStatus = "WARN"
	Fail CheckStatus = "FAIL"
)

type Check struct {
	Name    string      `json:"check_name"`
	Status  CheckStatus `json:"status"`
	Details string      `json:"details"`
}

type Validator struct {
	db             *gorm.DB
	expectedStores int
	genericName    *regexp.Regexp
	freshness      time.Duration

	now func() time.Time
}

func NewValidator(db *gorm.DB, expectedStores int, genericName *regexp.Regexp) *Validator {
	return &Validator{
		db:             db,
		expectedStores: expectedStores,
		genericName:    genericName,
		freshness:      24 * time.Hour,
		now:            time.Now,
	}
}

// Validate runs the full battery and returns one result per check.
func (v *Validator) Validate() []Check {
	return []Check{
		v.checkStoreCount(),
		v.checkPlatformSpread(),
		v.checkGenericNames(),
		v.checkDuplicateURLs(),
		v.checkProbeFreshness(),
	}
}

func (v *Validator) checkStoreCount() Check {
	c := Check{Name: "store_count"}
	var count int64
	if err := v.db.Model(&models.Store{}).Count(&count).Error; err != nil {
		return failed(c, err)
	}
	switch {
	case v.expectedStores <= 0:
		c.Status = Warn
		c.Details = fmt.Sprintf("no expected fleet size configured; %d stores present", count)
	case int(count) == v.expectedStores:
		c.Status = Pass
		c.Details = fmt.Sprintf("%d stores", count)
	default:
		c.Status = Fail
		c.Details = fmt.Sprintf("expected %d stores, got %d", v.expectedStores, count)
	}
	return c
}

func (v *Validator) checkPlatformSpread() Check {
	c := Check{Name: "platform_distribution"}
	var platforms []string
	err := v.db.Model(&models.Store{}).Distinct().Pluck("platform", &platforms).Error
	if err != nil {
		return failed(c, err)
	}
	if len(platforms) >= 2 {
		c.Status = Pass
		c.Details = fmt.Sprintf("platforms: %s", strings.Join(platforms, ", "))
	} else {
		c.Status = Fail
		c.Details = fmt.Sprintf("degenerate platform distribution: %v", platforms)
	}
	return c
}

func (v *Validator) checkGenericNames() Check {
	c := Check{Name: "generic_names"}
	var stores []models.Store
	if err := v.db.Find(&stores).Error; err != nil {
		return failed(c, err)
	}
	var examples []string
	matched := 0
	for _, s := range stores {
		if v.genericName.MatchString(s.DisplayName()) {
			matched++
			if len(examples) < 3 {
				examples = append(examples, s.DisplayName())
			}
		}
	}
	if matched == 0 {
		c.Status = Pass
		c.Details = "no placeholder store names"
	} else {
		c.Status = Fail
		c.Details = fmt.Sprintf("%d generic names, e.g. %s", matched, strings.Join(examples, "; "))
	}
	return c
}

func (v *Validator) checkDuplicateURLs() Check {
	c := Check{Name: "duplicate_urls"}
	// Defense in depth: the unique index should make this impossible, but
	// bulk imports can bypass it.
	var dupes []struct {
		URL   string
		Count int64
	}
	err := v.db.Model(&models.Store{}).
		Select("url, COUNT(*) as count").
		Group("url").
		Having("COUNT(*) > 1").
		Scan(&dupes).Error
	if err != nil {
		return failed(c, err)
	}
	if len(dupes) == 0 {
		c.Status = Pass
		c.Details = "all store urls unique"
	} else {
		c.Status = Fail
		c.Details = fmt.Sprintf("%d duplicate url group(s)", len(dupes))
	}
	return c
}

func (v *Validator) checkProbeFreshness() Check {
	c := Check{Name: "probe_freshness"}
	since := v.now().Add(-v.freshness)
	var count int64
	err := v.db.Model(&models.StatusCheck{}).
		Where("checked_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return failed(c, err)
	}
	if count > 0 {
		c.Status = Pass
		c.Details = fmt.Sprintf("%d probes in the last 24h", count)
	} else {
		c.Status = Warn
		c.Details = "no probes recorded in the last 24h"
	}
	return c
}

func failed(c Check, err error) Check {
	c.Status = Fail
	c.Details = fmt.Sprintf("query failed: %v", err)
	return c
}
