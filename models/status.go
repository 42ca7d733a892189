package models

import "strings"

// StatusClass is the fixed status taxonomy derived from a probe result.
type StatusClass string

const (
	StatusOnline  StatusClass = "ONLINE"
	StatusOffline StatusClass = "OFFLINE"
	StatusBlocked StatusClass = "BLOCKED"
	StatusError   StatusClass = "ERROR"
	StatusUnknown StatusClass = "UNKNOWN"
)

// Classify derives the status class from a raw probe. The probing layer tags
// error messages with a bracketed prefix; an untagged message with
// is_online=false is a plain offline result. is_online=true always wins,
// whatever the message says.
func Classify(isOnline bool, errorMessage *string) StatusClass {
	if isOnline {
		return StatusOnline
	}
	msg := ""
	if errorMessage != nil {
		msg = *errorMessage
	}
	switch {
	case strings.HasPrefix(msg, "[BLOCKED]"):
		return StatusBlocked
	case strings.HasPrefix(msg, "[ERROR]"):
		return StatusError
	case strings.HasPrefix(msg, "[UNKNOWN]"):
		return StatusUnknown
	default:
		return StatusOffline
	}
}

// ClassifyCheck classifies a stored probe row.
func ClassifyCheck(sc StatusCheck) StatusClass {
	return Classify(sc.IsOnline, sc.ErrorMessage)
}

// Platforms is the known platform set, used to pre-seed per-platform stats so
// an empty platform reports zeros instead of disappearing.
var Platforms = []string{PlatformFoodpanda, PlatformGrabfood, PlatformUnknown}

const (
	PlatformFoodpanda = "foodpanda"
	PlatformGrabfood  = "grabfood"
	PlatformUnknown   = "unknown"
)

// PlatformFromURL detects the platform from a store URL. foodpanda matches
// both foodpanda.ph and foodpanda.page.link short links.
func PlatformFromURL(url string) string {
	switch {
	case strings.Contains(url, "foodpanda"):
		return PlatformFoodpanda
	case strings.Contains(url, "grab.com"):
		return PlatformGrabfood
	default:
		return PlatformUnknown
	}
}
