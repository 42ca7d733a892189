package models

import "testing"

func strptr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		isOnline bool
		message  *string
		want     StatusClass
	}{
		{"online wins over tagged message", true, strptr("[BLOCKED] leftover tag"), StatusOnline},
		{"online plain", true, nil, StatusOnline},
		{"blocked tag", false, strptr("[BLOCKED] site firewall"), StatusBlocked},
		{"error tag", false, strptr("[ERROR] timeout after 10s"), StatusError},
		{"unknown tag", false, strptr("[UNKNOWN] ambiguous page"), StatusUnknown},
		{"offline with nil message", false, nil, StatusOffline},
		{"offline with untagged message", false, strptr("connection refused"), StatusOffline},
		{"tag must be a prefix", false, strptr("saw [BLOCKED] in body"), StatusOffline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.isOnline, tt.message); got != tt.want {
				t.Fatalf("Classify(%v, %v) = %s, want %s", tt.isOnline, tt.message, got, tt.want)
			}
		})
	}
}

func TestPlatformFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.foodpanda.ph/restaurant/abc/cocopan-makati", PlatformFoodpanda},
		{"https://foodpanda.page.link/Xy12AbC", PlatformFoodpanda},
		{"https://food.grab.com/ph/en/restaurant/cocopan-bgc-delivery", PlatformGrabfood},
		{"https://example.com/cocopan", PlatformUnknown},
	}
	for _, tt := range tests {
		if got := PlatformFromURL(tt.url); got != tt.want {
			t.Fatalf("PlatformFromURL(%q) = %s, want %s", tt.url, got, tt.want)
		}
	}
}

func TestDisplayNamePrefersOverride(t *testing.T) {
	s := Store{Name: "Cocopan Qc North"}
	if s.DisplayName() != "Cocopan Qc North" {
		t.Fatalf("DisplayName without override: %q", s.DisplayName())
	}
	override := "Cocopan QC - North EDSA"
	s.NameOverride = &override
	if s.DisplayName() != override {
		t.Fatalf("DisplayName with override: %q", s.DisplayName())
	}
	empty := ""
	s.NameOverride = &empty
	if s.DisplayName() != "Cocopan Qc North" {
		t.Fatalf("empty override should fall back to name, got %q", s.DisplayName())
	}
}
