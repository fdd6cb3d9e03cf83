package model

import (
	"errors"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-01", false},
		{"2024-12", false},
		{"2024-13", true},
		{"2024-1", true},
		{"24-01", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParsePeriod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePeriod(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	if got := Period("2024-03").Label(); got != "Mar 24" {
		t.Fatalf("Label = %q, want %q", got, "Mar 24")
	}
	if got := Period("garbage").Label(); got != "garbage" {
		t.Fatalf("malformed Label = %q, want passthrough", got)
	}
}

func TestPeriodOf(t *testing.T) {
	at := time.Date(2025, time.July, 31, 23, 0, 0, 0, time.UTC)
	if got := PeriodOf(at); got != "2025-07" {
		t.Fatalf("PeriodOf = %q, want 2025-07", got)
	}
}

func TestParseTier(t *testing.T) {
	for _, in := range []string{"free", "PRO", " Premium "} {
		if _, err := ParseTier(in); err != nil {
			t.Errorf("ParseTier(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseTier("gold"); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("ParseTier(gold) err = %v, want ErrUnknownTier", err)
	}
}

func TestProfileHasAppliance(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.HasAppliance(ApplianceAC) {
		t.Fatal("nil profile reported an appliance")
	}
	p := &Profile{Appliances: []string{ApplianceShower}}
	if !p.HasAppliance(ApplianceShower) || p.HasAppliance(ApplianceAC) {
		t.Fatalf("HasAppliance mismatch for %v", p.Appliances)
	}
}
