package utils

import (
	"testing"
	"time"
)

func TestServiceHours_IsAvailable(t *testing.T) {
	hours := ServiceHours{Open: 6, Close: 23}
	tests := []struct {
		hour int
		want bool
	}{
		{0, false},
		{5, false},
		{6, true},
		{12, true},
		{22, true},
		{23, false},
	}

	for _, tt := range tests {
		at := time.Date(2025, 1, 1, tt.hour, 30, 0, 0, time.UTC)
		if got := hours.IsAvailable(at); got != tt.want {
			t.Errorf("hour %d: expected %v, got %v", tt.hour, tt.want, got)
		}
	}
}

func TestMeetsLeadTime(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	lead := 48 * time.Hour

	if MeetsLeadTime(now, now.Add(47*time.Hour+59*time.Minute), lead) {
		t.Error("Expected 47h59m to fail the lead time")
	}
	if !MeetsLeadTime(now, now.Add(48*time.Hour), lead) {
		t.Error("Expected exactly 48h to pass the lead time")
	}
	if !MeetsLeadTime(now, now.Add(72*time.Hour), lead) {
		t.Error("Expected 72h to pass the lead time")
	}
}

func TestSlotTimes(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 17, 42, 0, time.UTC)
	slots := SlotTimes(now, time.Hour, 3*time.Hour, 16)

	if len(slots) != 16 {
		t.Fatalf("Expected 16 slots, got %d", len(slots))
	}
	if want := time.Date(2025, 1, 1, 11, 17, 0, 0, time.UTC); !slots[0].Equal(want) {
		t.Errorf("Expected first slot %v, got %v", want, slots[0])
	}
	for i := 1; i < len(slots); i++ {
		if gap := slots[i].Sub(slots[i-1]); gap != 3*time.Hour {
			t.Errorf("slot %d: expected 3h gap, got %v", i, gap)
		}
	}
	if last := slots[len(slots)-1]; last.After(now.Add(49 * time.Hour)) {
		t.Errorf("last slot %v is beyond now+49h", last)
	}

	if SlotTimes(now, time.Hour, time.Hour, 0) != nil {
		t.Error("Expected nil for zero count")
	}
}
