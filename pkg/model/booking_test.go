package model

import (
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		status   Status
		valid    bool
		terminal bool
	}{
		{StatusBooked, true, false},
		{StatusCancelled, true, true},
		{StatusOverridden, true, true},
		{StatusCompleted, true, true},
		{"pending", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("Status(%q).Valid() = %v, want %v", tt.status, got, tt.valid)
		}
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("Status(%q).Terminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestBookingDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := &Booking{StartTime: start, EndTime: start.Add(90 * time.Minute)}

	if got := b.Duration(); got != 90*time.Minute {
		t.Errorf("Duration() = %s, want 90m", got)
	}
}

func TestBookingUpdateTouchesTime(t *testing.T) {
	now := time.Now()
	count := 3

	tests := []struct {
		name   string
		update BookingUpdate
		want   bool
	}{
		{"empty", BookingUpdate{}, false},
		{"start only", BookingUpdate{StartTime: &now}, true},
		{"end only", BookingUpdate{EndTime: &now}, true},
		{"attendees only", BookingUpdate{AttendeeCount: &count}, false},
		{"status only", BookingUpdate{Status: StatusCancelled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.update.TouchesTime(); got != tt.want {
				t.Errorf("TouchesTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
