package core

import (
	"testing"
	"time"
)

func TestMonthKeys(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantCur  string
		wantPrev string
	}{
		{
			name:     "mid year",
			now:      time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			wantCur:  "2024-06",
			wantPrev: "2024-05",
		},
		{
			name:     "january rolls previous month into prior year",
			now:      time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			wantCur:  "2024-01",
			wantPrev: "2023-12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthKey(tt.now); got != tt.wantCur {
				t.Errorf("MonthKey() = %q, want %q", got, tt.wantCur)
			}
			if got := PrevMonthKey(tt.now); got != tt.wantPrev {
				t.Errorf("PrevMonthKey() = %q, want %q", got, tt.wantPrev)
			}
		})
	}
}

func TestInMonth(t *testing.T) {
	tests := []struct {
		name string
		date string
		key  string
		want bool
	}{
		{"exact month", "2024-06-01", "2024-06", true},
		{"other month", "2024-05-31", "2024-06", false},
		{"prefix comparison accepts malformed tail", "2024-06-XX", "2024-06", true},
		{"empty date", "", "2024-06", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InMonth(tt.date, tt.key); got != tt.want {
				t.Errorf("InMonth(%q, %q) = %v, want %v", tt.date, tt.key, got, tt.want)
			}
		})
	}
}

func TestInYear(t *testing.T) {
	tests := []struct {
		name string
		date string
		year int
		want bool
	}{
		{"same year", "2024-02-10", 2024, true},
		{"other year", "2023-12-31", 2024, false},
		{"short string", "20", 2024, false},
		{"non numeric year", "yyyy-06-01", 2024, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InYear(tt.date, tt.year); got != tt.want {
				t.Errorf("InYear(%q, %d) = %v, want %v", tt.date, tt.year, got, tt.want)
			}
		})
	}
}

func TestWithinMonths(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"inside window", "2024-04-01", true},
		{"exact boundary", "2024-03-15", true},
		{"just outside window", "2024-03-14", false},
		{"unparseable date", "not-a-date", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinMonths(tt.date, now, 3); got != tt.want {
				t.Errorf("WithinMonths(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}
