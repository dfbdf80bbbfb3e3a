package utils

import (
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-5 * time.Second, "0s"},
		{45 * time.Second, "45s"},
		{3 * time.Minute, "3m 0s"},
		{time.Hour + 23*time.Minute + 45*time.Second, "1h 23m 45s"},
		{4 * time.Hour, "4h 0m 0s"},
		{3*time.Hour + 59*time.Minute + 59*time.Second, "3h 59m 59s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestStars(t *testing.T) {
	if got := Stars(3); got != "⭐⭐⭐" {
		t.Errorf("Stars(3) = %q", got)
	}
	if got := Stars(0); got != "" {
		t.Errorf("Stars(0) = %q, want empty", got)
	}
}
