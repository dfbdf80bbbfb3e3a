package gacha

import (
	"testing"
	"time"
)

func TestCheckCooldown(t *testing.T) {
	const interval = 4 * time.Hour
	base := int64(1_700_000_000)

	tests := []struct {
		name          string
		now           int64
		lastDraw      int64
		wantAllowed   bool
		wantRemaining time.Duration
	}{
		{
			name:        "never drawn",
			now:         base,
			lastDraw:    0,
			wantAllowed: true,
		},
		{
			name:          "immediately after a draw",
			now:           base,
			lastDraw:      base,
			wantAllowed:   false,
			wantRemaining: interval,
		},
		{
			name:          "one second before expiry",
			now:           base + int64(interval.Seconds()) - 1,
			lastDraw:      base,
			wantAllowed:   false,
			wantRemaining: time.Second,
		},
		{
			name:        "exactly at expiry",
			now:         base + int64(interval.Seconds()),
			lastDraw:    base,
			wantAllowed: true,
		},
		{
			name:        "well past expiry",
			now:         base + int64(interval.Seconds())*3,
			lastDraw:    base,
			wantAllowed: true,
		},
		{
			name:          "midway through",
			now:           base + 3600,
			lastDraw:      base,
			wantAllowed:   false,
			wantRemaining: 3 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCooldown(tt.now, tt.lastDraw, interval)
			if got.Allowed != tt.wantAllowed {
				t.Errorf("CheckCooldown() Allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && got.Remaining != tt.wantRemaining {
				t.Errorf("CheckCooldown() Remaining = %v, want %v", got.Remaining, tt.wantRemaining)
			}
			if tt.wantAllowed && got.Remaining != 0 {
				t.Errorf("CheckCooldown() Remaining = %v, want 0 when allowed", got.Remaining)
			}
		})
	}
}
