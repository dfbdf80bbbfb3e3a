package gacha

import "time"

// Cooldown is the decision of the draw gate for one user at one instant.
type Cooldown struct {
	Allowed   bool
	Remaining time.Duration
}

// CheckCooldown decides whether a draw at now is permitted given the user's
// last draw, both in epoch seconds. A zero lastDraw means the user has never
// drawn and is always allowed. Pure and total; the authoritative check at
// write time is the store's conditional update.
func CheckCooldown(now, lastDraw int64, interval time.Duration) Cooldown {
	if lastDraw == 0 {
		return Cooldown{Allowed: true}
	}

	elapsed := time.Duration(now-lastDraw) * time.Second
	if elapsed >= interval {
		return Cooldown{Allowed: true}
	}
	return Cooldown{Remaining: interval - elapsed}
}
