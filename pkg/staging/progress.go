package staging

import (
	"math/rand"
	"time"
)

// progressCeiling is where the synthetic bar parks until the response lands.
const progressCeiling = 90

// SyntheticProgress animates an upload progress percentage toward 90 on a
// ticker. It is cosmetic and not driven by real transfer progress; the caller
// reports 100 itself once the response arrives. The returned stop function
// ends the animation.
func SyntheticProgress(interval time.Duration, update func(pct int)) (stop func()) {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		pct := 0.0

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				pct += rand.Float64() * 15
				if pct > progressCeiling {
					pct = progressCeiling
				}

				update(int(pct))

				if pct >= progressCeiling {
					return
				}
			}
		}
	}()

	return func() { close(done) }
}
