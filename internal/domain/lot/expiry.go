package lot

import "time"

// ExpiryStatus clasifica un lote según su fecha de vencimiento.
type ExpiryStatus string

const (
	ExpiryExpired    ExpiryStatus = "expired"
	ExpiryNear       ExpiryStatus = "near_expiry"
	ExpiryGood       ExpiryStatus = "good"
	ExpiryNoExpiry   ExpiryStatus = "no_expiry"
	NearExpiryWindow = 30 * 24 * time.Hour
)

// ClassifyExpiry calcula el estado de vencimiento a partir de expiry - now:
// expired (< 0), near_expiry (<= 30 días), good, o no_expiry si no hay fecha.
func ClassifyExpiry(expiry *time.Time, now time.Time) ExpiryStatus {
	if expiry == nil {
		return ExpiryNoExpiry
	}
	if expiry.Before(now) {
		return ExpiryExpired
	}
	if !expiry.After(now.Add(NearExpiryWindow)) {
		return ExpiryNear
	}
	return ExpiryGood
}
