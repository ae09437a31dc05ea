package pharmacy

import (
	"math"
	"time"
)

// Thresholds control when a batch starts alerting.
type Thresholds struct {
	LowStock       int // available quantity at or below this alerts
	NearExpiryDays int // days before expiry at which a batch alerts
}

func DefaultThresholds() Thresholds {
	return Thresholds{LowStock: 10, NearExpiryDays: 30}
}

// Classify derives a batch's alerts and primary status at a point in time.
// Alerts are additive; the status picks one by precedence:
// EXPIRED > OUT_OF_STOCK > NEAR_EXPIRY > LOW_STOCK > NORMAL.
// Pure function, nothing is stored.
func Classify(stock Stock, now time.Time, t Thresholds) Classification {
	days := daysUntilExpiry(stock.ExpiryDate, now)
	c := Classification{Status: StatusNormal, DaysUntilExpiry: days}

	expired := !stock.ExpiryDate.After(now)
	nearExpiry := !expired && days <= t.NearExpiryDays
	outOfStock := stock.AvailableQuantity == 0
	lowStock := !outOfStock && stock.AvailableQuantity <= t.LowStock

	if expired {
		c.Alerts = append(c.Alerts, AlertExpired)
	}
	if nearExpiry {
		c.Alerts = append(c.Alerts, AlertExpiringSoon)
	}
	if outOfStock {
		c.Alerts = append(c.Alerts, AlertOutOfStock)
	}
	if lowStock {
		c.Alerts = append(c.Alerts, AlertLowStock)
	}

	switch {
	case expired:
		c.Status = StatusExpired
	case outOfStock:
		c.Status = StatusOutOfStock
	case nearExpiry:
		c.Status = StatusNearExpiry
	case lowStock:
		c.Status = StatusLowStock
	}

	return c
}

// daysUntilExpiry is the ceiling of the remaining time in days; an expiry
// later today still counts as 1.
func daysUntilExpiry(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}
