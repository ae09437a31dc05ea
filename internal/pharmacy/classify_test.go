package pharmacy

import (
	"testing"
	"time"
)

func batch(available int, expiresInDays int, now time.Time) Stock {
	return Stock{
		AvailableQuantity: available,
		ExpiryDate:        now.AddDate(0, 0, expiresInDays),
		Active:            true,
	}
}

func hasAlert(c Classification, a Alert) bool {
	for _, got := range c.Alerts {
		if got == a {
			return true
		}
	}
	return false
}

func TestClassifyStatusPrecedence(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	th := DefaultThresholds()

	tests := []struct {
		name      string
		available int
		expiresIn int // days from now
		want      StockStatus
	}{
		{"healthy batch", 100, 365, StatusNormal},
		{"low stock", 5, 365, StatusLowStock},
		{"exactly at low threshold", 10, 365, StatusLowStock},
		{"just above low threshold", 11, 365, StatusNormal},
		{"out of stock", 0, 365, StatusOutOfStock},
		{"near expiry", 100, 15, StatusNearExpiry},
		{"exactly at near-expiry threshold", 100, 30, StatusNearExpiry},
		{"expired", 100, -1, StatusExpired},
		{"expired beats out of stock", 0, -1, StatusExpired},
		{"out of stock beats near expiry", 0, 10, StatusOutOfStock},
		{"near expiry beats low stock", 5, 10, StatusNearExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(batch(tt.available, tt.expiresIn, now), now, th)
			if c.Status != tt.want {
				t.Errorf("Status = %s, want %s", c.Status, tt.want)
			}
		})
	}
}

func TestClassifyAlertsAreAdditive(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	th := DefaultThresholds()

	// Out of stock and near expiry at once: both alerts, one status.
	c := Classify(batch(0, 10, now), now, th)
	if !hasAlert(c, AlertOutOfStock) || !hasAlert(c, AlertExpiringSoon) {
		t.Errorf("Alerts = %v, want OUT_OF_STOCK and EXPIRING_SOON", c.Alerts)
	}
	if c.Status != StatusOutOfStock {
		t.Errorf("Status = %s, want OUT_OF_STOCK", c.Status)
	}

	// Expired suppresses the near-expiry alert but not stock alerts.
	c = Classify(batch(3, -2, now), now, th)
	if !hasAlert(c, AlertExpired) || !hasAlert(c, AlertLowStock) {
		t.Errorf("Alerts = %v, want EXPIRED and LOW_STOCK", c.Alerts)
	}
	if hasAlert(c, AlertExpiringSoon) {
		t.Errorf("expired batch must not also alert EXPIRING_SOON")
	}

	// Expired and empty: both alerts, EXPIRED wins the status.
	c = Classify(batch(0, -5, now), now, th)
	if !hasAlert(c, AlertExpired) || !hasAlert(c, AlertOutOfStock) {
		t.Errorf("Alerts = %v, want EXPIRED and OUT_OF_STOCK", c.Alerts)
	}
	if c.Status != StatusExpired {
		t.Errorf("Status = %s, want EXPIRED", c.Status)
	}

	// Healthy batch alerts nothing.
	c = Classify(batch(100, 365, now), now, th)
	if len(c.Alerts) != 0 {
		t.Errorf("Alerts = %v, want none", c.Alerts)
	}
}

func TestClassifyDaysUntilExpiryCeiling(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	th := DefaultThresholds()

	// Expires in 12 hours: still 1 day out.
	st := Stock{AvailableQuantity: 50, ExpiryDate: now.Add(12 * time.Hour)}
	c := Classify(st, now, th)
	if c.DaysUntilExpiry != 1 {
		t.Errorf("DaysUntilExpiry = %d, want 1", c.DaysUntilExpiry)
	}

	// Exactly now counts as expired.
	st.ExpiryDate = now
	c = Classify(st, now, th)
	if c.Status != StatusExpired {
		t.Errorf("Status = %s, want EXPIRED at the expiry instant", c.Status)
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	th := Thresholds{LowStock: 50, NearExpiryDays: 90}

	c := Classify(batch(40, 60, now), now, th)
	if c.Status != StatusNearExpiry {
		t.Errorf("Status = %s, want NEAR_EXPIRY under a 90 day window", c.Status)
	}
	if !hasAlert(c, AlertLowStock) {
		t.Errorf("Alerts = %v, want LOW_STOCK under a 50 unit threshold", c.Alerts)
	}
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	if th.LowStock != 10 || th.NearExpiryDays != 30 {
		t.Errorf("DefaultThresholds() = %+v, want 10 units / 30 days", th)
	}
}
