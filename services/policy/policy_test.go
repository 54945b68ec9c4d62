package policy

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestSplitCommission(t *testing.T) {
	t.Run("round figure", func(t *testing.T) {
		split := SplitCommission(100, DefaultCommissionRate)
		if !almostEqual(split.Commission, 15.00) {
			t.Errorf("commission = %v, want 15.00", split.Commission)
		}
		if !almostEqual(split.GuideEarnings, 85.00) {
			t.Errorf("guideEarnings = %v, want 85.00", split.GuideEarnings)
		}
	})

	t.Run("rounding half up", func(t *testing.T) {
		// 33.33 * 0.15 = 4.9995, which rounds up to 5.00.
		split := SplitCommission(33.33, DefaultCommissionRate)
		if !almostEqual(split.Commission, 5.00) {
			t.Errorf("commission = %v, want 5.00", split.Commission)
		}
		if !almostEqual(split.GuideEarnings, 28.33) {
			t.Errorf("guideEarnings = %v, want 28.33", split.GuideEarnings)
		}
	})

	t.Run("sum invariant", func(t *testing.T) {
		for _, price := range []float64{0, 0.01, 9.99, 33.33, 59.95, 100, 1234.56} {
			split := SplitCommission(price, DefaultCommissionRate)
			if !almostEqual(split.Commission+split.GuideEarnings, price) {
				t.Errorf("price %v: commission %v + earnings %v != total",
					price, split.Commission, split.GuideEarnings)
			}
		}
	})
}

func TestRefundTier(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		hoursOut float64
		want     float64
	}{
		{"30 hours out", 30, 1.0},
		{"exactly 24 hours", 24, 1.0},
		{"18 hours out", 18, 0.5},
		{"exactly 12 hours", 12, 0.5},
		{"6 hours out", 6, 0.25},
		{"exactly 2 hours", 2, 0.25},
		{"1 hour out", 1, 0.0},
		{"already past", -3, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scheduled := now.Add(time.Duration(tc.hoursOut * float64(time.Hour)))
			got := RefundTier(&scheduled, now)
			if got != tc.want {
				t.Errorf("RefundTier(%v hours out) = %v, want %v", tc.hoursOut, got, tc.want)
			}
		})
	}

	t.Run("no scheduled date", func(t *testing.T) {
		if got := RefundTier(nil, now); got != 0.0 {
			t.Errorf("RefundTier(nil) = %v, want 0.0", got)
		}
	})

	t.Run("partial hours floor", func(t *testing.T) {
		// 23h30m floors to 23 whole hours, which is below the full-refund tier.
		scheduled := now.Add(23*time.Hour + 30*time.Minute)
		if got := RefundTier(&scheduled, now); got != 0.5 {
			t.Errorf("RefundTier(23.5h) = %v, want 0.5", got)
		}
	})
}

func TestRefundAmount(t *testing.T) {
	cases := []struct {
		pct  float64
		want float64
	}{
		{1.0, 100.00},
		{0.5, 50.00},
		{0.25, 25.00},
		{0.0, 0.00},
	}
	for _, tc := range cases {
		if got := RefundAmount(100, tc.pct); !almostEqual(got, tc.want) {
			t.Errorf("RefundAmount(100, %v) = %v, want %v", tc.pct, got, tc.want)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.9995, 5.00},
		{4.994, 4.99},
		{4.995, 5.00},
		{0, 0},
		{12.3, 12.3},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
