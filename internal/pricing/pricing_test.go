package pricing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
)

var testRates = RateTable{
	Hourly:     5,
	Daily:      25,
	Weekly:     120,
	Monthly:    400,
	TaxRate:    0.10,
	ServiceFee: 3,
}

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"exactly one day", at(1, 12), at(2, 12), 1},
		{"partial day rounds up", at(1, 12), at(2, 18), 2},
		{"two full days", at(1, 12), at(3, 12), 2},
		{"under a day is one night", at(1, 12), at(1, 15), 1},
		{"zero duration clamps to one", at(1, 12), at(1, 12), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.checkIn, tt.checkOut); got != tt.want {
				t.Errorf("Nights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestForHotel(t *testing.T) {
	p, err := ForHotel(120, at(1, 15), at(3, 11), testRates, 0)
	if err != nil {
		t.Fatalf("ForHotel() error = %v", err)
	}

	// 2 nights * 120 = 240
	if p.Subtotal != 240 {
		t.Errorf("Subtotal = %f, want 240", p.Subtotal)
	}
	if p.Taxes != 24 {
		t.Errorf("Taxes = %f, want 24", p.Taxes)
	}
	if p.Fees != 3 {
		t.Errorf("Fees = %f, want 3", p.Fees)
	}
	assertPricingInvariant(t, p)
}

func TestParkingRate_Tiers(t *testing.T) {
	tests := []struct {
		name      string
		checkIn   time.Time
		checkOut  time.Time
		wantRate  float64
		wantUnits int
	}{
		{"three hours", at(1, 8), at(1, 11), 5, 3},
		{"partial hour rounds up", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), 5, 3},
		{"three days", at(1, 8), at(4, 8), 25, 3},
		{"ten days bills two weeks", at(1, 8), at(11, 8), 120, 2},
		{"forty days bills two months", at(1, 8), time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC), 400, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, units := ParkingRate(tt.checkIn, tt.checkOut, testRates)
			if rate != tt.wantRate || units != tt.wantUnits {
				t.Errorf("ParkingRate() = (%f, %d), want (%f, %d)", rate, units, tt.wantRate, tt.wantUnits)
			}
		})
	}
}

func TestParkingRate_CoarserTierWins(t *testing.T) {
	// 6 hours at 5/hr = 30 beats the 25 daily rate, so one day is billed
	rate, units := ParkingRate(at(1, 8), at(1, 14), testRates)
	if rate != 25 || units != 1 {
		t.Errorf("ParkingRate() = (%f, %d), want daily (25, 1)", rate, units)
	}

	// 6 days at 25/day = 150 beats the 120 weekly rate
	rate, units = ParkingRate(at(1, 8), at(7, 8), testRates)
	if rate != 120 || units != 1 {
		t.Errorf("ParkingRate() = (%f, %d), want weekly (120, 1)", rate, units)
	}
}

func TestParkingRate_UnsetTierFallsBack(t *testing.T) {
	rates := testRates
	rates.Daily = 0

	// Daily falls back to weekly/7
	rate, _ := ParkingRate(at(1, 8), at(4, 8), rates)
	want := rates.Weekly / 7
	if math.Abs(rate-want) > 1e-9 {
		t.Errorf("rate = %f, want %f (weekly/7)", rate, want)
	}

	rates = testRates
	rates.Monthly = 0

	// Monthly scales up from weekly
	rate, _ = ParkingRate(at(1, 8), time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC), rates)
	want = rates.Weekly * 30 / 7
	if math.Abs(rate-want) > 1e-9 {
		t.Errorf("rate = %f, want %f (weekly*30/7)", rate, want)
	}
}

func TestForParking_Breakdown(t *testing.T) {
	p, err := ForParking(at(1, 8), at(4, 8), testRates, 10)
	if err != nil {
		t.Fatalf("ForParking() error = %v", err)
	}

	if p.Subtotal != 75 {
		t.Errorf("Subtotal = %f, want 75", p.Subtotal)
	}
	if p.Discount != 10 {
		t.Errorf("Discount = %f, want 10", p.Discount)
	}
	assertPricingInvariant(t, p)
}

func TestBreakdown_NegativeTotalClamped(t *testing.T) {
	p, err := ForParking(at(1, 8), at(1, 10), testRates, 1000)
	if !errors.Is(err, domain.ErrNegativeTotal) {
		t.Fatalf("ForParking() error = %v, want ErrNegativeTotal", err)
	}
	if p.Total != 0 {
		t.Errorf("Total = %f, want 0 (clamped)", p.Total)
	}
	assertPricingInvariant(t, p)
}

func TestCombine(t *testing.T) {
	hotel, _ := ForHotel(120, at(1, 15), at(3, 11), testRates, 0)
	parking, _ := ForParking(at(1, 8), at(3, 8), testRates, 0)

	combined := Combine(hotel, parking)
	if combined.Subtotal != hotel.Subtotal+parking.Subtotal {
		t.Errorf("Subtotal = %f, want %f", combined.Subtotal, hotel.Subtotal+parking.Subtotal)
	}
	assertPricingInvariant(t, combined)
}

// assertPricingInvariant checks total == subtotal + taxes + fees - discount
// within a cent, and that the total is never negative.
func assertPricingInvariant(t *testing.T, p domain.Pricing) {
	t.Helper()
	want := p.Subtotal + p.Taxes + p.Fees - p.Discount
	if want < 0 {
		want = 0
	}
	if math.Abs(p.Total-want) > 0.01 {
		t.Errorf("pricing invariant violated: total %f != %f", p.Total, want)
	}
	if p.Total < 0 {
		t.Errorf("total is negative: %f", p.Total)
	}
}
