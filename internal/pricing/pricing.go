// Package pricing derives cost breakdowns from stay durations and the
// published rate table. All functions are pure.
package pricing

import (
	"math"
	"time"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
)

// RateTable holds the published parking rates and common charges.
// A zero rate means the tier is unpublished and falls back to the next
// coarser tier scaled proportionally.
type RateTable struct {
	Hourly  float64
	Daily   float64
	Weekly  float64
	Monthly float64

	TaxRate    float64
	ServiceFee float64
}

// Nights returns the number of billable nights, minimum 1
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 1
	}
	nights := int(math.Ceil(d.Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	return nights
}

// ForHotel computes the breakdown for a hotel stay
func ForHotel(pricePerNight float64, checkIn, checkOut time.Time, rates RateTable, discount float64) (domain.Pricing, error) {
	subtotal := pricePerNight * float64(Nights(checkIn, checkOut))
	return breakdown(subtotal, rates, discount)
}

// ForParking computes the breakdown for a parking stay using the tiered
// rate table.
func ForParking(checkIn, checkOut time.Time, rates RateTable, discount float64) (domain.Pricing, error) {
	rate, units := ParkingRate(checkIn, checkOut, rates)
	return breakdown(rate*float64(units), rates, discount)
}

// ParkingRate picks the billing unit for the stay and returns the per-unit
// rate with the unit count. Tiers follow the published table: hourly up to
// one day, daily up to a week, weekly up to a month, monthly beyond. When
// a single unit of the next coarser tier is cheaper than the tier price,
// the coarser rate wins.
func ParkingRate(checkIn, checkOut time.Time, rates RateTable) (rate float64, units int) {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return hourlyRate(rates), 1
	}

	hours := int(math.Ceil(d.Hours()))
	if hours < 1 {
		hours = 1
	}
	days := int(math.Ceil(d.Hours() / 24))

	switch {
	case d.Hours() <= 24:
		rate, units = hourlyRate(rates), hours
		if coarser := dailyRate(rates); coarser > 0 && coarser < rate*float64(units) {
			return coarser, 1
		}
	case days <= 7:
		rate, units = dailyRate(rates), days
		if coarser := weeklyRate(rates); coarser > 0 && coarser < rate*float64(units) {
			return coarser, 1
		}
	case days <= 30:
		rate, units = weeklyRate(rates), ceilDiv(days, 7)
		if coarser := monthlyRate(rates); coarser > 0 && coarser < rate*float64(units) {
			return coarser, 1
		}
	default:
		rate, units = monthlyRate(rates), ceilDiv(days, 30)
	}
	return rate, units
}

// Unset tiers fall back to the next coarser published rate scaled to the
// finer unit; monthly, having no coarser tier, scales up from weekly.

func hourlyRate(rates RateTable) float64 {
	if rates.Hourly > 0 {
		return rates.Hourly
	}
	return dailyRate(rates) / 24
}

func dailyRate(rates RateTable) float64 {
	if rates.Daily > 0 {
		return rates.Daily
	}
	return weeklyRate(rates) / 7
}

func weeklyRate(rates RateTable) float64 {
	if rates.Weekly > 0 {
		return rates.Weekly
	}
	return rates.Monthly * 7 / 30
}

func monthlyRate(rates RateTable) float64 {
	if rates.Monthly > 0 {
		return rates.Monthly
	}
	return rates.Weekly * 30 / 7
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// breakdown applies taxes, fees and discount. A negative total is clamped
// to zero and reported as an error so the caller can review instead of
// booking at a loss.
func breakdown(subtotal float64, rates RateTable, discount float64) (domain.Pricing, error) {
	p := domain.Pricing{
		Subtotal: round2(subtotal),
		Taxes:    round2(subtotal * rates.TaxRate),
		Fees:     round2(rates.ServiceFee),
		Discount: round2(discount),
	}
	p.Total = round2(p.Subtotal + p.Taxes + p.Fees - p.Discount)

	if p.Total < 0 {
		p.Discount = round2(p.Subtotal + p.Taxes + p.Fees)
		p.Total = 0
		return p, domain.ErrNegativeTotal
	}
	return p, nil
}

// Combine merges two breakdowns into one (hotel leg + parking leg)
func Combine(a, b domain.Pricing) domain.Pricing {
	c := domain.Pricing{
		Subtotal: round2(a.Subtotal + b.Subtotal),
		Taxes:    round2(a.Taxes + b.Taxes),
		Fees:     round2(a.Fees + b.Fees),
		Discount: round2(a.Discount + b.Discount),
	}
	c.Total = round2(c.Subtotal + c.Taxes + c.Fees - c.Discount)
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
