package pricing

import (
	"fmt"

	"cleanly/models"

	"github.com/shopspring/decimal"
)

// Prices in cents.
const (
	BasePrice     int64 = 15000
	ExtraBedFee   int64 = 5000
	ExtraBathFee  int64 = 5000
	HalfBathFee   int64 = 2500
	SheetsFee     int64 = 3000
	TowelsFee     int64 = 1200
	MaxBeds             = 20
	maxBathsValue       = 20
)

var (
	timeWindowFees = map[string]int64{
		models.TimeAnytime: 0,
		models.Time10To3:   2500,
		models.Time11To4:   2500,
		models.Time12To2:   3000,
	}

	half     = decimal.RequireFromString("0.5")
	maxBaths = decimal.NewFromInt(maxBathsValue)
	hundred  = decimal.NewFromInt(100)
)

// ParseBaths validates a bathroom count: 0.5 to 20 in steps of 0.5.
func ParseBaths(numBaths string) (decimal.Decimal, error) {
	baths, err := decimal.NewFromString(numBaths)
	if err != nil {
		return decimal.Zero, fmt.Errorf("numBaths must be a number")
	}
	if baths.LessThan(half) || baths.GreaterThan(maxBaths) {
		return decimal.Zero, fmt.Errorf("numBaths must be between 0.5 and %d", maxBathsValue)
	}
	if !baths.Mod(half).IsZero() {
		return decimal.Zero, fmt.Errorf("numBaths must be a multiple of 0.5")
	}
	return baths, nil
}

// ValidTimeWindow reports whether window is a known time window.
func ValidTimeWindow(window string) bool {
	_, ok := timeWindowFees[window]
	return ok
}

// TimeWindowFee is the surcharge for a time window. An empty window means anytime.
func TimeWindowFee(window string) (int64, error) {
	if window == "" {
		window = models.TimeAnytime
	}
	fee, ok := timeWindowFees[window]
	if !ok {
		return 0, fmt.Errorf("unknown time window %q", window)
	}
	return fee, nil
}

// HomePrice is the base cleaning price for the size of a home.
func HomePrice(numBeds int, numBaths string) (int64, error) {
	if numBeds < 1 || numBeds > MaxBeds {
		return 0, fmt.Errorf("numBeds must be between 1 and %d", MaxBeds)
	}
	baths, err := ParseBaths(numBaths)
	if err != nil {
		return 0, err
	}

	price := BasePrice + int64(numBeds-1)*ExtraBedFee

	full := baths.Floor().IntPart()
	if full > 1 {
		price += (full - 1) * ExtraBathFee
	}
	if full >= 1 && !baths.Equal(baths.Floor()) {
		price += HalfBathFee
	}
	return price, nil
}

// AppointmentPrice prices one cleaning of home with the chosen extras.
func AppointmentPrice(home models.Home, bringSheets, bringTowels bool, window string) (int64, error) {
	price, err := HomePrice(home.NumBeds, home.NumBaths)
	if err != nil {
		return 0, err
	}
	fee, err := TimeWindowFee(window)
	if err != nil {
		return 0, err
	}
	price += fee
	if bringSheets {
		price += SheetsFee
	}
	if bringTowels {
		price += TowelsFee
	}
	return price, nil
}

func toggleDelta(from, to bool, fee int64) int64 {
	switch {
	case from == to:
		return 0
	case to:
		return fee
	default:
		return -fee
	}
}

// SheetsDelta is the price change of switching sheet service from one value to another.
func SheetsDelta(from, to bool) int64 { return toggleDelta(from, to, SheetsFee) }

// TowelsDelta is the price change of switching towel service.
func TowelsDelta(from, to bool) int64 { return toggleDelta(from, to, TowelsFee) }

// TimeDelta is newFee - oldFee.
func TimeDelta(from, to string) (int64, error) {
	oldFee, err := TimeWindowFee(from)
	if err != nil {
		return 0, err
	}
	newFee, err := TimeWindowFee(to)
	if err != nil {
		return 0, err
	}
	return newFee - oldFee, nil
}

// PercentOf returns percent% of cents, rounded to the nearest cent.
func PercentOf(cents int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(percent).Div(hundred).Round(0).IntPart()
}

// SplitEvenly divides total into n shares. Remainder cents go to the first share.
func SplitEvenly(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	shares := make([]int64, n)
	each := total / int64(n)
	for i := range shares {
		shares[i] = each
	}
	shares[0] += total - each*int64(n)
	return shares
}

// FormatCents renders cents as dollars, e.g. "$150.00".
func FormatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}
