package aim

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// ToMinorUnits converts a major-unit amount (dollars) to integer minor units
// (cents). Fractions of a cent are truncated, not rounded. amount must
// satisfy MinorUnitsInRange.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Truncate(0).IntPart()
}

// MinorUnitsInRange reports whether amount in cents fits in an int64
func MinorUnitsInRange(amount decimal.Decimal) bool {
	cents := amount.Mul(hundred).Truncate(0)
	return cents.LessThanOrEqual(maxMinorUnits) && cents.GreaterThanOrEqual(minMinorUnits)
}

// FromMinorUnits converts integer minor units back to a major-unit amount.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ParseMajorUnits parses a caller-supplied amount such as "10.50".
// Values that do not parse yield zero; the gateway rejects zero-amount
// charges, so a malformed amount surfaces as a decline rather than an error.
func ParseMajorUnits(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseMinorUnits reads a gateway amount field in cents. Empty or malformed
// values read as zero.
func parseMinorUnits(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	cents, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return decimal.Zero
	}
	return FromMinorUnits(cents)
}

// encodeAmount is the wire transform for the amount field. The cents value
// is formatted from the decimal, never through an int64.
func encodeAmount(s string) string {
	return ParseMajorUnits(s).Mul(hundred).Truncate(0).String()
}
