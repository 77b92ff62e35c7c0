// Package units provides shared constants and validation for firing-rate units
package units

// Rate unit constants
const (
	PerSecond = "per-second"
	PerMinute = "per-minute"
	PerHour   = "per-hour"
)

// ValidRateUnits contains all valid rate unit values
var ValidRateUnits = []string{PerSecond, PerMinute, PerHour}

// IsValidRate checks if the given unit is in the list of valid rate units
func IsValidRate(unit string) bool {
	for _, validUnit := range ValidRateUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ValidRateUnitsString returns a comma-separated string of valid units for error messages
func ValidRateUnitsString() string {
	return "per-second, per-minute, per-hour"
}

// ConvertRate converts a rate from events per second to the target units
// Internally all durations are computed in seconds from sample counts
func ConvertRate(ratePerSecond float64, targetUnits string) float64 {
	switch targetUnits {
	case PerMinute:
		return ratePerSecond * 60
	case PerHour:
		return ratePerSecond * 3600
	case PerSecond:
		return ratePerSecond
	default:
		return ratePerSecond // default to per-second if unknown unit
	}
}
