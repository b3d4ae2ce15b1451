package domain

import (
	"fmt"
	"math"
)

// VelocityUnit selects how running velocities are displayed.
type VelocityUnit string

const (
	UnitMetersPerSecond VelocityUnit = "m_per_s"
	UnitMinPerKm        VelocityUnit = "min_per_km"
)

// FormatPace converts a velocity in m/s to a "m:ss" per-kilometre pace.
func FormatPace(metersPerSecond float64) string {
	if metersPerSecond <= 0 || math.IsNaN(metersPerSecond) || math.IsInf(metersPerSecond, 0) {
		return "-"
	}
	secondsPerKm := 1000 / metersPerSecond
	minutes := int(math.Floor(secondsPerKm / 60))
	seconds := int(math.Round(math.Mod(secondsPerKm, 60)))
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatVelocity renders a velocity in the requested unit.
func FormatVelocity(metersPerSecond float64, unit VelocityUnit) string {
	if unit == UnitMinPerKm {
		return FormatPace(metersPerSecond) + " min/km"
	}
	return fmt.Sprintf("%.2f m/s", metersPerSecond)
}

// FormatLactate renders a lactate concentration to one decimal place.
func FormatLactate(mmolPerL float64) string {
	return fmt.Sprintf("%.1f mmol/L", mmolPerL)
}
