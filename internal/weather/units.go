package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// Temperature conversion constants
const (
	celsiusToFahrenheitScale  = 9.0 / 5.0
	celsiusToFahrenheitOffset = 32.0
)

// Unit is a temperature display unit
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// Toggle returns the other unit. Anything that is not Fahrenheit toggles
// to Fahrenheit.
func (u Unit) Toggle() Unit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

// Symbol returns "F" for Fahrenheit and "C" otherwise
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "F"
	}
	return "C"
}

// String implements fmt.Stringer
func (u Unit) String() string {
	if u == Fahrenheit {
		return string(Fahrenheit)
	}
	return string(Celsius)
}

// ParseUnit accepts "celsius", "c", "fahrenheit" or "f" in any case
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "celsius", "c":
		return Celsius, nil
	case "fahrenheit", "f":
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q", s)
	}
}

// CelsiusToFahrenheit converts a Celsius temperature
func CelsiusToFahrenheit(celsius float64) float64 {
	return celsius*celsiusToFahrenheitScale + celsiusToFahrenheitOffset
}

// ConvertTemperature converts a Celsius temperature to the given unit
func ConvertTemperature(celsius float64, unit Unit) float64 {
	if unit == Fahrenheit {
		return CelsiusToFahrenheit(celsius)
	}
	return celsius
}

// FormatTemperature renders a Celsius temperature in the given unit with
// one decimal place, without a unit suffix.
func FormatTemperature(celsius float64, unit Unit) string {
	return strconv.FormatFloat(ConvertTemperature(celsius, unit), 'f', 1, 64)
}
