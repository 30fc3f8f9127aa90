package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTemperature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		celsius float64
		unit    Unit
		want    string
	}{
		{0, Celsius, "0.0"},
		{0, Fahrenheit, "32.0"},
		{100, Fahrenheit, "212.0"},
		{-40, Fahrenheit, "-40.0"},
		{21.5, Celsius, "21.5"},
		{21.5, Fahrenheit, "70.7"},
		{37, Fahrenheit, "98.6"},
		{-17.78, Celsius, "-17.8"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTemperature(tt.celsius, tt.unit), "%v %s", tt.celsius, tt.unit)
	}
}

func TestCelsiusToFahrenheitFormula(t *testing.T) {
	t.Parallel()

	for c := -50.0; c <= 50; c += 0.5 {
		assert.InDelta(t, c*9/5+32, CelsiusToFahrenheit(c), 1e-9)
		assert.InDelta(t, c, ConvertTemperature(c, Celsius), 0)
	}
}

func TestUnitToggle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Fahrenheit, Celsius.Toggle())
	assert.Equal(t, Celsius, Fahrenheit.Toggle())
	assert.Equal(t, Celsius, Celsius.Toggle().Toggle())

	// Toggling twice restores the displayed value
	for _, c := range []float64{-12.3, 0, 18.25, 40} {
		assert.Equal(t, FormatTemperature(c, Celsius), FormatTemperature(c, Celsius.Toggle().Toggle()))
	}

	assert.Equal(t, "C", Celsius.Symbol())
	assert.Equal(t, "F", Fahrenheit.Symbol())
}

func TestParseUnit(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"celsius", "C", " c ", "Celsius"} {
		u, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, Celsius, u)
	}
	for _, in := range []string{"fahrenheit", "F", "f"} {
		u, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, Fahrenheit, u)
	}

	_, err := ParseUnit("kelvin")
	require.Error(t, err)
}
