package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSevere(t *testing.T) {
	severe := []string{
		"thunderstorm with heavy rain",
		"Blizzard conditions in Denver",
		"freezing rain, 0 degrees",
		"high wind advisory",
		"dense fog in Houston",
	}
	for _, desc := range severe {
		assert.True(t, IsSevere(desc), desc)
	}

	mild := []string{
		"clear sky",
		"few clouds",
		"light rain",
		"sunny, 25 degrees",
	}
	for _, desc := range mild {
		assert.False(t, IsSevere(desc), desc)
	}
}

func TestReportFormatted(t *testing.T) {
	r := &Report{City: "Houston", Description: "scattered clouds", TempC: 28.4, WindSpeed: 5.2, Humidity: 61}
	got := r.Formatted()
	assert.Contains(t, got, "scattered clouds")
	assert.Contains(t, got, "Houston")
	assert.Contains(t, got, "61 percent")
}
