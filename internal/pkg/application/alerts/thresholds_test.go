package alerts

import (
	"strings"
	"testing"
	"time"

	"github.com/airlight/airquality-mgmt/pkg/types"
	"github.com/matryer/is"
)

const thresholdYaml = `
standard: WHO-2021
thresholds:
  - pollutant: pm25
    moderate: 15
    high: 35
    critical: 55
    unit: µg/m³
  - pollutant: co2
    moderate: 800
    high: 1500
    critical: 4000
    unit: ppm
`

func TestParseThresholds(t *testing.T) {
	is := is.New(t)

	table, err := ParseThresholds(strings.NewReader(thresholdYaml), 3)
	is.NoErr(err)

	is.Equal("WHO-2021", table.Standard)
	is.Equal(3, table.Version)

	co2, ok := table.Get(types.PollutantCO2)
	is.True(ok)
	is.Equal(800.0, co2.Moderate)
	is.Equal(1500.0, co2.High)
	is.Equal(4000.0, co2.Critical)
}

func TestParseThresholdsRejectsEmptyFile(t *testing.T) {
	is := is.New(t)

	_, err := ParseThresholds(strings.NewReader("standard: WHO-2021\n"), 1)
	is.True(err != nil)
}

func TestThresholdTableRejectsUnorderedTiers(t *testing.T) {
	is := is.New(t)

	_, err := NewThresholdTable("custom", 1, types.Threshold{
		Pollutant: "pm25", Moderate: 50, High: 35, Critical: 55,
	})
	is.True(err != nil)
}

func TestProviderUpdateBumpsVersionAtomically(t *testing.T) {
	is := is.New(t)

	p := NewThresholdProvider(DefaultThresholds())
	is.Equal(1, p.Current().Version)

	updated, err := p.Update("custom", []types.Threshold{
		{Pollutant: "pm25", Moderate: 10, High: 25, Critical: 50, Unit: "µg/m³"},
	})
	is.NoErr(err)
	is.Equal(2, updated.Version)
	is.Equal("custom", p.Current().Standard)

	// A rejected update leaves the current table untouched.
	_, err = p.Update("broken", []types.Threshold{
		{Pollutant: "pm25", Moderate: 99, High: 25, Critical: 50},
	})
	is.True(err != nil)
	is.Equal(2, p.Current().Version)
	is.Equal("custom", p.Current().Standard)
}

func TestSeasonForMonth(t *testing.T) {
	is := is.New(t)

	is.Equal(SeasonDry, SeasonForMonth(time.November))
	is.Equal(SeasonDry, SeasonForMonth(time.March))
	is.Equal(SeasonRainy, SeasonForMonth(time.June))
	is.Equal(SeasonRainy, SeasonForMonth(time.September))
	is.Equal(SeasonMild, SeasonForMonth(time.April))
	is.Equal(SeasonMild, SeasonForMonth(time.October))
}
