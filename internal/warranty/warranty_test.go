package warranty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estimaro/estimator/internal/model"
)

func fixedClock(year int) Option {
	return WithClock(func() time.Time {
		return time.Date(year, time.March, 1, 12, 0, 0, 0, time.UTC)
	})
}

func TestTermsFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, standardTerms, TermsFor("Honda"))
	assert.Equal(t, Term{Years: 10, Miles: 100000}, TermsFor(" kia ").Powertrain)
	assert.Equal(t, Term{Years: 4, Miles: 50000}, TermsFor("Mercedes-Benz").BumperToBumper)
	assert.Equal(t, "3 years / 36,000 miles", TermsFor("Ford").BumperToBumper.String())
}

func TestVehicleAgeUsesCalendarYear(t *testing.T) {
	t.Parallel()
	c := NewChecker(WithClock(func() time.Time {
		return time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	}))
	assert.Equal(t, 1, c.VehicleAge(2025))
	assert.Equal(t, 0, c.VehicleAge(2026))
}

func TestCheck_BumperToBumper(t *testing.T) {
	t.Parallel()
	c := NewChecker(fixedClock(2026))

	res := c.Check(2024, "Honda", 22000, "Squeaky brakes")

	assert.Equal(t, 2, res.VehicleAgeYears)
	assert.True(t, res.LikelyUnderWarranty)
	require.Len(t, res.Alerts, 2)
	assert.Equal(t, CoverageBumperToBumper, res.Alerts[0].Type)
	assert.Equal(t, model.FlagWarning, res.Alerts[0].Level)
	assert.Equal(t, CoveragePowertrain, res.Alerts[1].Type)
	assert.Equal(t, model.FlagInfo, res.Alerts[1].Level)

	require.NotNil(t, res.Flag)
	assert.Equal(t, model.FlagWarning, res.Flag.Type)
	assert.Equal(t, "WARRANTY ALERT", res.Flag.Title)
	assert.Equal(t, "This 2024 Honda with 22,000 miles is likely still under factory warranty", res.Flag.Message)
	assert.Equal(t, []string{"Proceed Anyway", "Refer to Dealer"}, res.Flag.Options)
}

func TestCheck_PowertrainOnly(t *testing.T) {
	t.Parallel()
	c := NewChecker(fixedClock(2026))

	// Outside 3/36k, inside 5/60k.
	nonPT := c.Check(2022, "Toyota", 45000, "Replace cabin air filter")
	assert.False(t, nonPT.LikelyUnderWarranty)
	require.Len(t, nonPT.Alerts, 1)
	assert.Equal(t, model.FlagInfo, nonPT.Alerts[0].Level)
	assert.Nil(t, nonPT.Flag)

	pt := c.Check(2022, "Toyota", 45000, "Transmission slipping")
	assert.True(t, pt.LikelyUnderWarranty)
	require.Len(t, pt.Alerts, 1)
	assert.Equal(t, model.FlagWarning, pt.Alerts[0].Level)
	assert.Equal(t, "Powertrain repair - likely covered!", pt.Alerts[0].Action)
	require.NotNil(t, pt.Flag)
}

func TestCheck_ExtendedPowertrainForHyundaiGroup(t *testing.T) {
	t.Parallel()
	c := NewChecker(fixedClock(2026))

	res := c.Check(2019, "Hyundai", 80000, "oil leak")
	assert.False(t, res.LikelyUnderWarranty)
	require.Len(t, res.Alerts, 2)
	assert.Equal(t, model.FlagInfo, res.Alerts[0].Level)
	assert.Equal(t, CoverageExtendedPowertrain, res.Alerts[1].Type)
	assert.Equal(t, model.FlagWarning, res.Alerts[1].Level)
	assert.Equal(t, "10 years / 100,000 miles", res.Alerts[1].Coverage)
	assert.Nil(t, res.Flag)

	// Mitsubishi has the long powertrain term but not the extra notice.
	m := c.Check(2019, "Mitsubishi", 80000, "oil leak")
	require.Len(t, m.Alerts, 1)
}

func TestCheck_OutOfWarranty(t *testing.T) {
	t.Parallel()
	c := NewChecker(fixedClock(2026))

	res := c.Check(2015, "BMW", 120000, "engine knock")
	assert.Empty(t, res.Alerts)
	assert.False(t, res.LikelyUnderWarranty)
	assert.Nil(t, res.Flag)
	assert.Equal(t, "4 years / 50,000 miles", res.TermsSummary.Powertrain)
}

func TestCheck_BoundariesAreExclusive(t *testing.T) {
	t.Parallel()
	c := NewChecker(fixedClock(2026))

	atAge := c.Check(2023, "Ford", 1000, "")
	assert.Equal(t, 3, atAge.VehicleAgeYears)
	for _, a := range atAge.Alerts {
		assert.NotEqual(t, CoverageBumperToBumper, a.Type)
	}

	atMiles := c.Check(2025, "Ford", 36000, "")
	for _, a := range atMiles.Alerts {
		assert.NotEqual(t, CoverageBumperToBumper, a.Type)
	}
}

func TestIsPowertrainRelated(t *testing.T) {
	t.Parallel()
	assert.True(t, IsPowertrainRelated("CV axle clicking"))
	assert.True(t, IsPowertrainRelated("Turbo whine"))
	assert.False(t, IsPowertrainRelated("Wipers streak"))
	assert.False(t, IsPowertrainRelated(""))
}
