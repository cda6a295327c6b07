package accounting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSalarySharesEqually(t *testing.T) {
	days := []WorkDay{
		{
			Date:        time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			ProductName: "Blok 20x20x40",
			Quantity:    300,
			PaymentRate: 500,
			Workers:     []string{"Anvar", "Bekzod", "Davron"},
		},
		{
			Date:        time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
			ProductName: "Blok 20x20x40",
			Quantity:    150,
			PaymentRate: 500,
			Workers:     []string{"Anvar"},
		},
	}

	details, summary := CalculateSalary(days)
	require.Len(t, details, 2)

	// 300*500 = 150000 split three ways.
	assert.InDelta(t, 150000, details[0].Payment, 0.01)
	assert.InDelta(t, 50000, details[0].Share, 0.01)
	// 150*500 = 75000 to a single worker.
	assert.InDelta(t, 75000, details[1].Share, 0.01)

	require.Len(t, summary.Workers, 3)
	assert.Equal(t, "Anvar", summary.Workers[0].Name)
	assert.InDelta(t, 125000, summary.Workers[0].Total, 0.01)
	assert.InDelta(t, 50000, summary.Workers[1].Total, 0.01)
	assert.InDelta(t, 225000, summary.Total, 0.01)
}

func TestCalculateSalaryNoWorkers(t *testing.T) {
	days := []WorkDay{{
		Date:        time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC),
		ProductName: "Lenta 30",
		Quantity:    100,
		PaymentRate: 400,
	}}

	details, summary := CalculateSalary(days)
	require.Len(t, details, 1)
	assert.Zero(t, details[0].Share)
	assert.InDelta(t, 40000, details[0].Payment, 0.01)
	assert.Empty(t, summary.Workers)
	assert.Zero(t, summary.Total)
}

func TestCalculateSalaryRoundsToThousand(t *testing.T) {
	days := []WorkDay{{
		Date:        time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		ProductName: "Blok",
		Quantity:    100,
		PaymentRate: 505, // 50500 split two ways: 25250 each
		Workers:     []string{"Anvar", "Bekzod"},
	}}

	_, summary := CalculateSalary(days)
	require.Len(t, summary.Workers, 2)
	assert.InDelta(t, 25000, summary.Workers[0].Total, 0.01)
	assert.InDelta(t, 50000, summary.Total, 0.01)
}

func TestRoundToThousand(t *testing.T) {
	assert.InDelta(t, 25000, RoundToThousand(25499), 0.01)
	assert.InDelta(t, 26000, RoundToThousand(25500), 0.01)
	assert.InDelta(t, 0, RoundToThousand(400), 0.01)
}

func TestPeriodResolve(t *testing.T) {
	now := time.Date(2025, 9, 1, 15, 30, 0, 0, time.UTC)

	from, to, err := PeriodWeekly.Resolve(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), to)

	from, _, err = PeriodMonthly.Resolve(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), from)

	from, to, err = PeriodAll.Resolve(now)
	require.NoError(t, err)
	assert.Equal(t, 2000, from.Year())
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), to)

	_, _, err = Period("yearly").Resolve(now)
	assert.Error(t, err)
}

func TestMonthRange(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	from, to := MonthRange(time.February, now)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), to)

	from, to = MonthRange(time.December, now)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), to)
}
