package pricing

import (
	"testing"

	"cleanly/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePrice(t *testing.T) {
	tests := []struct {
		name  string
		beds  int
		baths string
		want  int64
	}{
		{"one bed one bath", 1, "1", 15000},
		{"half bath only", 1, "0.5", 15000},
		{"extra bed", 2, "1", 20000},
		{"extra full bath", 1, "2", 20000},
		{"extra half bath", 1, "1.5", 17500},
		{"three beds two and a half baths", 3, "2.5", 27500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HomePrice(tt.beds, tt.baths)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHomePriceRejectsInvalidSizes(t *testing.T) {
	for _, tc := range []struct {
		beds  int
		baths string
	}{
		{0, "1"},
		{21, "1"},
		{1, "0"},
		{1, "1.25"},
		{1, "20.5"},
		{1, "two"},
	} {
		_, err := HomePrice(tc.beds, tc.baths)
		assert.Error(t, err, "beds=%d baths=%s", tc.beds, tc.baths)
	}
}

func TestAppointmentPrice(t *testing.T) {
	home := models.Home{NumBeds: 2, NumBaths: "1"}

	price, err := AppointmentPrice(home, true, true, models.Time12To2)
	require.NoError(t, err)
	assert.Equal(t, int64(20000+3000+1200+3000), price)

	price, err = AppointmentPrice(home, false, false, "")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), price)

	_, err = AppointmentPrice(home, false, false, "9-5")
	assert.Error(t, err)
}

func TestToggleDeltas(t *testing.T) {
	assert.Equal(t, int64(3000), SheetsDelta(false, true))
	assert.Equal(t, int64(-3000), SheetsDelta(true, false))
	assert.Zero(t, SheetsDelta(true, true))
	assert.Equal(t, int64(1200), TowelsDelta(false, true))
	assert.Equal(t, int64(-1200), TowelsDelta(true, false))
	assert.Zero(t, TowelsDelta(false, false))
}

func TestTimeDelta(t *testing.T) {
	d, err := TimeDelta(models.TimeAnytime, models.Time12To2)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), d)

	d, err = TimeDelta(models.Time12To2, models.Time10To3)
	require.NoError(t, err)
	assert.Equal(t, int64(-500), d)

	_, err = TimeDelta(models.TimeAnytime, "later")
	assert.Error(t, err)
}

func TestPercentOfAndSplit(t *testing.T) {
	assert.Equal(t, int64(1500), PercentOf(15000, decimal.NewFromInt(10)))
	assert.Equal(t, int64(3), PercentOf(25, decimal.NewFromInt(10)))
	assert.Equal(t, int64(300), PercentOf(15000, decimal.RequireFromString("2")))

	assert.Equal(t, []int64{3334, 3333, 3333}, SplitEvenly(10000, 3))
	assert.Equal(t, []int64{10000}, SplitEvenly(10000, 1))
	assert.Nil(t, SplitEvenly(10000, 0))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$150.00", FormatCents(15000))
	assert.Equal(t, "$0.05", FormatCents(5))
}
