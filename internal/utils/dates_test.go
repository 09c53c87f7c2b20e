package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	base := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)

	require.Equal(t, 0, DaysBetween(base, base))
	require.Equal(t, 1, DaysBetween(base, time.Date(2024, 3, 2, 0, 5, 0, 0, time.UTC)))
	require.Equal(t, 29, DaysBetween(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), base))
	require.Equal(t, -1, DaysBetween(base, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)))
}

func TestDaysBetweenIgnoresLocation(t *testing.T) {
	manaus := time.FixedZone("AMT", -4*3600)
	a := time.Date(2024, 6, 10, 22, 0, 0, 0, manaus)
	b := time.Date(2024, 6, 11, 1, 0, 0, 0, time.UTC)
	require.Equal(t, 1, DaysBetween(a, b))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-10")
	require.NoError(t, err)
	require.Equal(t, "2024-05-10", FormatDate(d))

	_, err = ParseDate("10/05/2024")
	require.Error(t, err)
}
