package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	r, err := Parse("", "")
	require.NoError(t, err)
	require.True(t, r.IsZero())
	require.True(t, r.Contains(time.Now()))
}

func TestParse_AcceptedLayouts(t *testing.T) {
	for _, value := range []string{
		"2024-01-15",
		"2024-01-15T10:30:00",
		"2024-01-15T10:30:00Z",
	} {
		r, err := Parse(value, "")
		require.NoError(t, err, value)
		require.NotNil(t, r.From, value)
	}
}

func TestParse_InvalidStartDate(t *testing.T) {
	_, err := Parse("not-a-date", "")
	require.Error(t, err)
	require.EqualError(t, err, "Invalid startDate format")
}

func TestParse_InvalidEndDate(t *testing.T) {
	_, err := Parse("2024-01-15", "nope")
	require.Error(t, err)
	require.EqualError(t, err, "Invalid endDate format")
}

func TestContains_InclusiveBounds(t *testing.T) {
	r, err := Parse("2024-01-01", "2024-01-31")
	require.NoError(t, err)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	require.True(t, r.Contains(from))
	require.True(t, r.Contains(to))
	require.True(t, r.Contains(from.Add(24*time.Hour)))
	require.False(t, r.Contains(from.Add(-time.Second)))
	require.False(t, r.Contains(to.Add(time.Second)))
}

func TestNewLabel_Defaults(t *testing.T) {
	label := NewLabel("", "")
	require.Equal(t, "all time", label.From)
	require.Equal(t, "present", label.To)

	label = NewLabel("2024-01-01", "")
	require.Equal(t, "2024-01-01", label.From)
	require.Equal(t, "present", label.To)

	label = NewLabel("", "2024-12-31")
	require.Equal(t, "all time", label.From)
	require.Equal(t, "2024-12-31", label.To)
}
