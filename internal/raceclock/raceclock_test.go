package raceclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "early afternoon hour shifts to PM", raw: "01:00", want: 13 * 60},
		{name: "mid afternoon", raw: "03:45", want: 15*60 + 45},
		{name: "latest afternoon hour shifts to PM", raw: "08:40", want: 20*60 + 40},
		{name: "morning race stays AM", raw: "11:30", want: 11*60 + 30},
		{name: "nine o'clock stays AM", raw: "09:15", want: 9*60 + 15},
		{name: "noon stays as is", raw: "12:05", want: 12*60 + 5},
		{name: "already 24-hour PM", raw: "14:30", want: 14*60 + 30},
		{name: "single digit hour", raw: "2:30", want: 14*60 + 30},
		{name: "seconds are tolerated", raw: "04:20:00", want: 16*60 + 20},
		{name: "surrounding whitespace", raw: " 05:10 ", want: 17*60 + 10},
		{name: "empty string", raw: "", wantErr: true},
		{name: "no separator", raw: "1430", wantErr: true},
		{name: "non-numeric hour", raw: "ab:cd", wantErr: true},
		{name: "hour out of range", raw: "25:00", wantErr: true},
		{name: "minute out of range", raw: "10:75", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeOrdering(t *testing.T) {
	// An 11:30 morning race must sort before every afternoon race even
	// though its raw hour is numerically larger.
	morning, err := Normalize("11:30")
	require.NoError(t, err)
	afternoon, err := Normalize("01:15")
	require.NoError(t, err)
	evening, err := Normalize("08:00")
	require.NoError(t, err)

	assert.Less(t, morning, afternoon)
	assert.Less(t, afternoon, evening)
}

func TestMustNormalize(t *testing.T) {
	assert.Equal(t, 13*60+15, MustNormalize("01:15"))
	assert.Equal(t, 0, MustNormalize("garbage"))
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	clock := NewFixedClock(instant)

	assert.Equal(t, instant, clock.Now())
	assert.Equal(t, 14*60+5, clock.Minutes())
	assert.Equal(t, "2026-08-30", clock.Today())
}

func TestSystemClockUsesLocation(t *testing.T) {
	clock := NewSystemClock(time.UTC)
	require.NotNil(t, clock)

	minutes := clock.Minutes()
	assert.GreaterOrEqual(t, minutes, 0)
	assert.Less(t, minutes, 24*60)
	assert.Len(t, clock.Today(), len("2006-01-02"))
}
