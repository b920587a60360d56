package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "plain HH:MM", input: "09:30", want: "09:30"},
		{name: "postgres HH:MM:SS", input: "09:30:00", want: "09:30"},
		{name: "single digit hour", input: "9:05", want: "09:05"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "last minute", input: "23:59", want: "23:59"},
		{name: "midnight window boundary", input: "24:00", want: "24:00"},
		{name: "postgres midnight boundary", input: "24:00:00", want: "24:00"},
		{name: "hour out of range", input: "24:30", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	assert.Equal(t, 0, TimeString("00:00").Minutes())
	assert.Equal(t, 570, TimeString("09:30").Minutes())
	assert.Equal(t, 23*60+59, TimeString("23:59").Minutes())
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	// Ровно полночь допустима как граница интервала
	got, err = TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	// За полночь - ошибка
	_, err = TimeString("23:30").AddMinutes(31)
	require.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("10:00").IsAfter("09:30"))
	assert.False(t, TimeString("09:30").IsAfter("09:30"))

	// "24:00" строго позже любого времени суток
	assert.True(t, TimeString("24:00").IsAfter("23:59"))
	assert.True(t, TimeString("23:59").IsBefore("24:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:05:00")))
	assert.Equal(t, TimeString("08:05"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 10, 15, 11, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("11:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	require.Error(t, ts.Scan(12345))

	// Окно до полуночи хранится в Postgres как '24:00:00'
	require.NoError(t, ts.Scan("24:00:00"))
	assert.Equal(t, TimeString("24:00"), ts)
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("09:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", v)

	// Граница "24:00" пишется обратно как есть
	v, err = TimeString("24:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "24:00:00", v)

	_, err = TimeString("25:00").Value()
	require.Error(t, err)

	// Как НАЧАЛО времени "24:00" остается недопустимым
	require.Error(t, TimeString("24:00").Validate())
}
