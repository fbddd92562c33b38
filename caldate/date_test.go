package caldate_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bundlecodec/caldate"
	"github.com/arloliu/bundlecodec/model"
)

func mustEncode(t *testing.T, d model.Date) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, caldate.Encode(&buf, d))

	return buf.Bytes()
}

func TestUTCMidnight2010IsOneByte(t *testing.T) {
	d := model.Date{Year: 2010, DayOfYear: 1}
	b := mustEncode(t, d)
	require.Len(t, b, 1)

	got, err := caldate.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, d, got)
}

// TestRoundTripTestableInstants locks the exact encoded byte length this
// implementation chooses for each instant, as spec.md's date shortest-form
// property requires ("document-and-lock whatever values your
// implementation selects and keep them stable forever"): a UTC-midnight
// date-only value in 1 byte, a no-offset millisecond-precision instant in 7
// bytes (its 30-bit time-of-day payload), and two arbitrary-minute-offset
// millisecond-precision instants in 9 bytes (the 13-bit minute-granularity
// zone field on top of that payload). A future change to the bit layout that grows
// or shrinks any of these must update this test deliberately, not silently.
func TestRoundTripTestableInstants(t *testing.T) {
	cases := []struct {
		date      model.Date
		wantBytes int
	}{
		{model.Date{Year: 2010, DayOfYear: 1}, 1},
		{model.Date{Year: 2024, DayOfYear: 197, Hour: 12, Minute: 34, Second: 56, Millisecond: 789}, 7},
		{model.Date{Year: 2024, DayOfYear: 197, Hour: 12, Minute: 34, Second: 56, Millisecond: 789, TZOffsetMinutes: 5*60 + 30}, 9},
		{model.Date{Year: 1999, DayOfYear: 365, Hour: 23, Minute: 59, Second: 59, Millisecond: 999, TZOffsetMinutes: -(3*60 + 45)}, 9},
	}
	for _, c := range cases {
		b := mustEncode(t, c.date)
		require.Len(t, b, c.wantBytes)

		got, err := caldate.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		require.Equal(t, c.date, got)
	}
}

func TestWholeHourOffsetRoundTrip(t *testing.T) {
	for _, hours := range []int16{-16, -1, 0, 1, 15} {
		d := model.Date{Year: 2020, DayOfYear: 100, Hour: 8, TZOffsetMinutes: hours * 60}
		b := mustEncode(t, d)

		got, err := caldate.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		require.Equal(t, d, got)
	}
}

func TestArbitraryMinuteOffsetRoundTrip(t *testing.T) {
	for _, mins := range []int16{-720, -345, -1, 1, 345, 840} {
		if mins%60 == 0 {
			continue
		}
		d := model.Date{Year: 2020, DayOfYear: 1, TZOffsetMinutes: mins}
		b := mustEncode(t, d)

		got, err := caldate.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		require.Equal(t, d, got)
	}
}

func TestPrecisionTiers(t *testing.T) {
	base := model.Date{Year: 2020, DayOfYear: 50}

	midnight := base
	b := mustEncode(t, midnight)
	got, err := caldate.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, midnight, got)

	hourOnly := base
	hourOnly.Hour = 14
	b = mustEncode(t, hourOnly)
	got, err = caldate.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, hourOnly, got)

	hourMinute := base
	hourMinute.Hour = 14
	hourMinute.Minute = 30
	b = mustEncode(t, hourMinute)
	got, err = caldate.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, hourMinute, got)

	full := base
	full.Hour, full.Minute, full.Second, full.Millisecond = 14, 30, 15, 250
	b = mustEncode(t, full)
	got, err = caldate.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, full, got)
}

func TestYearBeforeAndAfterEpoch(t *testing.T) {
	for _, year := range []int32{1850, 2009, 2010, 2011, 2100, 9999} {
		d := model.Date{Year: year, DayOfYear: 200, Hour: 6, Minute: 7}
		b := mustEncode(t, d)

		got, err := caldate.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		require.Equal(t, d, got)
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	d := model.Date{Year: 2024, DayOfYear: 197, Hour: 12, Minute: 34, Second: 56, Millisecond: 789}
	b := mustEncode(t, d)
	require.Greater(t, len(b), 1)

	_, err := caldate.Decode(bytes.NewReader(b[:len(b)-1]))
	require.Error(t, err)
}
