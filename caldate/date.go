// Package caldate implements the bit-packed calendar encoding used by V3
// DATE properties: a single zig-zag VarLong whose low bits carry a
// time-zone discriminator, then a time-of-day precision tag and payload,
// then a 9-bit day-of-year, with the remaining high bits holding a signed
// year offset from 2010. Writers choose the narrowest legal representation
// so common instants — date-only, UTC, whole-hour offsets — fit in few
// bytes; readers invert the encoding exactly regardless of which form was
// chosen.
package caldate

import (
	"io"

	"github.com/arloliu/bundlecodec/bcerrs"
	"github.com/arloliu/bundlecodec/model"
	"github.com/arloliu/bundlecodec/varint"
)

// yearEpoch is the year against which the packed year offset is taken.
const yearEpoch = 2010

const (
	tzUTC        = 0 // bit0 == 0
	tzWholeHour  = 1 // bits 0..1 == 01 (bit1:bit0)
	tzMinuteOffs = 3 // bits 0..1 == 11
)

const (
	precMidnight = 0
	precHour     = 1
	precMinute   = 2
	precMillis   = 3
)

// Encode writes d as a zig-zag VarLong, choosing the narrowest legal
// time-zone and time-of-day representation for its field values.
func Encode(w io.Writer, d model.Date) error {
	v, err := pack(d)
	if err != nil {
		return err
	}

	return varint.WriteVarLong(w, v)
}

// Decode reads a date written by Encode.
func Decode(r io.Reader) (model.Date, error) {
	v, err := varint.ReadVarLong(r)
	if err != nil {
		return model.Date{}, err
	}

	return unpack(v)
}

func pack(d model.Date) (int64, error) {
	if d.DayOfYear < 1 || d.DayOfYear > 366 {
		return 0, bcerrs.ErrInvalidFormat
	}

	tzBits, tzWidth, err := packTZ(d.TZOffsetMinutes)
	if err != nil {
		return 0, err
	}

	timeBits, timeWidth, precTag := packTimeOfDay(d.Hour, d.Minute, d.Second, d.Millisecond)

	lowWidth := tzWidth + 2 + timeWidth + 9
	low := tzBits
	low |= uint64(precTag) << tzWidth
	low |= timeBits << (tzWidth + 2)
	low |= uint64(d.DayOfYear) << (tzWidth + 2 + timeWidth)

	yearOffset := int64(d.Year) - yearEpoch
	v := (yearOffset << lowWidth) | int64(low) //nolint:gosec

	return v, nil
}

func unpack(v int64) (model.Date, error) {
	var d model.Date

	uv := uint64(v) //nolint:gosec

	var tzWidth uint
	switch uv & 1 {
	case 0:
		d.TZOffsetMinutes = 0
		tzWidth = 1
	default:
		switch uv & 3 {
		case tzWholeHour:
			code := signExtend64(uv>>2, 5)
			d.TZOffsetMinutes = int16(code * 60) //nolint:gosec
			tzWidth = 7
		case tzMinuteOffs:
			d.TZOffsetMinutes = int16(signExtend64(uv>>2, 11)) //nolint:gosec
			tzWidth = 13
		default:
			return model.Date{}, bcerrs.ErrInvalidFormat
		}
	}
	v >>= tzWidth
	uv = uint64(v) //nolint:gosec

	precTag := uv & 3
	v >>= 2
	uv = uint64(v) //nolint:gosec

	switch precTag {
	case precMidnight:
	case precHour:
		d.Hour = uint8(uv & 0x1F) //nolint:gosec
		v >>= 5
	case precMinute:
		total := uv & 0x7FF
		d.Hour = uint8(total / 60)   //nolint:gosec
		d.Minute = uint8(total % 60) //nolint:gosec
		v >>= 11
	case precMillis:
		total := uv & 0x3FFFFFFF
		d.Hour = uint8(total / 3_600_000)            //nolint:gosec
		d.Minute = uint8((total / 60_000) % 60)       //nolint:gosec
		d.Second = uint8((total / 1_000) % 60)        //nolint:gosec
		d.Millisecond = uint16(total % 1_000)         //nolint:gosec
		v >>= 30
	default:
		return model.Date{}, bcerrs.ErrInvalidFormat
	}
	uv = uint64(v) //nolint:gosec

	d.DayOfYear = int16(uv & 0x1FF) //nolint:gosec
	v >>= 9

	d.Year = int32(v) + yearEpoch //nolint:gosec

	return d, nil
}

// packTZ returns the low-order bits encoding offsetMinutes and how many of
// them are significant, choosing UTC, then whole-hour, then arbitrary
// minute offset, in that order of preference.
func packTZ(offsetMinutes int16) (bits uint64, width uint, err error) {
	if offsetMinutes == 0 {
		return 0, 1, nil
	}
	if offsetMinutes%60 == 0 {
		hours := offsetMinutes / 60
		if hours >= -16 && hours <= 15 {
			code := uint64(hours) & 0x1F
			return tzWholeHour | (code << 2), 7, nil
		}
	}
	if offsetMinutes < -1024 || offsetMinutes > 1023 {
		return 0, 0, bcerrs.ErrInvalidFormat
	}
	code := uint64(offsetMinutes) & 0x7FF
	return tzMinuteOffs | (code << 2), 13, nil
}

// packTimeOfDay returns the time-of-day payload bits, their width, and the
// 2-bit precision tag selecting the narrowest representation that is exact
// for the given fields.
func packTimeOfDay(hour, minute, second uint8, ms uint16) (bits uint64, width uint, tag uint64) {
	if minute == 0 && second == 0 && ms == 0 {
		if hour == 0 {
			return 0, 0, precMidnight
		}

		return uint64(hour), 5, precHour
	}
	if second == 0 && ms == 0 {
		total := uint64(hour)*60 + uint64(minute)

		return total, 11, precMinute
	}
	total := uint64(hour)*3_600_000 + uint64(minute)*60_000 + uint64(second)*1_000 + uint64(ms)

	return total, 30, precMillis
}

// signExtend64 interprets the low `bits` bits of v as a two's-complement
// signed integer of that width and sign-extends it to a full int64.
func signExtend64(v uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(v<<shift) >> shift //nolint:gosec
}
