package item

import (
	"fmt"
	"time"
)

// Zone is the caller-supplied context a raw timestamp is interpreted
// against. Raw timestamps are stored relative to GMT; the zone shifts them
// into civil time.
type Zone struct {
	GMTOffset int  // hours east of GMT
	DST       bool // one extra hour when set
}

// Timestamp is a decoded civil date-time. Date and time halves are
// independently optional: the wire format has sentinel patterns for
// "any date" and "all day", which decode to HasDate/HasTime false rather
// than an error.
type Timestamp struct {
	Year      int
	Month     time.Month
	Day       int
	Hour      int
	Minute    int
	Second    int
	Hundredth int

	HasDate bool
	HasTime bool
}

func (ts Timestamp) String() string {
	switch {
	case ts.HasDate && ts.HasTime:
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%02d",
			ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Hundredth)
	case ts.HasDate:
		return fmt.Sprintf("%04d-%02d-%02d", ts.Year, ts.Month, ts.Day)
	case ts.HasTime:
		return fmt.Sprintf("%02d:%02d:%02d.%02d", ts.Hour, ts.Minute, ts.Second, ts.Hundredth)
	default:
		return "(absent)"
	}
}

// GoTime converts the timestamp to a time.Time in loc. The second return
// is false when the timestamp has no date half.
func (ts Timestamp) GoTime(loc *time.Location) (time.Time, bool) {
	if !ts.HasDate {
		return time.Time{}, false
	}
	return time.Date(ts.Year, ts.Month, ts.Day,
		ts.Hour, ts.Minute, ts.Second, ts.Hundredth*int(10*time.Millisecond), loc), true
}

// Wire size and sentinels of a raw timestamp: two 32-bit words, the first
// holding hundredths of a second since midnight GMT, the second the julian
// day number in its low 24 bits.
const (
	timeDateSize      = 8
	sentinelAllDay    = 0xFFFFFFFF // first word: no time half
	sentinelAnyDay    = 0xFFFFFFFF // second word: no date half
	julianDayMask     = 0x00FFFFFF
	hundredthsPerDay  = 24 * 60 * 60 * 100
	hundredthsPerHour = 60 * 60 * 100
)

func (z Zone) shiftHundredths() int {
	shift := z.GMTOffset * hundredthsPerHour
	if z.DST {
		shift += hundredthsPerHour
	}
	return shift
}

// decodeTimeDate unpacks one raw 8-byte timestamp into civil time under
// zone. The time half only shifts when both halves are present; a bare
// date and a bare clock time pass through untouched.
func decodeTimeDate(word0, word1 uint32, zone Zone) Timestamp {
	var ts Timestamp
	ts.HasTime = word0 != sentinelAllDay
	ts.HasDate = word1 != sentinelAnyDay

	julian := int(word1 & julianDayMask)
	dayClock := int(word0)

	if ts.HasDate && ts.HasTime {
		dayClock += zone.shiftHundredths()
		days := floorDiv(dayClock, hundredthsPerDay)
		julian += days
		dayClock -= days * hundredthsPerDay
	}

	if ts.HasDate {
		ts.Year, ts.Month, ts.Day = julianToCalendar(julian)
	}
	if ts.HasTime {
		ts.Hundredth = dayClock % 100
		dayClock /= 100
		ts.Second = dayClock % 60
		dayClock /= 60
		ts.Minute = dayClock % 60
		ts.Hour = dayClock / 60
	}
	return ts
}

// encodeTimeDate packs a civil timestamp back into the two raw words.
// Inverse of decodeTimeDate under the same zone.
func encodeTimeDate(ts Timestamp, zone Zone) (word0, word1 uint32) {
	word0 = sentinelAllDay
	word1 = sentinelAnyDay

	dayClock := ((ts.Hour*60+ts.Minute)*60+ts.Second)*100 + ts.Hundredth
	julian := 0
	if ts.HasDate {
		julian = calendarToJulian(ts.Year, ts.Month, ts.Day)
	}

	if ts.HasDate && ts.HasTime {
		dayClock -= zone.shiftHundredths()
		days := floorDiv(dayClock, hundredthsPerDay)
		julian += days
		dayClock -= days * hundredthsPerDay
	}

	if ts.HasTime {
		word0 = uint32(dayClock)
	}
	if ts.HasDate {
		word1 = uint32(julian) & julianDayMask
	}
	return word0, word1
}

// julianToCalendar converts a julian day number to a Gregorian calendar
// date (Fliegel & Van Flandern).
func julianToCalendar(jd int) (year int, month time.Month, day int) {
	l := jd + 68569
	n := 4 * l / 146097
	l = l - (146097*n+3)/4
	i := 4000 * (l + 1) / 1461001
	l = l - 1461*i/4 + 31
	j := 80 * l / 2447
	day = l - 2447*j/80
	l = j / 11
	month = time.Month(j + 2 - 12*l)
	year = 100*(n-49) + i + l
	return year, month, day
}

// calendarToJulian converts a Gregorian calendar date to a julian day
// number. Inverse of julianToCalendar.
func calendarToJulian(year int, month time.Month, day int) int {
	m := int(month)
	return day - 32075 +
		1461*(year+4800+(m-14)/12)/4 +
		367*(m-2-(m-14)/12*12)/12 -
		3*((year+4900+(m-14)/12)/100)/4
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
