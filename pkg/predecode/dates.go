package predecode

import (
	"strconv"
	"time"
)

// date holds calendar fields carried by a timestamp
// zero values mean the layout did not provide that field
type date struct {
	year  int
	month time.Month
	day   int
	hour  string
}

var monthAbbrevs = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

func monthFromAbbrev(b []byte) (time.Month, bool) {
	m, ok := monthAbbrevs[string(b)]
	return m, ok
}

// number parses a fixed width field, a single leading space is tolerated for day of month
func (v view) number(from, to int) (int, bool) {
	if from < 0 || to > len(v.s) || from >= to {
		return 0, false
	}
	field := v.s[from:to]
	if field[0] == ' ' {
		field = field[1:]
	}
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (v view) monthName(from int) (time.Month, bool) {
	if from < 0 || from+3 > len(v.s) {
		return 0, false
	}
	return monthFromAbbrev([]byte(v.s[from : from+3]))
}

func (v view) monthNumber(from int) (time.Month, bool) {
	n, ok := v.number(from, from+2)
	if !ok || n < 1 || n > 12 {
		return 0, false
	}
	return time.Month(n), true
}

// clock validates HH:MM:SS at position
func (v view) clock(from int) (string, bool) {
	if from < 0 || from+8 > len(v.s) {
		return "", false
	}
	h, ok1 := v.number(from, from+2)
	m, ok2 := v.number(from+3, from+5)
	s, ok3 := v.number(from+6, from+8)
	if !ok1 || !ok2 || !ok3 || v.at(from+2) != ':' || v.at(from+5) != ':' {
		return "", false
	}
	if h > 23 || m > 59 || s > 60 {
		return "", false
	}
	return v.s[from : from+8], true
}

// dateFields holds field positions of a layout, year is -1 when layout carries none
type dateFields struct {
	year      int
	month     int
	monthName bool
	day       int
	clock     int
}

var dateLayouts = map[Format]dateFields{
	FormatSyslog:     {year: -1, month: 0, monthName: true, day: 4, clock: 7},
	FormatProftpd:    {year: 0, month: 5, day: 8, clock: 11},
	FormatISO8601:    {year: 0, month: 5, day: 8, clock: 11},
	FormatYearSyslog: {year: 0, month: 5, monthName: true, day: 9, clock: 12},
	FormatColonDate:  {year: 0, month: 5, day: 8, clock: 11},
	FormatXferlog:    {year: 20, month: 4, monthName: true, day: 8, clock: 11},
	FormatSnort:      {year: -1, month: 0, day: 3, clock: 6},
	FormatSuricata:   {year: 6, month: 0, day: 3, clock: 11},
	FormatApache:     {year: 21, month: 5, monthName: true, day: 9, clock: 12},
	FormatASL:        {year: 6, month: 11, day: 14, clock: 17},
}

// logDate extracts calendar fields for a matched layout
// Any invalid component discards the whole date
func (v view) logDate(format Format, loc *time.Location) (date, bool) {
	if format == FormatSquid {
		sec, ok := v.number(0, 10)
		if !ok {
			return date{}, false
		}
		t := time.Unix(int64(sec), 0).In(loc)
		return dateFromTime(t), true
	}
	f, ok := dateLayouts[format]
	if !ok {
		return date{}, false
	}
	var d date
	if f.year >= 0 {
		if d.year, ok = v.number(f.year, f.year+4); !ok || d.year == 0 {
			return date{}, false
		}
	}
	if f.monthName {
		d.month, ok = v.monthName(f.month)
	} else {
		d.month, ok = v.monthNumber(f.month)
	}
	if !ok {
		return date{}, false
	}
	if d.day, ok = v.number(f.day, f.day+2); !ok || d.day < 1 || d.day > 31 {
		return date{}, false
	}
	// reject days the month does not have, leap year assumed when year is unknown
	y := d.year
	if y == 0 {
		y = 2000
	}
	if time.Date(y, d.month, d.day, 0, 0, 0, 0, time.UTC).Day() != d.day {
		return date{}, false
	}
	if d.hour, ok = v.clock(f.clock); !ok {
		return date{}, false
	}
	return d, true
}

func dateFromTime(t time.Time) date {
	return date{
		year:  t.Year(),
		month: t.Month(),
		day:   t.Day(),
		hour:  t.Format("15:04:05"),
	}
}
