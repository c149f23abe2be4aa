package predecode

// byteAt pins a literal byte to a fixed position in payload
type byteAt struct {
	pos int
	c   byte
}

// layout describes one timestamp format purely by its byte positions
// no scanning or backtracking is done while matching
type layout struct {
	format Format

	// payload must be at least this long for layout to be considered
	minLen int

	fixed  []byteAt
	digits []int

	// bytes consumed when layout matches
	advance int

	// optional refinement for layouts with variable length, returns consumed bytes
	tail func(v view) (int, bool)
}

func (l layout) match(v view) (int, bool) {
	if v.size < l.minLen {
		return 0, false
	}
	for _, f := range l.fixed {
		if v.at(f.pos) != f.c {
			return 0, false
		}
	}
	for _, pos := range l.digits {
		if !isDigit(v.at(pos)) {
			return 0, false
		}
	}
	if l.tail != nil {
		return l.tail(v)
	}
	return l.advance, true
}

// layouts in matching priority, first hit wins
var layouts = []layout{
	{
		// Dec 29 10:00:01
		format:  FormatSyslog,
		minLen:  17,
		fixed:   []byteAt{{3, ' '}, {6, ' '}, {9, ':'}, {12, ':'}, {15, ' '}},
		advance: 16,
	},
	{
		// 2015-04-16 21:51:02,805
		format:  FormatProftpd,
		minLen:  24,
		fixed:   []byteAt{{4, '-'}, {7, '-'}, {10, ' '}, {13, ':'}, {16, ':'}, {19, ','}},
		advance: 23,
	},
	{
		// 2007-06-14T15:48:55-04:00 or 2009-05-22T09:36:46.214994-07:00
		format: FormatISO8601,
		minLen: 33,
		fixed:  []byteAt{{4, '-'}, {7, '-'}, {10, 'T'}, {13, ':'}, {16, ':'}},
		tail:   isoZone,
	},
	{
		// 2015 Dec 29 10:00:01
		format:  FormatYearSyslog,
		minLen:  21,
		fixed:   []byteAt{{4, ' '}, {8, ' '}, {11, ' '}, {14, ':'}, {17, ':'}, {20, ' '}},
		digits:  []int{0},
		advance: 21,
	},
	{
		// 2019:11:06-00:08:03
		format:  FormatColonDate,
		minLen:  20,
		fixed:   []byteAt{{4, ':'}, {7, ':'}, {10, '-'}, {13, ':'}, {16, ':'}},
		digits:  []int{0},
		advance: 20,
	},
	{
		// Mon Apr 17 18:27:14 2006 1 64.160.42.130
		format:  FormatXferlog,
		minLen:  28,
		fixed:   []byteAt{{3, ' '}, {7, ' '}, {10, ' '}, {13, ':'}, {16, ':'}, {19, ' '}, {24, ' '}, {26, ' '}},
		advance: 24,
	},
	{
		// 01/28-09:13:16.240702  [**]
		format:  FormatSnort,
		minLen:  24,
		fixed:   []byteAt{{2, '/'}, {5, '-'}, {8, ':'}, {11, ':'}, {14, '.'}, {21, ' '}},
		advance: 23,
	},
	{
		// 01/28/1979-09:13:16.240702  [**]
		format:  FormatSuricata,
		minLen:  26,
		fixed:   []byteAt{{2, '/'}, {5, '/'}, {10, '-'}, {13, ':'}, {16, ':'}, {19, '.'}, {26, ' '}},
		advance: 28,
	},
	{
		// [Fri Feb 11 18:06:35 2004] [warn]
		format:  FormatApache,
		minLen:  27,
		fixed:   []byteAt{{0, '['}, {4, ' '}, {8, ' '}, {11, ' '}, {14, ':'}, {17, ':'}, {20, ' '}, {25, ']'}},
		advance: 27,
	},
	{
		// [Time 2006.12.28 15:53:55 UTC] [Facility auth] [Sender sshd] ...
		format:  FormatASL,
		minLen:  26,
		fixed:   []byteAt{{0, '['}, {1, 'T'}, {5, ' '}, {10, '.'}, {13, '.'}, {16, ' '}, {19, ':'}},
		advance: 25,
	},
	{
		// 1140804070.368  11623
		format: FormatSquid,
		minLen: 32,
		fixed:  []byteAt{{0, '1'}, {10, '.'}, {14, ' '}},
		digits: []int{1, 2, 3, 13},
		tail:   squidSize,
	},
}

// isoZone resolves the timezone offset, fractional seconds are only accepted
// when the zone colon sits at positions 24 to 29
func isoZone(v view) (int, bool) {
	if v.at(22) == ':' && v.at(25) == ' ' {
		return 26, true
	}
	if c := v.at(19); c == '.' || c == ',' {
		for pos := 24; pos <= 29; pos++ {
			if v.at(pos) == ':' {
				return pos + 3, true
			}
		}
	}
	return 0, false
}

// squidSize requires elapsed time column and skips padding up to it
func squidSize(v view) (int, bool) {
	if v.at(21) != ' ' && v.at(22) != ' ' {
		return 0, false
	}
	pos := 14
	for v.at(pos) == ' ' {
		pos++
	}
	return pos, true
}

// Match is the outcome of timestamp recognition
type Match struct {
	Format Format
	// Offset is the position in payload right after the timestamp
	// For syslog style layouts a single trailing space is included
	Offset int
}

// Recognize finds the timestamp layout at the start of payload
// Absence of a match is not an error, Format is FormatNone and Offset is 0
func Recognize(payload string) Match {
	v := newView(payload)
	l, offset, ok := v.recognize()
	if !ok {
		return Match{}
	}
	if l.format.HasSyslogHeader() && v.at(offset) == ' ' {
		offset++
	}
	return Match{Format: l.format, Offset: v.orig(offset)}
}

func (v view) recognize() (*layout, int, bool) {
	for i := range layouts {
		if offset, ok := layouts[i].match(v); ok {
			return &layouts[i], offset, true
		}
	}
	return nil, 0, false
}
