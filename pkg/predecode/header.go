package predecode

// span is a half open byte range in normalized payload
type span struct {
	start, end int
}

func (s span) empty() bool { return s.end <= s.start }

func (s span) String(v view) string {
	if s.empty() {
		return ""
	}
	return v.s[s.start:s.end]
}

// header holds syslog header fields found after a timestamp
type header struct {
	host    span
	program span
	// where message body starts
	log int
}

// Header is the exported view of host and program extraction
type Header struct {
	Hostname    string
	ProgramName string
	// LogStart is the position where message body begins
	LogStart int
}

// ExtractHeader pulls hostname and program name from payload starting at cursor
// Supported forms are
//
//	host program: msg
//	host program[pid]: msg
//	host program[pid] msg
//	host facility|x:severity program: msg (AIX)
//	program: msg (Solaris, no hostname)
//
// Any mismatch leaves fields empty, it never fails
func ExtractHeader(payload string, cursor int) Header {
	v := view{s: payload, size: len(payload)}
	h := extractHeader(v, cursor)
	return Header{
		Hostname:    h.host.String(v),
		ProgramName: h.program.String(v),
		LogStart:    h.log,
	}
}

func extractHeader(v view, cursor int) header {
	h := header{log: cursor}
	pos := scanHost(v, cursor)

	// solaris 8/9 messages come without hostname
	if v.at(pos) == ':' && v.at(pos+1) == ' ' {
		h.program = span{cursor, pos}
		h.log = skipMessageID(v, pos+2)
		return h
	}
	if v.at(pos) != ' ' {
		// invalid hostname, body starts at cursor
		return h
	}
	h.host = span{cursor, pos}
	pos++
	h.log = pos

	program, next, ok := programName(v, pos, false)
	if !ok {
		return h
	}
	h.program = program
	h.log = skipMessageID(v, next)
	return h
}

// programName parses program[: ] or program[pid][: ] starting at pos
// AIX headers recurse once with aix set, that dialect always terminates with a colon
func programName(v view, pos int, aix bool) (span, int, bool) {
	start := pos
	pos = scanHost(v, pos)

	switch c := v.at(pos); {
	case c == ':' && v.at(pos+1) == ' ':
		return span{start, pos}, pos + 2, true

	case c == '[' && isDigit(v.at(pos+1)):
		end := pos
		pos = scanDigits(v, pos+1)
		if v.at(pos) == ']' && v.at(pos+1) == ':' && v.at(pos+2) == ' ' {
			return span{start, end}, pos + 3, true
		}
		// some systems do not terminate program name with a colon
		if !aix && v.at(pos) == ']' && v.at(pos+1) == ' ' {
			return span{start, end}, pos + 2, true
		}
		return span{}, 0, false

	case !aix && c == '|' && isLower(v.at(pos+1)):
		// facility
		pos = scanAlnum(v, pos+2)
		if v.at(pos) != ':' {
			return span{}, 0, false
		}
		// severity
		pos = scanAlnum(v, pos+1)
		if v.at(pos) != ' ' {
			return span{}, 0, false
		}
		return programName(v, pos+1, true)
	}
	return span{}, 0, false
}

// skipMessageID drops BSD "[ID nnn facility.severity] " tag
func skipMessageID(v view, pos int) int {
	if !v.hasPrefixAt(pos, "[ID ") {
		return pos
	}
	end := v.indexByteFrom(pos+4, ']')
	if end < 0 {
		return pos
	}
	// closing bracket and following separator
	if next := end + 2; next <= v.len() {
		return next
	}
	return v.len()
}
