package predecode

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isAlnum(c byte) bool {
	return isDigit(c) || isLower(c) || (c >= 'A' && c <= 'Z')
}

// isHostChar is the character class shared by hostname and program name scans
// A colon belongs to the token unless it starts the ": " terminator
func isHostChar(v view, pos int) bool {
	switch c := v.at(pos); {
	case isAlnum(c):
		return true
	case c == '.', c == '-', c == '_':
		return true
	case c == ':':
		next := v.at(pos + 1)
		return next != ' ' && next != 0
	default:
		return false
	}
}

// scanHost advances over valid hostname characters
func scanHost(v view, pos int) int {
	for isHostChar(v, pos) {
		pos++
	}
	return pos
}

func scanDigits(v view, pos int) int {
	for isDigit(v.at(pos)) {
		pos++
	}
	return pos
}

func scanAlnum(v view, pos int) int {
	for isAlnum(v.at(pos)) {
		pos++
	}
	return pos
}
