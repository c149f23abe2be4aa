package predecode

import "strings"

// view is a read only window over payload used by all matchers
// reads past the end yield 0, so fixed position checks never go out of bounds
type view struct {
	s string

	// length of the original payload, used for layout length guards
	size int

	// normalized positions >0 map to s[pos+shift] in the original payload
	shift int
}

// utf-8 encoded 'ä' as rendered in german "Mär"
const (
	umlautLead  = 0xC3
	umlautTrail = 0xA4
)

func newView(payload string) view {
	v := view{s: payload, size: len(payload)}
	if len(payload) > 2 && payload[1] == umlautLead && payload[2] == umlautTrail {
		// fold two byte umlaut into ascii so month abbreviation keeps its width
		v.s = payload[:1] + "a" + payload[3:]
		v.shift = 1
	}
	return v
}

func (v view) at(pos int) byte {
	if pos < 0 || pos >= len(v.s) {
		return 0
	}
	return v.s[pos]
}

func (v view) len() int { return len(v.s) }

// orig translates normalized position into original payload position
func (v view) orig(pos int) int {
	if pos <= 0 {
		return 0
	}
	return pos + v.shift
}

func (v view) hasPrefixAt(pos int, prefix string) bool {
	if pos < 0 || pos+len(prefix) > len(v.s) {
		return false
	}
	return v.s[pos:pos+len(prefix)] == prefix
}

func (v view) indexByteFrom(pos int, c byte) int {
	if pos < 0 || pos >= len(v.s) {
		return -1
	}
	if idx := strings.IndexByte(v.s[pos:], c); idx >= 0 {
		return pos + idx
	}
	return -1
}
