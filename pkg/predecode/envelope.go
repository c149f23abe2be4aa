package predecode

import (
	"bytes"
	"strings"
)

const idLen = 2

var agentArrow = []byte("->")

// SplitEnvelope separates location tag from payload in a queue record
// Record is formatted as id:location:message or id:(agent) ip->location:message
// where the id is a single queue byte followed by a colon
func SplitEnvelope(raw []byte) (location, payload string, err error) {
	if len(raw) < idLen {
		return "", "", &EnvelopeError{Raw: raw, Reason: "record shorter than message id"}
	}
	msg := raw[idLen:]

	sep := bytes.IndexByte(msg, ':')
	if sep < 0 {
		return "", "", &EnvelopeError{Raw: raw, Reason: "missing location separator"}
	}

	// agent tags embed their own colons
	if msg[0] == '(' {
		arrow := bytes.Index(msg, agentArrow)
		if arrow < 0 {
			return "", "", &EnvelopeError{Raw: raw, Reason: "agent record without ->"}
		}
		next := bytes.IndexByte(msg[arrow:], ':')
		if next < 0 {
			return "", "", &EnvelopeError{Raw: raw, Reason: "missing location separator after ->"}
		}
		sep = arrow + next
	}
	if sep == 0 {
		return "", "", &EnvelopeError{Raw: raw, Reason: "empty location"}
	}

	// string conversion copies, neither value aliases raw
	return string(msg[:sep]), string(msg[sep+1:]), nil
}

// SafeLocation rewrites a location so SplitEnvelope returns it unchanged in meaning
// Colons become dots and a leading '(' that would mark an agent record becomes '_'
func SafeLocation(location string) string {
	location = strings.ReplaceAll(location, ":", ".")
	if strings.HasPrefix(location, "(") {
		location = "_" + location[1:]
	}
	return location
}
