package syslog

import (
	"bytes"
	"errors"
	"net"

	"github.com/influxdata/go-syslog/v3/rfc5424"

	"go-predecode/pkg/predecode"
)

// BSDStamp is the timestamp layout emitted for converted RFC5424 messages
const BSDStamp = "Jan _2 15:04:05"

var ErrEmptyDatagram = errors.New("empty syslog datagram")

// Normalizer turns syslog datagrams into syslog queue records
// Not safe for concurrent use, every worker needs its own instance
type Normalizer struct {
	parser bestEffort
}

func NewNormalizer() *Normalizer {
	return &Normalizer{parser: bestEffort{p: rfc5424.NewParser(rfc5424.WithBestEffort())}}
}

// Record converts a datagram from sender into "2:<sender>:<bsd line>"
func (n *Normalizer) Record(datagram []byte, sender net.IP) ([]byte, error) {
	line := bytes.TrimRight(datagram, "\r\n\x00")
	if len(line) == 0 {
		return nil, ErrEmptyDatagram
	}
	body, isRFC5424 := stripPriority(line)
	if isRFC5424 {
		if converted, err := n.convert(line, sender); err == nil {
			body = converted
		}
	}
	if len(body) == 0 {
		return nil, ErrEmptyDatagram
	}
	location := Location(sender)
	out := make([]byte, 0, len(body)+len(location)+3)
	out = append(out, '2', ':')
	out = append(out, location...)
	out = append(out, ':')
	return append(out, body...), nil
}

// Location renders sender address so it can not be confused with envelope separator
func Location(sender net.IP) string {
	if sender == nil {
		return "unknown"
	}
	if v4 := sender.To4(); v4 != nil {
		return v4.String()
	}
	return predecode.SafeLocation(sender.String())
}

// stripPriority removes leading <PRI> and reports whether RFC5424 version follows it
func stripPriority(line []byte) ([]byte, bool) {
	if len(line) < 3 || line[0] != '<' {
		return line, false
	}
	head := line
	if len(head) > 5 {
		head = head[:5]
	}
	end := bytes.IndexByte(head, '>')
	if end < 2 {
		return line, false
	}
	for _, c := range line[1:end] {
		if c < '0' || c > '9' {
			return line, false
		}
	}
	body := line[end+1:]
	return body, len(body) > 1 && body[0] == '1' && body[1] == ' '
}

func (n *Normalizer) convert(line []byte, sender net.IP) ([]byte, error) {
	msg, err := n.parser.Parse(line)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	b.WriteString(msg.timestamp.Format(BSDStamp))
	b.WriteByte(' ')
	if msg.hostname != "" {
		b.WriteString(msg.hostname)
	} else {
		b.WriteString(Location(sender))
	}
	b.WriteByte(' ')
	if msg.appname != "" {
		b.WriteString(msg.appname)
		if msg.procid != "" {
			b.WriteByte('[')
			b.WriteString(msg.procid)
			b.WriteByte(']')
		}
		b.WriteString(": ")
	}
	b.WriteString(msg.message)
	return b.Bytes(), nil
}
