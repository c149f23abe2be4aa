package syslog

import (
	"errors"
	"time"

	gosyslog "github.com/influxdata/go-syslog/v3"
	"github.com/influxdata/go-syslog/v3/rfc5424"
)

// message holds RFC5424 fields needed for BSD rendering
type message struct {
	timestamp time.Time
	hostname  string
	appname   string
	procid    string
	message   string
}

var errNoTimestamp = errors.New("rfc5424 message without timestamp")

type bestEffort struct {
	p gosyslog.Machine
}

func (b bestEffort) Parse(data []byte) (message, error) {
	m, err := b.p.Parse(data)
	parsed, ok := m.(*rfc5424.SyslogMessage)
	if !ok || parsed == nil || parsed.Timestamp == nil {
		if err == nil {
			err = errNoTimestamp
		}
		return message{}, err
	}
	return message{
		timestamp: *parsed.Timestamp,
		hostname:  deref(parsed.Hostname),
		appname:   deref(parsed.Appname),
		procid:    deref(parsed.ProcID),
		message:   deref(parsed.Message),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
