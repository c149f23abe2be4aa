package predecode

import (
	"os"
	"sync/atomic"
	"time"
)

// Config is shared by all decode workers and must not change after NewDecoder
type Config struct {
	// Hostname assigned to local records without a usable syslog header
	Hostname string

	// Use calendar fields found in the log instead of time of decoding
	KeepLogDate bool

	// Timezone for wall clock and epoch timestamps
	Location *time.Location

	// Clock is sampled once per record, defaults to time.Now
	Clock func() time.Time
}

func (c *Config) Validate() error {
	if c.Hostname == "" {
		host, err := os.Hostname()
		if err != nil {
			return err
		}
		c.Hostname = host
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return nil
}

// Summary is the hour and weekday of the most recently decoded record
// Written by every decode call, last writer wins
type Summary struct {
	hour    int32
	weekday int32
}

func (s *Summary) set(t time.Time) {
	atomic.StoreInt32(&s.hour, int32(t.Hour()))
	atomic.StoreInt32(&s.weekday, int32(t.Weekday()))
}

func (s *Summary) Hour() int { return int(atomic.LoadInt32(&s.hour)) }

func (s *Summary) Weekday() time.Weekday { return time.Weekday(atomic.LoadInt32(&s.weekday)) }

// Decoder turns raw queue records into events
// A single instance is safe for concurrent use
type Decoder struct {
	config  Config
	summary *Summary
}

func NewDecoder(c *Config) (*Decoder, error) {
	if c == nil {
		c = &Config{}
	}
	conf := *c
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{config: conf, summary: &Summary{}}, nil
}

func (d Decoder) Summary() *Summary { return d.summary }

func (d Decoder) Hostname() string { return d.config.Hostname }

// Decode pre-decodes a single queue record
// Only a malformed envelope fails, unknown timestamps and headers fall back to defaults
func (d Decoder) Decode(raw []byte) (*Event, error) {
	now := d.config.Clock().In(d.config.Location)

	location, payload, err := SplitEnvelope(raw)
	if err != nil {
		return nil, err
	}
	ev := &Event{
		Location: location,
		FullLog:  payload,
		Queue:    queueFromByte(raw[0]),
		Time:     now,
	}

	v, r := parse(payload, d.config.KeepLogDate, d.config.Location)
	ev.Format = r.format
	ev.Log = r.log.slice(payload, v)
	ev.Hostname = r.host.slice(payload, v)
	ev.ProgramName = r.program.slice(payload, v)
	ev.ProgramNameLen = len(ev.ProgramName)

	d.finalize(ev, r, now)
	return ev, nil
}

func (d Decoder) finalize(ev *Event, r result, now time.Time) {
	if ev.IsAgent() {
		ev.Hostname = ev.Location
	} else if ev.Hostname == "" {
		ev.Hostname = d.config.Hostname
	}

	ts := dateFromTime(now)
	if r.hasDate {
		if r.date.year != 0 {
			ts.year = r.date.year
		}
		ts.month, ts.day, ts.hour = r.date.month, r.date.day, r.date.hour
	}
	ev.Timestamp = Timestamp{Year: ts.year, Month: ts.month, Day: ts.day, Hour: ts.hour}

	d.summary.set(now)
}

type result struct {
	format  Format
	host    span
	program span
	log     span

	date    date
	hasDate bool
}

func parse(payload string, keepDate bool, loc *time.Location) (view, result) {
	v := newView(payload)
	r := result{log: span{0, v.len()}}

	l, offset, ok := v.recognize()
	if !ok {
		return v, r
	}
	r.format = l.format
	if keepDate {
		r.date, r.hasDate = v.logDate(l.format, loc)
	}

	switch {
	case l.format.HasSyslogHeader():
		if v.at(offset) == ' ' {
			offset++
		}
		h := extractHeader(v, offset)
		r.host, r.program = h.host, h.program
		r.log = span{h.log, v.len()}
	case l.format == FormatASL:
		r.host, r.program, r.log = aslFields(v, offset)
	default:
		r.log = span{offset, v.len()}
	}
	return v, r
}

// slice maps normalized span back onto the original payload
func (s span) slice(payload string, v view) string {
	start, end := v.orig(s.start), v.orig(s.end)
	if end > len(payload) {
		end = len(payload)
	}
	if start >= end {
		return ""
	}
	return payload[start:end]
}
