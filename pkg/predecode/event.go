package predecode

import (
	"fmt"
	"time"
)

// Timestamp is the calendar view of an event as used by rules and alert output
// Hour is kept in HH:MM:SS form
type Timestamp struct {
	Year  int
	Month time.Month
	Day   int
	Hour  string
}

// Mon returns three letter month abbreviation
func (t Timestamp) Mon() string {
	if t.Month < time.January || t.Month > time.December {
		return ""
	}
	return t.Month.String()[:3]
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%d %s %02d %s", t.Year, t.Mon(), t.Day, t.Hour)
}

// Event is a pre-decoded queue record
// Log is always a subrange of FullLog
type Event struct {
	// Origin of the record, agent records start with '('
	Location string `json:"location"`

	// Payload without the queue envelope
	FullLog string `json:"full_log"`

	// Message body after timestamp, hostname and program name were stripped
	// This is what downstream decoders and rules operate on
	Log string `json:"log"`

	Timestamp Timestamp `json:"timestamp"`

	Hostname string `json:"hostname"`

	ProgramName    string `json:"program_name,omitempty"`
	ProgramNameLen int    `json:"-"`

	// Queue type from message id
	Queue Queue `json:"queue"`

	// Timestamp layout that was recognized in payload
	Format Format `json:"format"`

	// Wall clock snapshot taken when record was decoded
	Time time.Time `json:"@timestamp"`
}

// IsAgent reports whether the record was forwarded by an agent
func (e Event) IsAgent() bool {
	return len(e.Location) > 0 && e.Location[0] == '('
}

// HasProgram reports whether a program name was recovered from syslog header
func (e Event) HasProgram() bool {
	return e.ProgramNameLen > 0
}
