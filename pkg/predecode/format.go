package predecode

import "fmt"

// Format is the timestamp layout recognized at the start of payload
type Format int

const (
	FormatNone Format = iota
	FormatSyslog
	FormatProftpd
	FormatISO8601
	FormatYearSyslog
	FormatColonDate
	FormatXferlog
	FormatSnort
	FormatSuricata
	FormatApache
	FormatASL
	FormatSquid
)

// Formats lists every recognizable layout in matching priority order
var Formats = []Format{
	FormatSyslog,
	FormatProftpd,
	FormatISO8601,
	FormatYearSyslog,
	FormatColonDate,
	FormatXferlog,
	FormatSnort,
	FormatSuricata,
	FormatApache,
	FormatASL,
	FormatSquid,
}

func (f Format) String() string {
	switch f {
	case FormatSyslog:
		return "syslog"
	case FormatProftpd:
		return "proftpd"
	case FormatISO8601:
		return "iso8601"
	case FormatYearSyslog:
		return "year-syslog"
	case FormatColonDate:
		return "colon-date"
	case FormatXferlog:
		return "xferlog"
	case FormatSnort:
		return "snort"
	case FormatSuricata:
		return "suricata"
	case FormatApache:
		return "apache"
	case FormatASL:
		return "osx-asl"
	case FormatSquid:
		return "squid"
	default:
		return "none"
	}
}

// Explain gives an example of the layout
func (f Format) Explain() string {
	switch f {
	case FormatSyslog:
		return "Dec 29 10:00:01"
	case FormatProftpd:
		return "2015-04-16 21:51:02,805"
	case FormatISO8601:
		return "2007-06-14T15:48:55.3352-04:00"
	case FormatYearSyslog:
		return "2015 Dec 29 10:00:01"
	case FormatColonDate:
		return "2019:11:06-00:08:03"
	case FormatXferlog:
		return "Mon Apr 17 18:27:14 2006"
	case FormatSnort:
		return "01/28-09:13:16.240702"
	case FormatSuricata:
		return "01/28/1979-09:13:16.240702"
	case FormatApache:
		return "[Fri Feb 11 18:06:35 2004]"
	case FormatASL:
		return "[Time 2006.12.28 15:53:55 UTC]"
	case FormatSquid:
		return "1140804070.368"
	default:
		return "no timestamp"
	}
}

// HasSyslogHeader reports whether hostname and program name follow the timestamp
func (f Format) HasSyslogHeader() bool {
	return f >= FormatSyslog && f <= FormatColonDate
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(b []byte) error {
	if string(b) == FormatNone.String() {
		*f = FormatNone
		return nil
	}
	for _, format := range Formats {
		if format.String() == string(b) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("unknown timestamp format %s", string(b))
}
