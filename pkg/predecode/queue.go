package predecode

// Queue is the message id that prefixes every queue record
// It tells which daemon or module produced the record
type Queue byte

const (
	QueueUnknown   Queue = 0
	QueueLocalFile Queue = '1'
	QueueSyslog    Queue = '2'
	QueueHostInfo  Queue = '3'
	QueueSecure    Queue = '4'
	QueueSyscheck  Queue = '8'
	QueueRootcheck Queue = '9'
)

func queueFromByte(b byte) Queue {
	switch q := Queue(b); q {
	case QueueLocalFile, QueueSyslog, QueueHostInfo, QueueSecure, QueueSyscheck, QueueRootcheck:
		return q
	default:
		return QueueUnknown
	}
}

func (q Queue) String() string {
	switch q {
	case QueueLocalFile:
		return "localfile"
	case QueueSyslog:
		return "syslog"
	case QueueHostInfo:
		return "hostinfo"
	case QueueSecure:
		return "secure"
	case QueueSyscheck:
		return "syscheck"
	case QueueRootcheck:
		return "rootcheck"
	default:
		return "unknown"
	}
}

func (q Queue) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Queue) UnmarshalText(b []byte) error {
	for _, known := range []Queue{
		QueueLocalFile, QueueSyslog, QueueHostInfo, QueueSecure, QueueSyscheck, QueueRootcheck,
	} {
		if known.String() == string(b) {
			*q = known
			return nil
		}
	}
	*q = QueueUnknown
	return nil
}
