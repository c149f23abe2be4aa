package ingest

type Module int

func (m Module) String() string {
	switch m {
	case Logfile:
		return "file"
	case UxSock:
		return "uxsock"
	case Kafka:
		return "kafka"
	case Syslog:
		return "syslog"
	default:
		return "unsupported"
	}
}

func (m Module) Explain() string {
	switch m {
	case Logfile:
		return `Plain or gzip compressed files, or standard input.
		Lines are queue records, or raw log lines when envelope wrapping is enabled.`
	case UxSock:
		return `Unix domain socket.
		A data communications endpoint for exchanging data between processes executing on the same host operating system. 
		Standard component of POSIX operating systems.`
	case Kafka:
		return `Kafka consumer. 
		A clustered message broker for multiple producer and multiple consumer environment. 
		Tracks offsets for for each group of consumers, to avoid message loss when consumer stops.`
	case Syslog:
		return `UDP syslog listener.
		BSD and RFC5424 datagrams are turned into syslog queue records with sender address as location.`
	default:
		return "unsupported"
	}
}

const (
	Unsupported Module = iota
	Logfile
	UxSock
	Kafka
	Syslog
)

var Modules = []Module{
	Logfile,
	UxSock,
	Kafka,
	Syslog,
}
