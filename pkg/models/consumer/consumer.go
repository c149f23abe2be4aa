package consumer

/*
	consumer package is a data model
	modelled after Kafka, but extended to any input source
	for example, line number where record occurred can be considered an offset
*/

import (
	"net"
	"time"
)

type Source int

func (s Source) String() string {
	switch s {
	case Kafka:
		return "kafka"
	case Logfile:
		return "logfile"
	case UxSock:
		return "uxsock"
	case Syslog:
		return "syslog"
	case API:
		return "api"
	default:
		return "NA"
	}
}

const (
	Unknown Source = iota
	Logfile
	Kafka
	UxSock
	Syslog
	API
)

type Messager interface {
	// Messages implements consumer.Messager
	Messages() <-chan *Message
}

// Message is an atomic log entry that is closely modeled after kafka event
type Message struct {
	// Raw queue record before decoding, JSON encoded event afterwards
	Data []byte

	// Message offset from input
	// e.g. kafka offset or file line number
	Offset int64

	// Message partition from input
	// in case messages are segregated
	Partition int64

	// Enum that maps to supported source module
	// Logfile, unix socket, kafka, syslog
	Type Source

	// Textual representation of input source
	// e.g. source file, kafka topic, socket path, listen address
	Source string

	// Optional message key, separate from source topic
	// After decoding this is program name or timestamp format
	Key string

	// Timestamp of decoded event
	// Defaults to time of ingestion until record is decoded
	Time time.Time

	// Optional sender IP address
	// For example, syslog UDP sender info is usually taken from UDP source
	Sender net.IP
}

// TopicMapFn is a helper for allowing the user to define how individual messages should be handled
// For example, which elasticsearch index to send the message to whereas final index name requires knowledge of event timestamp
type TopicMapFn func(Message) string
