package utils

import (
	"fmt"
	"sync/atomic"
)

// ErrChan is a bounded error sink for async workers
// Oldest items are dropped when nobody drains the channel
type ErrChan struct {
	Desc  string
	Items chan error

	dropped *uint64
}

func NewErrChan(size int, desc string) *ErrChan {
	if size < 1 {
		size = 1
	}
	return &ErrChan{
		Desc:    desc,
		Items:   make(chan error, size),
		dropped: new(uint64),
	}
}

// Send never blocks the caller
func (e *ErrChan) Send(err error) {
	if e == nil || err == nil {
		return
	}
	for {
		select {
		case e.Items <- err:
			return
		default:
		}
		select {
		case <-e.Items:
			if e.dropped != nil {
				atomic.AddUint64(e.dropped, 1)
			}
		default:
		}
	}
}

// Dropped reports how many errors were discarded because channel was full
func (e ErrChan) Dropped() uint64 {
	if e.dropped == nil {
		return 0
	}
	return atomic.LoadUint64(e.dropped)
}

func (e ErrChan) Error() string {
	return fmt.Sprintf(
		"%s experienced %d errors, please drain items channel for more information",
		e.Desc,
		len(e.Items),
	)
}

type ErrNilPointer struct {
	Function, Caller string
}

func (e ErrNilPointer) Error() string {
	return fmt.Sprintf(
		"Nil pointer in %s while calling %s",
		e.Caller, e.Function,
	)
}

// ErrParseRawData is a custom error type when something went wrong wile parsing a raw []byte into an event struct
// Line number/message counter, source file/topic/channel, etc should be attached for debug
// Desc should describe the calling function and purpose
type ErrParseRawData struct {
	Err    error
	Raw    []byte
	Source string
	Offset int64
	Desc   string
}

func (e ErrParseRawData) Error() string {
	return fmt.Sprintf(
		"Error: [%s] parsing message [%s] from [%s] offset [%d]; desc: [%s]",
		e.Err,
		string(e.Raw),
		e.Source,
		e.Offset,
		e.Desc,
	)
}

func (e ErrParseRawData) Unwrap() error { return e.Err }

type ErrInvalidPath struct {
	Path, Msg string
}

func (e ErrInvalidPath) Error() string {
	return fmt.Sprintf("path error for %s: %s", e.Path, e.Msg)
}
