package run

import (
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/predecode"
	"go-predecode/pkg/stats"
	"go-predecode/pkg/utils"
)

type decodeWorkers struct {
	decoder   *predecode.Decoder
	hourly    *stats.Hourly
	collector *stats.Collector

	count uint64
}

// process replaces raw record in msg with its JSON encoded event
func (d *decodeWorkers) process(msg *consumer.Message) error {
	ev, err := d.decoder.Decode(msg.Data)
	if err != nil {
		if d.collector != nil {
			d.collector.EnvelopeError()
		}
		return &utils.ErrParseRawData{
			Err:    err,
			Raw:    msg.Data,
			Source: msg.Source,
			Offset: msg.Offset,
			Desc:   "queue envelope",
		}
	}
	data, err := ev.JSONFormat()
	if err != nil {
		return err
	}
	msg.Data = data
	msg.Time = ev.Time
	msg.Key = messageKey(ev)

	if d.hourly != nil {
		d.hourly.Add(ev.Time.Weekday(), ev.Time.Hour())
	}
	if d.collector != nil {
		d.collector.Observe(ev)
	}
	atomic.AddUint64(&d.count, 1)
	return nil
}

// messageKey routes events by program, falling back to timestamp format
func messageKey(ev *predecode.Event) string {
	if ev.HasProgram() {
		return ev.ProgramName
	}
	if ev.Format != predecode.FormatNone {
		return ev.Format.String()
	}
	return ""
}

func (d *decodeWorkers) spawn(
	rx <-chan *consumer.Message,
	workers int,
) (<-chan *consumer.Message, *utils.ErrChan) {
	tx := make(chan *consumer.Message)
	errs := utils.NewErrChan(100, "decode worker runtime errors")

	done := make(chan struct{})
	go func() {
		every := time.NewTicker(3 * time.Second)
		defer every.Stop()
		for {
			select {
			case <-every.C:
				log.Infof("Decoded %d events", atomic.LoadUint64(&d.count))
			case <-done:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	go func() {
		defer close(errs.Items)
		defer close(tx)
		defer close(done)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				defer log.Tracef("worker %d done", id)
				log.Tracef("Spawning worker %d", id)
			loop:
				for msg := range rx {
					if err := d.process(msg); err != nil {
						errs.Send(err)
						continue loop
					}
					tx <- msg
				}
			}(i)
		}
		wg.Wait()
	}()
	return tx, errs
}
