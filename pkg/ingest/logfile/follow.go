package logfile

import (
	"context"
	"io"
	"time"

	"github.com/nxadm/tail"
	log "github.com/sirupsen/logrus"

	"go-predecode/pkg/models/consumer"
)

// follow tails path from current end until ctx is cancelled
func (l Consumer) follow(ctx context.Context, path string) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()
	defer t.Stop()

	var count int64
	for {
		select {
		case <-ctx.Done():
			log.Tracef("follow break received for %s, exiting", path)
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				l.errs.Send(line.Err)
				continue
			}
			count++
			if line.Text == "" {
				continue
			}
			msg := &consumer.Message{
				Data:   Envelope(path, []byte(line.Text), l.conf.Envelope),
				Offset: count - 1,
				Type:   consumer.Logfile,
				Source: path,
				Time:   time.Now(),
			}
			select {
			case <-ctx.Done():
				return nil
			case l.tx <- msg:
			}
		}
	}
}
