package logfile

import (
	"bufio"
	"context"
	"sync"
	"time"

	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/predecode"
	"go-predecode/pkg/utils"

	log "github.com/sirupsen/logrus"
)

const bufsize = 1024 * 1024

type Consumer struct {
	paths    []string
	tx       chan *consumer.Message
	conf     Config
	stoppers utils.WorkerStoppers
	errs     *utils.ErrChan
}

func NewConsumer(c *Config) (*Consumer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	l := &Consumer{
		paths:    c.Paths,
		tx:       make(chan *consumer.Message, 0),
		conf:     *c,
		stoppers: utils.NewWorkerStoppers(c.Ctx, c.ConsumeWorkers),
		errs:     utils.NewErrChan(100, "logfile consume"),
	}

	files := make(chan string, 0)
	go func(ctx context.Context) {
		defer close(files)
	loop:
		for _, p := range l.paths {
			select {
			case <-ctx.Done():
				break loop
			case files <- p:
			}
		}
	}(c.Ctx)

	var wg sync.WaitGroup
	go func() {
		defer close(l.tx)
		defer func() { log.Trace("logfile consume workers done") }()
		for i := 0; i < c.ConsumeWorkers; i++ {
			wg.Add(1)
			go func(id int, ctx context.Context) {
				defer wg.Done()
				logContext := log.WithFields(log.Fields{
					"type":   "file",
					"worker": id,
				})
				logContext.Trace("reader spawn")
				defer logContext.Trace("reader done")
				for p := range files {
					logContext.WithField("path", p).Trace("reading file")
					if err := l.read(ctx, p); err != nil {
						l.errs.Send(&utils.ErrInvalidPath{Path: p, Msg: err.Error()})
					}
				}
			}(i, l.stoppers[i].Ctx)
		}
		wg.Wait()
	}()
	return l, nil
}

func (l Consumer) read(ctx context.Context, path string) error {
	if !l.conf.Follow || path == Stdin {
		return l.drain(ctx, path)
	}
	content, err := sniff(path)
	if err != nil {
		return err
	}
	if content == Gzip {
		return l.drain(ctx, path)
	}
	return l.follow(ctx, path)
}

func (l Consumer) drain(ctx context.Context, path string) error {
	f, err := open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), bufsize)
	var count int64
loop:
	for scanner.Scan() {
		data := scanner.Bytes()
		if len(data) == 0 {
			count++
			continue loop
		}
		msg := &consumer.Message{
			Data:   Envelope(path, data, l.conf.Envelope),
			Offset: count,
			Type:   consumer.Logfile,
			Source: path,
			Time:   time.Now(),
		}
		select {
		case <-ctx.Done():
			log.Tracef("Scanner break received for %s, exiting", path)
			break loop
		case l.tx <- msg:
		}
		count++
	}
	return scanner.Err()
}

// Envelope builds localfile queue record from a raw log line
// Data is copied regardless, scanner buffers are reused
func Envelope(location string, line []byte, wrap bool) []byte {
	if !wrap {
		return utils.DeepCopyBytes(line)
	}
	if location == Stdin {
		location = "stdin"
	}
	location = predecode.SafeLocation(location)
	out := make([]byte, 0, len(line)+len(location)+3)
	out = append(out, '1', ':')
	out = append(out, location...)
	out = append(out, ':')
	return append(out, line...)
}

// Messages implements consumer.Messager
func (l Consumer) Messages() <-chan *consumer.Message { return l.tx }

func (l Consumer) Errors() <-chan error { return l.errs.Items }

func (l Consumer) Files() []string { return l.paths }
