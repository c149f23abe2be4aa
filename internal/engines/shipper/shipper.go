package shipper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"go-predecode/internal/config"
	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/outputs"
	"go-predecode/pkg/outputs/elastic"
	"go-predecode/pkg/outputs/filestorage"
	"go-predecode/pkg/outputs/kafka"
	"go-predecode/pkg/outputs/redis"
)

// Stdout is where the stdout output writes to
var Stdout io.Writer = os.Stdout

type ErrNoOutputs struct {
	Name string
}

func (e ErrNoOutputs) Error() string {
	return fmt.Sprintf("No outputs for %s module. See --help.", e.Name)
}

type sink struct {
	name string
	tx   chan consumer.Message
	out  outputs.Output
}

// Send fans decoded messages out to every enabled output and blocks until msgs is closed
func Send(
	msgs <-chan *consumer.Message,
	module string,
	c *config.OutputConfig,
) error {
	if c == nil || c.Count() == 0 {
		return ErrNoOutputs{Name: module}
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sinks := make([]sink, 0, c.Count())
	add := func(name string, out outputs.Output, fn consumer.TopicMapFn) error {
		ch := make(chan consumer.Message)
		if err := out.Feed(ch, module+" "+name, ctx, fn); err != nil {
			return err
		}
		sinks = append(sinks, sink{name: name, tx: ch, out: out})
		log.WithFields(log.Fields{"output": name, "module": module}).Info("output enabled")
		return nil
	}
	shutdown := func() {
		for _, s := range sinks {
			close(s.tx)
		}
		for _, s := range sinks {
			s.out.Wait()
			if err := s.out.Close(); err != nil {
				log.WithFields(log.Fields{"output": s.name}).Error(err)
			}
		}
	}

	if c.Stdout {
		if err := add("stdout", newWriter(Stdout), nil); err != nil {
			shutdown()
			return err
		}
	}

	if c.File.Enabled {
		writer, err := filestorage.NewHandle(&filestorage.Config{
			Dir:            c.File.Dir,
			Combined:       c.File.Path,
			Gzip:           c.File.Gzip,
			Timestamp:      c.File.Timestamp,
			RotateEnabled:  c.File.RotateEnabled,
			RotateInterval: c.File.RotateInterval,
		})
		if err != nil {
			shutdown()
			return err
		}
		go drain("filestorage", writer.Errors())
		if err := add("file", writer, nil); err != nil {
			shutdown()
			return err
		}
	}

	if c.Kafka.Enabled {
		var fn consumer.TopicMapFn
		if topic := c.Kafka.Topic; topic != "" {
			fn = func(consumer.Message) string { return topic }
		} else {
			fn = kafka.TopicByKey(c.Kafka.Prefix)
		}
		producer, err := kafka.NewProducer(&kafka.Config{Brokers: c.Kafka.Brokers})
		if err != nil {
			log.WithFields(log.Fields{"hosts": c.Kafka.Brokers}).Error(err)
			shutdown()
			return err
		}
		go func() {
			every := time.NewTicker(1 * time.Second)
			defer every.Stop()
			for {
				select {
				case <-every.C:
					if err := producer.Errors(); err != nil {
						log.Error(err)
					}
				case <-ctx.Done():
					return
				}
			}
		}()
		if err := add("kafka", producer, fn); err != nil {
			shutdown()
			return err
		}
	}

	if c.Elastic.Enabled {
		ela, err := elastic.NewHandle(&elastic.Config{
			Workers:  c.Elastic.Threads,
			Interval: 5 * time.Second,
			Hosts:    c.Elastic.Hosts,
		})
		if err != nil {
			log.WithFields(log.Fields{"hosts": c.Elastic.Hosts}).Error(err)
			shutdown()
			return err
		}
		go func() {
			debug := time.NewTicker(3 * time.Second)
			defer debug.Stop()
			for {
				select {
				case <-debug.C:
					log.Debugf("%s: %+v", module, ela.Stats())
				case <-ctx.Done():
					return
				}
			}
		}()
		if err := add("elastic", ela, elastic.DailyIndex(c.Elastic.Prefix, c.Elastic.Hourly)); err != nil {
			shutdown()
			return err
		}
	}

	if c.Redis.Enabled {
		producer, err := redis.NewProducer(&redis.Config{
			Host:     c.Redis.Host,
			Port:     c.Redis.Port,
			DB:       c.Redis.DB,
			Password: c.Redis.Password,
		})
		if err != nil {
			log.WithFields(log.Fields{"host": c.Redis.Host, "port": c.Redis.Port}).Error(err)
			if producer != nil {
				producer.Close()
			}
			shutdown()
			return err
		}
		go drain("redis", producer.Errors())
		key := c.Redis.Key
		if err := add("redis", producer, func(consumer.Message) string { return key }); err != nil {
			shutdown()
			return err
		}
	}

	for m := range msgs {
		if m == nil {
			continue
		}
		for _, s := range sinks {
			s.tx <- *m
		}
	}
	shutdown()
	return nil
}

func drain(name string, rx <-chan error) {
	for err := range rx {
		log.WithFields(log.Fields{"output": name}).Error(err)
	}
}

// writer prints messages as lines, used for stdout
type writer struct {
	w  io.Writer
	mu *sync.Mutex
	wg *sync.WaitGroup
}

func newWriter(w io.Writer) *writer {
	return &writer{w: w, mu: &sync.Mutex{}, wg: &sync.WaitGroup{}}
}

func (w *writer) Feed(
	rx <-chan consumer.Message,
	name string,
	ctx context.Context,
	_ consumer.TopicMapFn,
) error {
	if rx == nil {
		return fmt.Errorf("missing channel for %s", name)
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		buf := bufio.NewWriter(w.w)
		flush := time.NewTicker(500 * time.Millisecond)
		defer flush.Stop()
		defer func() {
			w.mu.Lock()
			buf.Flush()
			w.mu.Unlock()
		}()
	loop:
		for {
			select {
			case msg, ok := <-rx:
				if !ok {
					break loop
				}
				w.mu.Lock()
				buf.Write(msg.Data)
				buf.WriteByte('\n')
				w.mu.Unlock()
			case <-flush.C:
				w.mu.Lock()
				buf.Flush()
				w.mu.Unlock()
			case <-ctx.Done():
				break loop
			}
		}
	}()
	return nil
}

func (w *writer) Wait() { w.wg.Wait() }

func (w *writer) Close() error { return nil }
