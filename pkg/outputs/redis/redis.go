package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis"
	log "github.com/sirupsen/logrus"

	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/utils"
)

type Config struct {
	Host     string
	Port     int
	DB       int
	Password string

	// Records are pushed in pipelines of this size
	BatchSize int
	// Partial pipelines are flushed at least this often
	FlushInterval time.Duration
}

func (c *Config) Validate() error {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port < 10 || c.Port > 65000 {
		c.Port = 6379
	}
	if c.DB < 0 {
		c.DB = 0
	}
	if c.BatchSize < 1 {
		c.BatchSize = 256
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 1 * time.Second
	}
	return nil
}

// Producer pushes decoded events to redis lists
type Producer struct {
	handle  *redis.Client
	c       Config
	feeders *sync.WaitGroup
	errs    *utils.ErrChan
}

func NewProducer(c *Config) (*Producer, error) {
	if c == nil {
		c = &Config{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p := &Producer{
		c:       *c,
		feeders: &sync.WaitGroup{},
		errs:    utils.NewErrChan(100, "redis output"),
	}
	p.handle = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Password: c.Password,
		DB:       c.DB,
	})
	if _, err := p.handle.Ping().Result(); err != nil {
		return p, err
	}
	return p, nil
}

// Feed implements outputs.Feeder
func (p *Producer) Feed(
	rx <-chan consumer.Message,
	name string,
	ctx context.Context,
	fn consumer.TopicMapFn,
) error {
	if rx == nil {
		return fmt.Errorf("missing channel, cannot feed redis output with %s", name)
	}
	if fn == nil {
		fn = func(consumer.Message) string { return name }
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p.feeders.Add(1)
	go func(ctx context.Context) {
		defer p.feeders.Done()
		tick := time.NewTicker(p.c.FlushInterval)
		defer tick.Stop()
		b := newBatch()
		var count uint64
	loop:
		for {
			select {
			case msg, ok := <-rx:
				if !ok {
					break loop
				}
				if b.add(fn(msg), msg.Data) >= p.c.BatchSize {
					count += p.flush(b)
				}
			case <-tick.C:
				count += p.flush(b)
			case <-ctx.Done():
				break loop
			}
		}
		count += p.flush(b)
		log.WithFields(log.Fields{
			"feeder": name,
			"pushed": count,
		}).Trace("redis feeder exited")
	}(ctx)
	return nil
}

func (p *Producer) flush(b *batch) uint64 {
	if b.len() == 0 {
		return 0
	}
	pipe := p.handle.Pipeline()
	for key, vals := range b.items {
		pipe.RPush(key, vals...)
	}
	n := uint64(b.len())
	b.reset()
	if _, err := pipe.Exec(); err != nil {
		p.errs.Send(err)
		return 0
	}
	return n
}

func (p *Producer) Errors() <-chan error { return p.errs.Items }

func (p *Producer) Wait() { p.feeders.Wait() }

func (p *Producer) Close() error {
	if p.handle == nil {
		return fmt.Errorf("unable to close inactive redis producer")
	}
	return p.handle.Close()
}

// batch groups pending records by list key
type batch struct {
	items map[string][]interface{}
	size  int
}

func newBatch() *batch {
	return &batch{items: make(map[string][]interface{})}
}

func (b *batch) add(key string, data []byte) int {
	b.items[key] = append(b.items[key], data)
	b.size++
	return b.size
}

func (b batch) len() int { return b.size }

func (b *batch) reset() {
	b.items = make(map[string][]interface{})
	b.size = 0
}
