package kafka

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Shopify/sarama"
	log "github.com/sirupsen/logrus"

	"go-predecode/pkg/models/consumer"
)

// Config is used as parameter when instanciating new Producer instance
type Config struct {
	Brokers      []string
	SaramaConfig *sarama.Config
}

func NewDefaultConfig() *Config {
	return &Config{
		Brokers: []string{"localhost:9092"},
	}
}

func (c *Config) Validate() error {
	if c.Brokers == nil || len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.SaramaConfig == nil {
		c.SaramaConfig = newProducerConfig()
	}
	return nil
}

type Producer struct {
	handle   sarama.AsyncProducer
	config   *sarama.Config
	feeders  *sync.WaitGroup
	errCount uint64
	lastErr  atomic.Value
}

func NewProducer(c *Config) (*Producer, error) {
	if c == nil {
		c = NewDefaultConfig()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	h := &Producer{config: c.SaramaConfig, feeders: &sync.WaitGroup{}}
	producer, err := sarama.NewAsyncProducer(c.Brokers, c.SaramaConfig)
	if err != nil {
		return nil, err
	}
	h.handle = producer

	go func() {
		for err := range h.handle.Errors() {
			atomic.AddUint64(&h.errCount, 1)
			if err != nil && err.Err != nil {
				h.lastErr.Store(err.Err.Error())
			}
		}
	}()

	return h, nil
}

// Feed implements outputs.Feeder
func (p *Producer) Feed(
	rx <-chan consumer.Message,
	name string,
	ctx context.Context,
	fn consumer.TopicMapFn,
) error {
	if p.handle == nil {
		return fmt.Errorf(
			"kafka async producer not active, cannot feed %s messages",
			name,
		)
	}
	if rx == nil {
		return fmt.Errorf(
			"missing channel, cannot feed async kafka producer with %s",
			name,
		)
	}
	if fn == nil {
		fn = func(consumer.Message) string {
			return "events"
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	p.feeders.Add(1)
	go func(ctx context.Context) {
		debug := time.NewTicker(3 * time.Second)
		defer debug.Stop()
		var count uint64
		defer p.feeders.Done()
	loop:
		for {
			select {
			case msg, ok := <-rx:
				if !ok {
					break loop
				}
				p.handle.Input() <- &sarama.ProducerMessage{
					Timestamp: msg.Time,
					Key:       sarama.StringEncoder(msg.Key),
					Value:     sarama.ByteEncoder(msg.Data),
					Topic:     fn(msg),
				}
				count++
			case <-debug.C:
				log.WithField("feeder", name).Debugf("Sent %d events to kafka producer", count)
			case <-ctx.Done():
				break loop
			}
		}
	}(ctx)

	return nil
}

func (p *Producer) Wait() {
	if p.feeders == nil {
		return
	}
	p.feeders.Wait()
}

func (p *Producer) Close() error {
	if p.handle == nil {
		return fmt.Errorf("unable to close inactive kafka producer")
	}
	return p.handle.Close()
}

// Errors does not implement Error
// Only meant to allow producer errors to be checked externally
func (p *Producer) Errors() error {
	count := atomic.LoadUint64(&p.errCount)
	if count == 0 {
		return nil
	}
	last, _ := p.lastErr.Load().(string)
	return fmt.Errorf("kafka async producer has encountered %d errors, last: %s", count, last)
}

func newProducerConfig() *sarama.Config {
	var config = sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.NoResponse
	config.Producer.Retry.Max = 5
	config.Producer.Compression = sarama.CompressionSnappy
	return config
}

// TopicByKey sends every record to <prefix>-<key>, unkeyed records go to <prefix>-bogon
func TopicByKey(prefix string) consumer.TopicMapFn {
	return func(msg consumer.Message) string {
		if msg.Key == "" {
			return prefix + "-bogon"
		}
		return prefix + "-" + msg.Key
	}
}
