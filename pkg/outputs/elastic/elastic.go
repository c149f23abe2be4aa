package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	olivere "github.com/olivere/elastic/v7"
	log "github.com/sirupsen/logrus"

	"go-predecode/pkg/models/consumer"
)

var (
	DefaultBulkFlushInterval = 10 * time.Second
	TimeFmt                  = "2006.01.02"
	HourlyTimeFmt            = "2006.01.02.15"
)

type Config struct {
	Workers  int
	Interval time.Duration
	Hosts    []string
	Debug    bool
}

func NewDefaultConfig() *Config {
	return &Config{
		Workers:  1,
		Interval: DefaultBulkFlushInterval,
		Hosts: []string{
			"http://localhost:9200",
		},
	}
}

// Validate should give an error if config is invalid, but that leads to OOP hell
// Just set default params if wonky
func (c *Config) Validate() error {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Interval == 0 {
		c.Interval = DefaultBulkFlushInterval
	}
	if c.Hosts == nil || len(c.Hosts) == 0 {
		c.Hosts = []string{
			"http://localhost:9200",
		}
	}
	return nil
}

// Handle is a wrapper around olivere Bulk indexing service
// designed to operate on a stream of decoded events where each message is committed to configured elastic instance
type Handle struct {
	indexer *olivere.BulkProcessor
	client  *olivere.Client
	feeders *sync.WaitGroup
}

func NewHandle(c *Config) (*Handle, error) {
	if c == nil {
		c = NewDefaultConfig()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log.Tracef("Elastic libary version %s", olivere.Version)
	client, err := olivere.NewClient(
		olivere.SetURL(c.Hosts...),
		olivere.SetSniff(false),
		olivere.SetHealthcheckInterval(10*time.Second),
		olivere.SetHealthcheckTimeout(5*time.Second),
	)
	if err != nil {
		return nil, err
	}
	h := &Handle{
		client:  client,
		feeders: &sync.WaitGroup{},
	}
	b, err := client.BulkProcessor().
		Name("predecode").
		Workers(c.Workers).
		BulkActions(1000).
		BulkSize(2 << 20).
		FlushInterval(c.Interval).
		Stats(true).
		Do(context.Background())

	if err != nil {
		return h, err
	}
	h.indexer = b
	return h, nil
}

func (h Handle) add(item []byte, idx string) {
	// olivere passes json.RawMessage through without re-encoding
	h.indexer.Add(
		olivere.NewBulkIndexRequest().
			Index(idx).
			Doc(json.RawMessage(item)),
	)
}

// Feed implements outputs.Feeder
func (h *Handle) Feed(
	rx <-chan consumer.Message,
	name string,
	ctx context.Context,
	fn consumer.TopicMapFn,
) error {
	if h.indexer == nil {
		return fmt.Errorf(
			"elastic bulk handler is not active, cannot feed to base index %s",
			name,
		)
	}
	if rx == nil {
		return fmt.Errorf(
			"missing channel, cannot feed elastic bulk indexer with %s",
			name,
		)
	}
	if fn == nil {
		fn = DailyIndex(name, false)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	h.feeders.Add(1)
	go func(ctx context.Context) {
		defer h.feeders.Done()
	loop:
		for {
			select {
			case msg, ok := <-rx:
				if !ok {
					break loop
				}
				h.add(msg.Data, fn(msg))
			case <-ctx.Done():
				break loop
			}
		}
		if err := h.indexer.Flush(); err != nil {
			log.WithField("feeder", name).Error(err)
		}
		log.Tracef(
			"%s elastic bulk feeder exited properly",
			name,
		)
	}(ctx)
	return nil
}

// Wait wraps around sync.WaitGroup to properly wait all bulk feeders to finish their work
// then flush the tail of message bulk
func (h *Handle) Wait() {
	if h.feeders == nil {
		return
	}
	h.feeders.Wait()
}

func (h *Handle) Close() error {
	if h.indexer == nil {
		return fmt.Errorf("unable to close elastic bulk indexer")
	}
	h.indexer.Flush()
	return h.indexer.Close()
}

func (h *Handle) Stats() olivere.BulkProcessorStats {
	if h.indexer == nil {
		return olivere.BulkProcessorStats{}
	}
	return h.indexer.Stats()
}

// DailyIndex names index after event timestamp, <prefix>-YYYY.MM.DD
// Messages without timestamp fall back to current time
func DailyIndex(prefix string, hourly bool) consumer.TopicMapFn {
	layout := TimeFmt
	if hourly {
		layout = HourlyTimeFmt
	}
	return func(msg consumer.Message) string {
		ts := msg.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		return prefix + "-" + ts.UTC().Format(layout)
	}
}
