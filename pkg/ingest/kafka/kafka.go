package kafka

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Shopify/sarama"
	"github.com/sirupsen/logrus"

	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/utils"
)

type Consumer struct {
	group  sarama.ConsumerGroup
	config *sarama.Config

	handle *handle
	errs   *utils.ErrChan

	ctx context.Context
	wg  *sync.WaitGroup
}

func NewConsumer(c *Config) (*Consumer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	obj := &Consumer{
		ctx:    c.Ctx,
		wg:     &sync.WaitGroup{},
		config: newConsumerConfig(c.OffsetMode),
		handle: &handle{
			messages: make(chan *consumer.Message, 0),
		},
		errs: utils.NewErrChan(100, fmt.Sprintf(
			"kafka consumer for brokers %+v topics %+v",
			c.Brokers,
			c.Topics,
		)),
	}
	version, err := sarama.ParseKafkaVersion("2.1.1")
	if err != nil {
		return nil, err
	}
	obj.config.Version = version

	group, err := sarama.NewConsumerGroup(c.Brokers, c.ConsumerGroup, obj.config)
	if err != nil {
		return obj, err
	}
	obj.group = group

	logContext := c.Logger.WithFields(logrus.Fields{
		"name":   c.Name,
		"group":  c.ConsumerGroup,
		"topics": c.Topics,
		"mode":   c.OffsetMode.String(),
	})
	logContext.Debug("kafka consumer group started")

	obj.wg.Add(1)
	go func() {
		defer obj.wg.Done()
		go func(report *time.Ticker) {
			defer report.Stop()
			for {
				select {
				case <-report.C:
					logContext.WithField("consumed", atomic.LoadUint64(&obj.handle.count)).Info("kafka consumer report")
				case <-obj.ctx.Done():
					return
				}
			}
		}(time.NewTicker(c.LogInterval))
	loop:
		for {
			select {
			case <-obj.ctx.Done():
				break loop
			default:
			}
			// returns on rebalance, session has to be recreated
			if err := obj.group.Consume(obj.ctx, c.Topics, obj.handle); err != nil {
				obj.errs.Send(err)
				if err == sarama.ErrClosedConsumerGroup {
					break loop
				}
			}
		}
	}()
	go func() {
		obj.wg.Wait()
		if err := obj.group.Close(); err != nil {
			obj.errs.Send(err)
		}
		close(obj.handle.messages)
		logContext.Debug("kafka consumer group exited")
	}()
	return obj, nil
}

func newConsumerConfig(mode OffsetMode) *sarama.Config {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = false
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	switch mode {
	case OffsetEarliest:
		config.Consumer.Offsets.Initial = sarama.OffsetOldest
	case OffsetLatest:
		config.Consumer.Offsets.Initial = sarama.OffsetNewest
	default:
	}
	return config
}

func (c Consumer) Messages() <-chan *consumer.Message {
	return c.handle.messages
}

func (c Consumer) Errors() <-chan error {
	return c.errs.Items
}

// handle represents a Sarama consumer group consumer
type handle struct {
	messages chan *consumer.Message
	count    uint64
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (c *handle) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (c *handle) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (c *handle) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	// NOTE:
	// Do not move the code below to a goroutine.
	// The `ConsumeClaim` itself is called within a goroutine, see:
	// https://github.com/Shopify/sarama/blob/master/consumer_group.go#L27-L29
	for msg := range claim.Messages() {
		select {
		case c.messages <- &consumer.Message{
			Partition: int64(msg.Partition),
			Data:      msg.Value,
			Offset:    msg.Offset,
			Source:    msg.Topic,
			Time:      msg.Timestamp,
			Key:       string(msg.Key),
			Type:      consumer.Kafka,
		}:
		case <-session.Context().Done():
			return nil
		}
		atomic.AddUint64(&c.count, 1)
		// record was handed over to decode workers
		session.MarkMessage(msg, "")
	}
	return nil
}
