package kafka

import (
	"testing"

	"github.com/Shopify/sarama"

	"go-predecode/pkg/models/consumer"
)

func TestConfigValidate(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(c.Brokers) != 1 || c.Brokers[0] != "localhost:9092" {
		t.Fatalf("unexpected default brokers %+v", c.Brokers)
	}
	if c.SaramaConfig.Producer.Compression != sarama.CompressionSnappy {
		t.Fatal("producer should compress with snappy")
	}
	if c.SaramaConfig.Producer.RequiredAcks != sarama.NoResponse {
		t.Fatal("producer should not wait for acks")
	}
}

func TestTopicByKey(t *testing.T) {
	fn := TopicByKey("events")
	if topic := fn(consumer.Message{Key: "sshd"}); topic != "events-sshd" {
		t.Fatalf("unexpected topic %s", topic)
	}
	if topic := fn(consumer.Message{}); topic != "events-bogon" {
		t.Fatalf("unexpected topic %s", topic)
	}
}
