package kafka

import (
	"testing"

	"github.com/Shopify/sarama"
)

func TestConfigValidate(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err != ErrNoTopics {
		t.Fatalf("expected ErrNoTopics got %v", err)
	}
	c = &Config{Topics: []string{"queue"}}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.ConsumerGroup != "predecode" || len(c.Brokers) != 1 || c.Ctx == nil || c.Logger == nil {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestOffsetMode(t *testing.T) {
	for in, want := range map[string]int64{
		"beginning": sarama.OffsetOldest,
		"latest":    sarama.OffsetNewest,
		"":          sarama.OffsetNewest,
	} {
		mode := TranslateOffsetMode(in)
		if in != "" && mode.String() != in {
			t.Fatalf("mode %s does not round trip, got %s", in, mode)
		}
		if got := newConsumerConfig(mode).Consumer.Offsets.Initial; got != want {
			t.Fatalf("mode %s: expected initial offset %d got %d", in, want, got)
		}
	}
}

func TestOffsetModeText(t *testing.T) {
	var mode OffsetMode
	if err := mode.UnmarshalText([]byte("sideways")); err == nil {
		t.Fatal("unknown mode accepted")
	}
	if err := mode.UnmarshalText([]byte("beginning")); err != nil || mode != OffsetEarliest {
		t.Fatalf("expected earliest, got %s %v", mode, err)
	}
	if out, _ := OffsetLastCommit.MarshalText(); string(out) != "last" {
		t.Fatalf("expected last, got %s", out)
	}
}
