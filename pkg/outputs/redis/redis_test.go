package redis

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	c := &Config{Port: 1, DB: -3}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Host != "localhost" || c.Port != 6379 || c.DB != 0 {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.BatchSize != 256 || c.FlushInterval != time.Second {
		t.Fatalf("batch defaults not applied: %+v", c)
	}
}

func TestBatch(t *testing.T) {
	b := newBatch()
	b.add("predecode-sshd", []byte("a"))
	b.add("predecode-sshd", []byte("b"))
	if n := b.add("predecode-cron", []byte("c")); n != 3 {
		t.Fatalf("expected batch size 3 got %d", n)
	}
	if len(b.items) != 2 || len(b.items["predecode-sshd"]) != 2 {
		t.Fatalf("unexpected grouping %+v", b.items)
	}
	if string(b.items["predecode-sshd"][1].([]byte)) != "b" {
		t.Fatal("records must keep arrival order per key")
	}
	b.reset()
	if b.len() != 0 || len(b.items) != 0 {
		t.Fatal("reset did not clear batch")
	}
}
