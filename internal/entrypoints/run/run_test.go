package run

import (
	"strings"
	"testing"
	"time"

	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/predecode"
	"go-predecode/pkg/stats"
)

func newTestWorkers(t *testing.T) *decodeWorkers {
	t.Helper()
	dec, err := predecode.NewDecoder(&predecode.Config{
		Hostname: "manager",
		Location: time.UTC,
		Clock: func() time.Time {
			return time.Date(2015, time.June, 1, 12, 30, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &decodeWorkers{decoder: dec, hourly: stats.NewHourly()}
}

func TestProcess(t *testing.T) {
	w := newTestWorkers(t)
	for _, c := range []struct {
		raw string
		key string
	}{
		{raw: "1:/var/log/auth.log:Jun  1 10:11:12 web sshd[42]: Accepted", key: "sshd"},
		{raw: "1:/var/log/x.log:[Fri Feb 11 18:06:35 2004] [warn] missing", key: "apache"},
		{raw: "1:/var/log/x.log:plain message", key: ""},
	} {
		msg := &consumer.Message{Data: []byte(c.raw)}
		if err := w.process(msg); err != nil {
			t.Fatalf("%s: %s", c.raw, err)
		}
		if msg.Key != c.key {
			t.Errorf("%s: expected key %q, got %q", c.raw, c.key, msg.Key)
		}
		if !strings.HasPrefix(string(msg.Data), "{") {
			t.Errorf("%s: data was not replaced with JSON event", c.raw)
		}
		if !msg.Time.Equal(time.Date(2015, time.June, 1, 12, 30, 0, 0, time.UTC)) {
			t.Errorf("%s: unexpected message time %s", c.raw, msg.Time)
		}
	}
	if w.hourly.Get(time.Monday, 12) != 3 {
		t.Fatalf("hourly stats not updated, got %d", w.hourly.Get(time.Monday, 12))
	}
	if err := w.process(&consumer.Message{Data: []byte("x")}); err == nil {
		t.Fatal("malformed envelope should fail")
	}
}

func TestSpawn(t *testing.T) {
	w := newTestWorkers(t)
	rx := make(chan *consumer.Message, 3)
	rx <- &consumer.Message{Data: []byte("1:a:Jun  1 10:11:12 web cron: job")}
	rx <- &consumer.Message{Data: []byte("bad")}
	rx <- &consumer.Message{Data: []byte("2:10.0.0.1:Jun  1 10:11:12 fw kernel: drop")}
	close(rx)

	tx, errs := w.spawn(rx, 2)
	var got int
	for range tx {
		got++
	}
	if got != 2 {
		t.Fatalf("expected 2 decoded messages, got %d", got)
	}
	var failed int
	for range errs.Items {
		failed++
	}
	if failed != 1 {
		t.Fatalf("expected 1 error, got %d", failed)
	}
}

func TestMerge(t *testing.T) {
	a := make(chan *consumer.Message, 1)
	b := make(chan *consumer.Message, 1)
	a <- &consumer.Message{}
	b <- &consumer.Message{}
	close(a)
	close(b)
	var count int
	for range merge([]input{{Messager: chanMessager(a)}, {Messager: chanMessager(b)}}) {
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 merged messages, got %d", count)
	}
}

type chanMessager chan *consumer.Message

func (c chanMessager) Messages() <-chan *consumer.Message { return c }
