package syslog

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"
)

func TestNormalizerRecord(t *testing.T) {
	n := NewNormalizer()
	sender := net.ParseIP("10.0.0.5")
	for _, c := range []struct {
		in  string
		out string
	}{
		{
			in:  "<13>Dec 29 10:00:01 host sshd[123]: Accepted publickey\n",
			out: "2:10.0.0.5:Dec 29 10:00:01 host sshd[123]: Accepted publickey",
		},
		{
			in:  "Dec 29 10:00:01 host prog: no priority",
			out: "2:10.0.0.5:Dec 29 10:00:01 host prog: no priority",
		},
		{
			in:  "<34>1 2003-10-11T22:14:15.003Z mymachine.example.com su 77 ID47 - 'su root' failed",
			out: "2:10.0.0.5:Oct 11 22:14:15 mymachine.example.com su[77]: 'su root' failed",
		},
		{
			in:  "<34>1 2003-10-01T02:14:15Z - su - ID47 - failed",
			out: "2:10.0.0.5:Oct  1 02:14:15 10.0.0.5 su: failed",
		},
		{
			in:  "<13>1 not really rfc5424",
			out: "2:10.0.0.5:1 not really rfc5424",
		},
		{
			in:  "<abc>text",
			out: "2:10.0.0.5:<abc>text",
		},
	} {
		record, err := n.Record([]byte(c.in), sender)
		if err != nil {
			t.Fatalf("[%s] %s", c.in, err)
		}
		if string(record) != c.out {
			t.Errorf("[%s]\nexpected [%s]\ngot      [%s]", c.in, c.out, record)
		}
	}
}

func TestNormalizerEmpty(t *testing.T) {
	n := NewNormalizer()
	for _, in := range []string{"", "\n", "<13>"} {
		if _, err := n.Record([]byte(in), nil); err != ErrEmptyDatagram {
			t.Fatalf("[%q] expected empty datagram error got %v", in, err)
		}
	}
}

func TestLocation(t *testing.T) {
	if loc := Location(net.ParseIP("::ffff:10.0.0.1")); loc != "10.0.0.1" {
		t.Fatalf("mapped address rendered as %s", loc)
	}
	if loc := Location(net.ParseIP("fe80::1")); strings.Contains(loc, ":") {
		t.Fatalf("ipv6 location must not contain envelope separator: %s", loc)
	}
	if loc := Location(nil); loc != "unknown" {
		t.Fatalf("nil sender rendered as %s", loc)
	}
}

func TestServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := NewServer(&Config{Addr: "127.0.0.1:0", Workers: 2, Ctx: ctx})
	if err != nil {
		t.Fatal(err)
	}
	conn, err := net.Dial("udp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("<13>Dec 29 10:00:01 host prog: hello")); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-s.Messages():
		if want := "2:127.0.0.1:Dec 29 10:00:01 host prog: hello"; string(msg.Data) != want {
			t.Fatalf("expected %s got %s", want, msg.Data)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for syslog record")
	}
	if st := s.Stats(); st.Received != 1 {
		t.Fatalf("unexpected stats %s", st)
	}
}
