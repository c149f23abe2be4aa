package predecode

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestDecoder(t *testing.T, c Config) *Decoder {
	t.Helper()
	if c.Hostname == "" {
		c.Hostname = "manager"
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Clock == nil {
		c.Clock = fixedClock(time.Date(2015, time.June, 1, 12, 30, 0, 0, time.UTC))
	}
	d, err := NewDecoder(&c)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDecode(t *testing.T) {
	d := newTestDecoder(t, Config{})
	for _, c := range []struct {
		raw      string
		location string
		host     string
		program  string
		log      string
		format   Format
		queue    Queue
	}{
		{
			raw:      "1:/var/log/auth.log:Dec 29 10:00:01 host sshd[123]: Accepted publickey for root",
			location: "/var/log/auth.log", host: "host", program: "sshd",
			log: "Accepted publickey for root", format: FormatSyslog, queue: QueueLocalFile,
		},
		{
			raw:      "1:/var/log/messages:free form line",
			location: "/var/log/messages", host: "manager", program: "",
			log: "free form line", format: FormatNone, queue: QueueLocalFile,
		},
		{
			raw:      "2:10.0.0.5:Dec 29 10:00:01 sshd: message",
			location: "10.0.0.5", host: "manager", program: "sshd",
			log: "message", format: FormatSyslog, queue: QueueSyslog,
		},
		{
			raw:      "1:(web01) 10.0.0.2->/var/log/auth.log:Dec 29 10:00:01 host sshd: hi",
			location: "(web01) 10.0.0.2->/var/log/auth.log", host: "(web01) 10.0.0.2->/var/log/auth.log", program: "sshd",
			log: "hi", format: FormatSyslog, queue: QueueLocalFile,
		},
		{
			raw:      "1:(web01) 10.0.0.2->/var/log/httpd/error_log:[Fri Feb 11 18:06:35 2004] [warn] msg",
			location: "(web01) 10.0.0.2->/var/log/httpd/error_log", host: "(web01) 10.0.0.2->/var/log/httpd/error_log",
			log: "[warn] msg", format: FormatApache, queue: QueueLocalFile,
		},
		{
			raw:      "1:snort:01/28-09:13:16.240702  [**] [1:2003:8] ET SCAN [**]",
			location: "snort", host: "manager",
			log: "[**] [1:2003:8] ET SCAN [**]", format: FormatSnort, queue: QueueLocalFile,
		},
		{
			raw:      "1:asl:[Time 2006.12.28 15:53:55 UTC] [Sender sshd] [Message refused] [Host mac]",
			location: "asl", host: "mac", program: "sshd",
			log: "refused", format: FormatASL, queue: QueueLocalFile,
		},
		{
			raw:      "8:syscheck:Integrity checksum changed for: '/etc/passwd'",
			location: "syscheck", host: "manager",
			log: "Integrity checksum changed for: '/etc/passwd'", format: FormatNone, queue: QueueSyscheck,
		},
		{
			raw:      "x:loc:Dec 29 10:00:01 host prog: hello",
			location: "loc", host: "host", program: "prog",
			log: "hello", format: FormatSyslog, queue: QueueUnknown,
		},
	} {
		ev, err := d.Decode([]byte(c.raw))
		if err != nil {
			t.Fatalf("[%s] %s", c.raw, err)
		}
		if ev.Location != c.location {
			t.Errorf("[%s] expected location [%s] got [%s]", c.raw, c.location, ev.Location)
		}
		if ev.Hostname != c.host {
			t.Errorf("[%s] expected hostname [%s] got [%s]", c.raw, c.host, ev.Hostname)
		}
		if ev.ProgramName != c.program || ev.ProgramNameLen != len(c.program) {
			t.Errorf("[%s] expected program [%s] got [%s] len %d", c.raw, c.program, ev.ProgramName, ev.ProgramNameLen)
		}
		if ev.Log != c.log {
			t.Errorf("[%s] expected log [%s] got [%s]", c.raw, c.log, ev.Log)
		}
		if ev.Format != c.format {
			t.Errorf("[%s] expected format %s got %s", c.raw, c.format, ev.Format)
		}
		if ev.Queue != c.queue {
			t.Errorf("[%s] expected queue %s got %s", c.raw, c.queue, ev.Queue)
		}
		if !strings.Contains(ev.FullLog, ev.Log) || !strings.HasSuffix(c.raw, ev.FullLog) {
			t.Errorf("[%s] log is not part of full log", c.raw)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	d := newTestDecoder(t, Config{})
	for _, raw := range []string{"", "1", "1:no separator", "1:(agent) no arrow:msg"} {
		ev, err := d.Decode([]byte(raw))
		if err == nil || ev != nil {
			t.Fatalf("[%s] should fail", raw)
		}
		if !errors.Is(err, ErrMalformedEnvelope) {
			t.Fatalf("[%s] unexpected error %s", raw, err)
		}
	}
}

func TestDecodeInputOwnership(t *testing.T) {
	d := newTestDecoder(t, Config{})
	raw := []byte("1:loc:Dec 29 10:00:01 host prog: hello")
	ev, err := d.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	for i := range raw {
		raw[i] = 'X'
	}
	if ev.Location != "loc" || ev.Log != "hello" || ev.Hostname != "host" {
		t.Fatalf("event changed with input buffer: %+v", ev)
	}
}

func TestDecodeUmlaut(t *testing.T) {
	d := newTestDecoder(t, Config{})
	ev, err := d.Decode([]byte("1:loc:Mär 02 17:30:52 host prog: hello"))
	if err != nil {
		t.Fatal(err)
	}
	if ev.Format != FormatSyslog {
		t.Fatalf("expected syslog got %s", ev.Format)
	}
	if ev.Hostname != "host" || ev.ProgramName != "prog" || ev.Log != "hello" {
		t.Fatalf("unexpected fields %+v", ev)
	}
	if ev.FullLog != "Mär 02 17:30:52 host prog: hello" {
		t.Fatalf("full log was modified: %s", ev.FullLog)
	}
}

func TestDecodeWallClock(t *testing.T) {
	first := time.Date(2015, time.December, 31, 23, 59, 59, 0, time.UTC)
	calls := 0
	d := newTestDecoder(t, Config{
		Clock: func() time.Time {
			calls++
			// any later read would cross the year boundary
			return first.Add(time.Duration(calls-1) * time.Second)
		},
	})
	ev, err := d.Decode([]byte("1:loc:Dec 29 10:00:01 host prog: hello"))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("clock sampled %d times", calls)
	}
	want := Timestamp{Year: 2015, Month: time.December, Day: 31, Hour: "23:59:59"}
	if ev.Timestamp != want {
		t.Fatalf("expected %s got %s", want, ev.Timestamp)
	}
	if !ev.Time.Equal(first) {
		t.Fatalf("expected event time %s got %s", first, ev.Time)
	}
	if h := d.Summary().Hour(); h != 23 {
		t.Fatalf("expected summary hour 23 got %d", h)
	}
	if wd := d.Summary().Weekday(); wd != time.Thursday {
		t.Fatalf("expected summary weekday thursday got %s", wd)
	}
}

func TestDecodeLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	d := newTestDecoder(t, Config{
		Location: loc,
		Clock:    fixedClock(time.Date(2016, time.January, 1, 22, 0, 0, 0, time.UTC)),
	})
	ev, err := d.Decode([]byte("1:loc:no timestamp"))
	if err != nil {
		t.Fatal(err)
	}
	want := Timestamp{Year: 2016, Month: time.January, Day: 2, Hour: "01:00:00"}
	if ev.Timestamp != want {
		t.Fatalf("expected %s got %s", want, ev.Timestamp)
	}
	if d.Summary().Hour() != 1 || d.Summary().Weekday() != time.Saturday {
		t.Fatalf("summary not in configured location: %d %s", d.Summary().Hour(), d.Summary().Weekday())
	}
}

func TestDecodeKeepLogDate(t *testing.T) {
	d := newTestDecoder(t, Config{KeepLogDate: true})
	wall := Timestamp{Year: 2015, Month: time.June, Day: 1, Hour: "12:30:00"}
	for _, c := range []struct {
		payload string
		want    Timestamp
	}{
		{"Dec 29 10:00:01 host prog: hello", Timestamp{2015, time.December, 29, "10:00:01"}},
		{"Jan  2 03:04:05 host prog: hello", Timestamp{2015, time.January, 2, "03:04:05"}},
		{"2015-04-16 21:51:02,805 host proftpd[123]: hello", Timestamp{2015, time.April, 16, "21:51:02"}},
		{"2007-06-14T15:48:55-04:00 host prog: hello", Timestamp{2007, time.June, 14, "15:48:55"}},
		{"2014 Mar 12 08:09:10 host prog: hello", Timestamp{2014, time.March, 12, "08:09:10"}},
		{"2019:11:06-00:08:03 host prog: hello", Timestamp{2019, time.November, 6, "00:08:03"}},
		{"Mon Apr 17 18:27:14 2006 1 64.160.42.130 5190 /home/user/x b _ o r user ftp 0 * c", Timestamp{2006, time.April, 17, "18:27:14"}},
		{"01/28-09:13:16.240702  [**] [1:2003:8] ET SCAN [**]", Timestamp{2015, time.January, 28, "09:13:16"}},
		{"01/28/1979-09:13:16.240702  [**] [1:2003:8] ET SCAN [**]", Timestamp{1979, time.January, 28, "09:13:16"}},
		{"[Fri Feb 11 18:06:35 2004] [warn] msg", Timestamp{2004, time.February, 11, "18:06:35"}},
		{"[Time 2006.12.28 15:53:55 UTC] [Sender sshd] [Message hi]", Timestamp{2006, time.December, 28, "15:53:55"}},
		{"1140804070.368  11623 10.0.0.1 TCP_MISS/200 1234 GET http://example.com/ - DIRECT/1.2.3.4 text/html", Timestamp{2006, time.February, 24, "18:01:10"}},

		// invalid components fall back to wall clock
		{"Feb 30 10:00:01 host prog: hello", wall},
		{"Dec 29 25:00:01 host prog: hello", wall},
		{"Foo 29 10:00:01 host prog: hello", wall},
		{"2007-13-14T15:48:55-04:00 host prog: hello", wall},
		{"01/28-09:61:16.240702  [**] [1:2003:8] ET SCAN [**]", wall},
		{"no timestamp at all", wall},
	} {
		ev, err := d.Decode([]byte("1:loc:" + c.payload))
		if err != nil {
			t.Fatal(err)
		}
		if ev.Timestamp != c.want {
			t.Errorf("[%s] expected %s got %s", c.payload, c.want, ev.Timestamp)
		}
	}
}

func TestDecodeIgnoreLogDate(t *testing.T) {
	d := newTestDecoder(t, Config{})
	ev, err := d.Decode([]byte("1:loc:Dec 29 10:00:01 host prog: hello"))
	if err != nil {
		t.Fatal(err)
	}
	want := Timestamp{Year: 2015, Month: time.June, Day: 1, Hour: "12:30:00"}
	if ev.Timestamp != want {
		t.Fatalf("expected wall clock %s got %s", want, ev.Timestamp)
	}
}

func TestDecodeConcurrent(t *testing.T) {
	d := newTestDecoder(t, Config{Clock: time.Now})
	records := []string{
		"1:/var/log/auth.log:Dec 29 10:00:01 host sshd[123]: Accepted",
		"1:(agent) 1.2.3.4->/var/log/secure:2015 Dec 29 10:00:01 host prog: x",
		"1:asl:[Time 2006.12.28 15:53:55 UTC] [Sender sshd] [Message hi] [Host mac]",
		"2:10.0.0.1:free text",
	}
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				raw := records[j%len(records)]
				ev, err := d.Decode([]byte(raw))
				if err != nil {
					errs <- err
					return
				}
				if ev.Hostname == "" || ev.Timestamp.Hour == "" {
					errs <- errors.New("incomplete event for " + raw)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	if h := d.Summary().Hour(); h < 0 || h > 23 {
		t.Fatalf("summary hour out of range: %d", h)
	}
}

func TestEventJSON(t *testing.T) {
	d := newTestDecoder(t, Config{})
	ev, err := d.Decode([]byte("1:loc:Dec 29 10:00:01 host prog: hello"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := ev.JSONFormat()
	if err != nil {
		t.Fatal(err)
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatal(err)
	}
	for key, val := range map[string]string{
		"location":     "loc",
		"hostname":     "host",
		"program_name": "prog",
		"log":          "hello",
		"format":       "syslog",
		"queue":        "localfile",
	} {
		if obj[key] != val {
			t.Errorf("expected %s to be %s got %v", key, val, obj[key])
		}
	}
	ts, ok := obj["timestamp"].(map[string]interface{})
	if !ok || ts["month"] != "Jun" || ts["hour"] != "12:30:00" {
		t.Fatalf("unexpected timestamp %v", obj["timestamp"])
	}
	var back Event
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Timestamp != ev.Timestamp || back.Format != ev.Format || back.Queue != ev.Queue {
		t.Fatalf("decoded event differs: %+v", back)
	}
}
