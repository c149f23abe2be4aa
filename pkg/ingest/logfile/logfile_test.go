package logfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"go-predecode/pkg/predecode"
)

const testRecords = "1:/var/log/auth.log:Dec 29 10:00:01 host sshd[1]: one\n\n1:/var/log/auth.log:Dec 29 10:00:02 host sshd[1]: two\n"

func writeTestFiles(t *testing.T) (plain, gz string) {
	t.Helper()
	dir := t.TempDir()
	plain = filepath.Join(dir, "queue.log")
	if err := os.WriteFile(plain, []byte(testRecords), 0600); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(testRecords)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	gz = filepath.Join(dir, "queue.log.gz")
	if err := os.WriteFile(gz, buf.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}
	return plain, gz
}

func TestConsumer(t *testing.T) {
	plain, gz := writeTestFiles(t)
	c, err := NewConsumer(&Config{
		Paths:          []string{plain, gz},
		ConsumeWorkers: 2,
		Ctx:            context.Background(),
	})
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	offsets := map[int64]bool{}
	for msg := range c.Messages() {
		counts[msg.Source]++
		offsets[msg.Offset] = true
		if !bytes.HasPrefix(msg.Data, []byte("1:/var/log/auth.log:Dec 29")) {
			t.Fatalf("unexpected record %s", msg.Data)
		}
	}
	if counts[plain] != 2 || counts[gz] != 2 {
		t.Fatalf("expected two records per file got %+v", counts)
	}
	// empty line still counts as a line
	if !offsets[0] || !offsets[2] || offsets[1] {
		t.Fatalf("unexpected offsets %+v", offsets)
	}
}

func TestConsumerMissingFile(t *testing.T) {
	if _, err := NewConsumer(&Config{Paths: []string{"/nonexistent/queue.log"}}); err == nil {
		t.Fatal("missing file should fail validation")
	}
	if _, err := NewConsumer(&Config{Paths: []string{t.TempDir()}}); err == nil {
		t.Fatal("directory should fail validation")
	}
}

func TestEnvelope(t *testing.T) {
	line := []byte("Dec 29 10:00:01 host sshd[1]: one")
	if out := Envelope("/var/log/auth.log", line, true); string(out) != "1:/var/log/auth.log:Dec 29 10:00:01 host sshd[1]: one" {
		t.Fatalf("unexpected envelope %s", out)
	}
	if out := Envelope(Stdin, line, true); string(out) != "1:stdin:Dec 29 10:00:01 host sshd[1]: one" {
		t.Fatalf("unexpected stdin envelope %s", out)
	}
	for path, want := range map[string]string{
		"/var/log/a:b":    "/var/log/a.b",
		"(root)/messages": "_root)/messages",
	} {
		location, payload, err := predecode.SplitEnvelope(Envelope(path, line, true))
		if err != nil {
			t.Fatalf("%s: %s", path, err)
		}
		if location != want || payload != string(line) {
			t.Fatalf("%s: split into [%s] [%s]", path, location, payload)
		}
	}

	out := Envelope("x", line, false)
	line[0] = 'X'
	if out[0] != 'D' {
		t.Fatal("record shares memory with scanner buffer")
	}
}

func TestFollow(t *testing.T) {
	plain, gz := writeTestFiles(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c, err := NewConsumer(&Config{
		Paths:    []string{plain, gz},
		Follow:   true,
		Envelope: true,
		Ctx:      ctx,
	})
	if err != nil {
		t.Fatal(err)
	}
	// gzip file is read once, plain file is followed from its end
	seen := map[string]int{}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-c.Messages():
			seen[msg.Source]++
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for gzip records")
		}
	}
	if seen[gz] != 2 {
		t.Fatalf("expected gzip records first, got %+v", seen)
	}

	f, err := os.OpenFile(plain, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatal(err)
	}
	// tail may still be seeking, keep appending until a line shows up
	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case msg := <-c.Messages():
			f.Close()
			if msg.Source != plain || !bytes.HasPrefix(msg.Data, []byte("1:"+plain+":appended")) {
				t.Fatalf("unexpected followed record %s from %s", msg.Data, msg.Source)
			}
			cancel()
			for range c.Messages() {
			}
			return
		case <-tick.C:
			if _, err := f.WriteString("appended line\n"); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			f.Close()
			t.Fatal("timeout waiting for followed record")
		}
	}
}
