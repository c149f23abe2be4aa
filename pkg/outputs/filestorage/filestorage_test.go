package filestorage

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"go-predecode/pkg/models/consumer"
)

func feed(t *testing.T, h *Handle, msgs ...consumer.Message) {
	t.Helper()
	rx := make(chan consumer.Message, len(msgs))
	for _, m := range msgs {
		rx <- m
	}
	close(rx)
	if err := h.Feed(rx, "test", context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	h.Wait()
}

func readLines(t *testing.T, path string, gz bool) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var scanner *bufio.Scanner
	if gz {
		r, err := gzip.NewReader(f)
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		scanner = bufio.NewScanner(r)
	} else {
		scanner = bufio.NewScanner(f)
	}
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func TestConfigValidate(t *testing.T) {
	if err := (&Config{}).Validate(); err == nil {
		t.Fatal("config without destination should fail")
	}
	dir := filepath.Join(t.TempDir(), "sub", "dir")
	c := &Config{Dir: dir, RotateEnabled: true}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("dir not created: %s", err)
	}
	if c.RotateInterval == 0 {
		t.Fatal("rotate interval default not applied")
	}
}

func TestCombined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	h, err := NewHandle(&Config{Combined: path})
	if err != nil {
		t.Fatal(err)
	}
	feed(t, h,
		consumer.Message{Data: []byte(`{"a":1}`)},
		consumer.Message{Data: []byte("{\"a\":2}\n")},
	)
	lines := readLines(t, path, false)
	if len(lines) != 2 || lines[0] != `{"a":1}` || lines[1] != `{"a":2}` {
		t.Fatalf("unexpected content %+v", lines)
	}
}

func TestCombinedGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	h, err := NewHandle(&Config{Combined: path, Gzip: true})
	if err != nil {
		t.Fatal(err)
	}
	feed(t, h, consumer.Message{Data: []byte(`{"a":1}`)})
	lines := readLines(t, path+".gz", true)
	if len(lines) != 1 || lines[0] != `{"a":1}` {
		t.Fatalf("unexpected content %+v", lines)
	}
}

func TestPerKey(t *testing.T) {
	dir := t.TempDir()
	h, err := NewHandle(&Config{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	feed(t, h,
		consumer.Message{Data: []byte("1"), Key: "sshd"},
		consumer.Message{Data: []byte("2"), Key: "cron"},
		consumer.Message{Data: []byte("3"), Key: "sshd"},
		consumer.Message{Data: []byte("4")},
	)
	if lines := readLines(t, filepath.Join(dir, "sshd"), false); len(lines) != 2 {
		t.Fatalf("sshd file should have 2 lines, got %+v", lines)
	}
	if lines := readLines(t, filepath.Join(dir, "cron"), false); len(lines) != 1 {
		t.Fatalf("cron file should have 1 line, got %+v", lines)
	}
	if lines := readLines(t, filepath.Join(dir, "bogon"), false); len(lines) != 1 {
		t.Fatalf("bogon file should have 1 line, got %+v", lines)
	}
}

func TestSafeName(t *testing.T) {
	for in, out := range map[string]string{
		"":              "bogon",
		"sshd":          "sshd",
		"../etc/passwd": ".._etc_passwd",
		"year-syslog":   "year-syslog",
	} {
		if got := SafeName(in); got != out {
			t.Errorf("SafeName(%q) = %q, expected %q", in, got, out)
		}
	}
}

func TestGzipCompress(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain")
	if err := os.WriteFile(src, []byte("a\nb\n"), 0640); err != nil {
		t.Fatal(err)
	}
	if err := GzipCompress(src, src+".gz"); err != nil {
		t.Fatal(err)
	}
	if lines := readLines(t, src+".gz", true); len(lines) != 2 || lines[1] != "b" {
		t.Fatalf("unexpected content %+v", lines)
	}
}
