package shipper

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-predecode/internal/config"
	"go-predecode/pkg/models/consumer"
)

func TestNoOutputs(t *testing.T) {
	err := Send(make(chan *consumer.Message), "run", &config.OutputConfig{})
	if _, ok := err.(ErrNoOutputs); !ok {
		t.Fatalf("expected ErrNoOutputs, got %v", err)
	}
}

func TestSend(t *testing.T) {
	var buf bytes.Buffer
	Stdout = &buf
	defer func() { Stdout = os.Stdout }()

	dir := t.TempDir()
	rx := make(chan *consumer.Message, 3)
	rx <- &consumer.Message{Data: []byte(`{"n":1}`), Key: "sshd"}
	rx <- nil
	rx <- &consumer.Message{Data: []byte(`{"n":2}`), Key: "cron"}
	close(rx)

	if err := Send(rx, "run", &config.OutputConfig{
		Stdout: true,
		File:   config.FileOutput{Enabled: true, Dir: dir},
	}); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); out != "{\"n\":1}\n{\"n\":2}\n" {
		t.Fatalf("unexpected stdout %q", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sshd"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != `{"n":1}` {
		t.Fatalf("unexpected sshd file %q", data)
	}
}
