package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestThrow(t *testing.T) {
	Throw("noop", nil)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Throw did not panic on error")
		}
	}()
	Throw("", errors.New("boom"))
}

func TestRegisterFlags(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterInputs("run", fs)
	RegisterOutputs("run", fs)
	RegisterStats("run", fs)
	RegisterAPI("run", fs)

	if err := fs.Parse([]string{
		"--" + FlagInSyslogEnabled,
		"--" + FlagOutRedisKey, "events",
		"--" + FlagInFilePaths, "a.log,b.log",
	}); err != nil {
		t.Fatal(err)
	}
	if !viper.GetBool("run.input.syslog.enabled") {
		t.Fatal("syslog input flag not bound")
	}
	if v := viper.GetString("run.output.redis.key"); v != "events" {
		t.Fatalf("expected redis key events, got %s", v)
	}
	if v := viper.GetStringSlice("run.input.file.paths"); len(v) != 2 {
		t.Fatalf("expected 2 paths, got %+v", v)
	}
	if v := viper.GetString("run.input.kafka.consumer_group"); v != "predecode" {
		t.Fatalf("default consumer group not bound, got %s", v)
	}
}

func TestDumpJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := DumpJSON(path, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]int
	if err := json.Unmarshal(data, &out); err != nil || out["a"] != 1 {
		t.Fatalf("unexpected dump %s %v", data, err)
	}
}
