package persist

import (
	"testing"
)

func newTestBadger(t *testing.T) *Badger {
	t.Helper()
	b, err := NewBadger(Config{Directory: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestConfigValidate(t *testing.T) {
	if _, err := NewBadger(Config{}); err != ErrMissingDirectory {
		t.Fatalf("expected ErrMissingDirectory, got %v", err)
	}
	c := Config{Directory: "/tmp/x"}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Ctx == nil || c.IntervalGC == 0 {
		t.Fatalf("defaults not applied %+v", c)
	}
}

func TestSetScan(t *testing.T) {
	b := newTestBadger(t)
	if err := b.Set("stats"); err != ErrNoValsToSet {
		t.Fatalf("expected ErrNoValsToSet, got %v", err)
	}
	if err := b.Set("stats", GenericValue{Data: 1}); err != ErrMissingKey {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	if err := b.Set("stats",
		GenericValue{Key: "0-1", Data: uint64(10)},
		GenericValue{Key: "0-2", Data: uint64(20)},
	); err != nil {
		t.Fatal(err)
	}
	if err := b.SetSingle("other-1", uint64(30)); err != nil {
		t.Fatal(err)
	}
	found := make(map[string]uint64)
	for item := range b.Scan("stats") {
		var v uint64
		if err := item.Decode(&v); err != nil {
			t.Fatal(err)
		}
		found[item.Key] = v
	}
	if len(found) != 2 || found["0-1"] != 10 || found["0-2"] != 20 {
		t.Fatalf("unexpected scan result %+v", found)
	}
}

func TestGetSingle(t *testing.T) {
	b := newTestBadger(t)
	if err := b.SetSingle("key", map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := b.GetSingle("key", func(data []byte) error {
		return json.Unmarshal(data, &got)
	}); err != nil {
		t.Fatal(err)
	}
	if got["a"] != 1 {
		t.Fatalf("unexpected value %+v", got)
	}
	err := b.GetSingle("missing", func([]byte) error { return nil })
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMissingHandle(t *testing.T) {
	var b Badger
	if err := b.SetSingle("a", 1); err != ErrMissingHandle {
		t.Fatalf("expected ErrMissingHandle, got %v", err)
	}
	if err := b.Close(); err != ErrMissingHandle {
		t.Fatalf("expected ErrMissingHandle, got %v", err)
	}
	for range b.Scan("") {
		t.Fatal("scan on empty handle should yield nothing")
	}
}
