package kafka

import (
	"errors"
	"fmt"
)

var ErrNoTopics = errors.New("kafka consumer has no topics configured")

// OffsetMode decides where a consumer group without committed offsets starts
type OffsetMode int

const (
	// OffsetLastCommit resumes from group offsets, new groups start at newest
	OffsetLastCommit OffsetMode = iota
	OffsetEarliest
	OffsetLatest
)

var offsetModes = map[string]OffsetMode{
	"last":      OffsetLastCommit,
	"beginning": OffsetEarliest,
	"latest":    OffsetLatest,
}

func (o OffsetMode) String() string {
	for name, mode := range offsetModes {
		if mode == o {
			return name
		}
	}
	return "last"
}

func (o OffsetMode) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *OffsetMode) UnmarshalText(b []byte) error {
	mode, ok := offsetModes[string(b)]
	if !ok {
		return fmt.Errorf("unknown kafka offset mode %q", b)
	}
	*o = mode
	return nil
}

// TranslateOffsetMode parses mode names loosely, anything unknown resumes from last commit
func TranslateOffsetMode(offset string) OffsetMode {
	var mode OffsetMode
	if err := mode.UnmarshalText([]byte(offset)); err != nil {
		return OffsetLastCommit
	}
	return mode
}
