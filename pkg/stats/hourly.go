package stats

import (
	"fmt"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"go-predecode/pkg/persist"
	"go-predecode/pkg/predecode"
)

const (
	Weekdays = 7
	Hours    = 24

	// PersistPrefix namespaces the counters in badger
	PersistPrefix = "stats"
	// CheckpointKey is kept outside the counter prefix so Load never scans it
	CheckpointKey = "checkpoint.stats"
)

// Checkpoint describes the last flush
type Checkpoint struct {
	Flushed     time.Time    `json:"flushed"`
	Total       uint64       `json:"total"`
	LastHour    int          `json:"last_hour"`
	LastWeekday time.Weekday `json:"last_weekday"`
}

// Hourly counts decoded records per weekday and hour
type Hourly struct {
	counts [Weekdays][Hours]uint64
}

func NewHourly() *Hourly { return &Hourly{} }

// Add counts one record, out of range values are ignored
func (h *Hourly) Add(day time.Weekday, hour int) {
	if day < time.Sunday || day > time.Saturday || hour < 0 || hour >= Hours {
		return
	}
	atomic.AddUint64(&h.counts[day][hour], 1)
}

func (h *Hourly) Get(day time.Weekday, hour int) uint64 {
	if day < time.Sunday || day > time.Saturday || hour < 0 || hour >= Hours {
		return 0
	}
	return atomic.LoadUint64(&h.counts[day][hour])
}

func (h *Hourly) Total() (total uint64) {
	for d := 0; d < Weekdays; d++ {
		for hr := 0; hr < Hours; hr++ {
			total += atomic.LoadUint64(&h.counts[d][hr])
		}
	}
	return total
}

// Table is a snapshot keyed by weekday name
func (h *Hourly) Table() map[string][]uint64 {
	out := make(map[string][]uint64, Weekdays)
	for d := time.Sunday; d <= time.Saturday; d++ {
		row := make([]uint64, Hours)
		for hr := range row {
			row[hr] = atomic.LoadUint64(&h.counts[d][hr])
		}
		out[d.String()] = row
	}
	return out
}

func cellKey(day time.Weekday, hour int) string {
	return fmt.Sprintf("%d-%d", int(day), hour)
}

// Flush stores non-empty cells under stats-<wday>-<hour> and a checkpoint
// carrying the decoder summary, s may be nil
func (h *Hourly) Flush(db *persist.Badger, s *predecode.Summary) error {
	vals := make([]persist.GenericValue, 0)
	for d := time.Sunday; d <= time.Saturday; d++ {
		for hr := 0; hr < Hours; hr++ {
			if c := h.Get(d, hr); c > 0 {
				vals = append(vals, persist.GenericValue{Key: cellKey(d, hr), Data: c})
			}
		}
	}
	if len(vals) > 0 {
		if err := db.Set(PersistPrefix, vals...); err != nil {
			return err
		}
	}
	cp := Checkpoint{Flushed: time.Now(), Total: h.Total()}
	if s != nil {
		cp.LastHour = s.Hour()
		cp.LastWeekday = s.Weekday()
	}
	return db.SetSingle(CheckpointKey, cp)
}

// LoadCheckpoint returns nil without error when nothing was flushed yet
func LoadCheckpoint(db *persist.Badger) (*Checkpoint, error) {
	var cp Checkpoint
	err := db.GetSingle(CheckpointKey, func(data []byte) error {
		return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &cp)
	})
	if persist.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// Load restores counters written by Flush, current values are replaced
func (h *Hourly) Load(db *persist.Badger) (int, error) {
	var loaded int
	var lastErr error
	for item := range db.Scan(PersistPrefix + persist.TokenPrefixJoin) {
		var day, hour int
		if _, err := fmt.Sscanf(item.Key, "%d-%d", &day, &hour); err != nil {
			lastErr = fmt.Errorf("invalid stats key %s: %w", item.Key, err)
			continue
		}
		if day < 0 || day >= Weekdays || hour < 0 || hour >= Hours {
			lastErr = fmt.Errorf("stats key %s out of range", item.Key)
			continue
		}
		var count uint64
		if err := item.Decode(&count); err != nil {
			lastErr = err
			continue
		}
		atomic.StoreUint64(&h.counts[day][hour], count)
		loaded++
	}
	return loaded, lastErr
}
