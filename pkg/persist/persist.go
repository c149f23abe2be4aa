package persist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	TokenPrefixJoin = "-"
)

var (
	ErrMissingTickDuration = errors.New("Missing tick duration for GC cleanup")
	ErrMissingHandle       = errors.New("Missing badgerDB handle")
	ErrNoValsToSet         = errors.New("Missing values for Set()")
	ErrMissingKey          = errors.New("Missing badgerDB entry key")
	ErrMissingDirectory    = errors.New("Missing badgerDB directory")
)

type Config struct {
	Directory string
	Logger    *logrus.Logger

	WaitGroup *sync.WaitGroup
	Ctx       context.Context

	IntervalGC    time.Duration
	RunValueLogGC bool
}

func (c *Config) Validate() error {
	if c.Directory == "" {
		return ErrMissingDirectory
	}
	if c.Ctx == nil {
		c.Ctx = context.Background()
	}
	if c.IntervalGC <= 0 {
		c.IntervalGC = 1 * time.Minute
	}
	return nil
}

type GenericValue struct {
	Key  string
	Data interface{}
}

type ByteValue struct {
	Key  string
	Data []byte
}

// Decode unmarshals a stored value
func (v ByteValue) Decode(target interface{}) error {
	return json.Unmarshal(v.Data, target)
}

func (v GenericValue) key(prefix string) ([]byte, error) {
	if v.Key == "" {
		return nil, ErrMissingKey
	}
	if prefix != "" {
		return []byte(prefix + TokenPrefixJoin + v.Key), nil
	}
	return []byte(v.Key), nil
}

type Badger struct {
	DB *badger.DB

	config Config
	stop   context.CancelFunc
}

// Scan streams every entry under prefix, keys are returned without the prefix
func (b Badger) Scan(prefix string) <-chan ByteValue {
	tx := make(chan ByteValue)

	go func(bPrefix []byte) {
		var count int
		defer close(tx)
		if b.DB == nil {
			return
		}
		if err := b.DB.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek(bPrefix); it.ValidForPrefix(bPrefix); it.Next() {
				item := it.Item()
				err := item.Value(func(v []byte) error {
					k := strings.TrimPrefix(string(item.Key()), prefix)
					k = strings.TrimPrefix(k, TokenPrefixJoin)
					slc := make([]byte, len(v))
					copy(slc, v)
					tx <- ByteValue{
						Key:  k,
						Data: slc,
					}
					count++
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		}); err != nil && b.config.Logger != nil {
			b.config.Logger.Error(err)
		}

		if logger := b.config.Logger; logger != nil {
			logger.WithFields(logrus.Fields{
				"prefix": prefix, "count": count,
			}).Trace("badger prefix scan done")
		}
	}([]byte(prefix))

	return tx
}

func (b Badger) Set(prefix string, vals ...GenericValue) error {
	if len(vals) == 0 {
		return ErrNoValsToSet
	}
	if b.DB == nil {
		return ErrMissingHandle
	}
	if logger := b.config.Logger; logger != nil {
		logger.WithFields(logrus.Fields{
			"prefix": prefix, "count": len(vals), "key": vals[0].Key,
		}).Tracef("Set badger entry")
	}
	txn := b.DB.NewTransaction(true)
	defer txn.Discard()

	if err := setLoop(txn, prefix, vals...); err != nil {
		return err
	}

	return txn.Commit()
}

type ValueHandleFunc func([]byte) error

func (b Badger) GetSingle(key string, handler ValueHandleFunc) error {
	if b.DB == nil {
		return ErrMissingHandle
	}
	return b.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(handler)
	})
}

func (b Badger) SetSingle(key string, value interface{}) error {
	if b.DB == nil {
		return ErrMissingHandle
	}
	if value == nil {
		return ErrNoValsToSet
	}
	if key == "" {
		return ErrMissingKey
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return b.DB.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// IsNotFound reports a missing key from GetSingle
func IsNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

func (b Badger) Cleanup() error {
	if b.DB == nil {
		return ErrMissingHandle
	}
	return b.DB.RunValueLogGC(0.5)
}

func (b Badger) Close() error {
	if b.DB == nil {
		return ErrMissingHandle
	}
	if b.stop != nil {
		b.stop()
	}
	return b.DB.Close()
}

func (b Badger) runCleanup(wg *sync.WaitGroup, ctx context.Context) error {
	if b.config.IntervalGC == 0 {
		return ErrMissingTickDuration
	}
	if b.DB == nil {
		return ErrMissingHandle
	}
	if wg != nil {
		wg.Add(1)
	}
	go func(tick *time.Ticker) {
		defer tick.Stop()
		if wg != nil {
			defer wg.Done()
		}
		if b.config.Logger != nil {
			defer func() {
				b.config.Logger.Trace("badgerdb cleanup routine exited")
			}()
		}
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-tick.C:
				err := b.Cleanup()
				if b.config.Logger != nil {
					// ErrNoRewrite only means nothing was collected
					if err == nil || errors.Is(err, badger.ErrNoRewrite) {
						b.config.Logger.Trace("Called badgerdb cleanup")
					} else {
						b.config.Logger.Error(err)
					}
				}
			}
		}
	}(time.NewTicker(b.config.IntervalGC))
	return nil
}

// NewBadger is a constructor
func NewBadger(c Config) (*Badger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(c.Directory).
		WithNumLevelZeroTables(1).
		WithNumLevelZeroTablesStall(2)
	if c.Logger != nil {
		opts = opts.WithLogger(c.Logger)
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(c.Ctx)
	handle := &Badger{
		DB:     db,
		config: c,
		stop:   cancel,
	}
	if c.RunValueLogGC {
		if err := handle.runCleanup(c.WaitGroup, ctx); err != nil {
			cancel()
			db.Close()
			return nil, err
		}
	}
	return handle, nil
}

// helper functions
func setLoop(
	txn *badger.Txn,
	prefix string,
	vals ...GenericValue,
) error {
	for _, val := range vals {
		key, err := val.key(prefix)
		if err != nil {
			return err
		}
		data, err := json.Marshal(val.Data)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
	}
	return nil
}
