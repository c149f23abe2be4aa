package filestorage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"

	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/utils"
)

var (
	TimeFmt = "20060102150405"
)

type Config struct {
	// Per-key files are written into Dir when set
	Dir string
	// Every record is also appended to Combined when set
	Combined  string
	Gzip      bool
	Timestamp bool

	RotateEnabled  bool
	RotateInterval time.Duration
}

func (c *Config) Validate() error {
	if c.Combined == "" && c.Dir == "" {
		return fmt.Errorf(
			"filestorage module requires either a root directory or explicit destination file for storing events",
		)
	}
	if c.Dir != "" {
		dir, err := utils.EnsureDir(c.Dir)
		if err != nil {
			return err
		}
		c.Dir = dir
	}
	if c.Combined != "" {
		path, err := utils.ExpandHome(c.Combined)
		if err != nil {
			return err
		}
		c.Combined = path
	}
	if c.RotateEnabled && c.RotateInterval <= 0 {
		c.RotateInterval = 1 * time.Hour
	}
	return nil
}

// sink is an open output file
type sink struct {
	path string
	f    *os.File
	buf  *bufio.Writer
	gz   io.WriteCloser
}

func openSink(path string, gz bool) (*sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		return nil, err
	}
	s := &sink{path: path, f: f}
	if gz {
		s.gz = gzip.NewWriter(f)
		s.buf = bufio.NewWriter(s.gz)
	} else {
		s.buf = bufio.NewWriter(f)
	}
	return s, nil
}

func (s *sink) write(data []byte) error {
	if _, err := s.buf.Write(data); err != nil {
		return err
	}
	return s.buf.WriteByte('\n')
}

func (s *sink) close() error {
	if err := s.buf.Flush(); err != nil {
		s.f.Close()
		return err
	}
	if s.gz != nil {
		if err := s.gz.Close(); err != nil {
			s.f.Close()
			return err
		}
	}
	return s.f.Close()
}

// Handle writes decoded events as JSON lines
type Handle struct {
	c    Config
	errs *utils.ErrChan
	wg   *sync.WaitGroup
}

func NewHandle(c *Config) (*Handle, error) {
	if c == nil {
		return nil, utils.ErrNilPointer{Function: "filestorage.NewHandle", Caller: "config"}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Handle{
		c:    *c,
		errs: utils.NewErrChan(100, "filestorage handle"),
		wg:   &sync.WaitGroup{},
	}, nil
}

func (h Handle) filename(ts time.Time, path string) string {
	if h.c.Timestamp || h.c.RotateEnabled {
		path = fmt.Sprintf("%s.%s", path, ts.Format(TimeFmt))
	}
	if h.c.Gzip {
		path = fmt.Sprintf("%s.gz", path)
	}
	return path
}

// Feed implements outputs.Feeder. Keys from fn name the per-key files in Dir.
func (h *Handle) Feed(
	rx <-chan consumer.Message,
	name string,
	ctx context.Context,
	fn consumer.TopicMapFn,
) error {
	if rx == nil {
		return fmt.Errorf("missing input stream for filestorage %s", name)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if fn == nil {
		fn = func(msg consumer.Message) string { return msg.Key }
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		sinks := make(map[string]*sink)
		closeAll := func(compress bool) {
			for k, s := range sinks {
				if err := s.close(); err != nil {
					h.errs.Send(err)
				}
				delete(sinks, k)
				if compress && !h.c.Gzip {
					h.wg.Add(1)
					go func(path string) {
						defer h.wg.Done()
						if err := GzipCompress(path, path+".gz"); err != nil {
							h.errs.Send(err)
							return
						}
						if err := os.Remove(path); err != nil {
							h.errs.Send(err)
						}
					}(s.path)
				}
			}
		}
		defer closeAll(false)

		get := func(key, base string) *sink {
			if s, ok := sinks[key]; ok {
				return s
			}
			path := h.filename(time.Now(), base)
			s, err := openSink(path, h.c.Gzip)
			if err != nil {
				h.errs.Send(err)
				return nil
			}
			log.Tracef("creating new log file %s", path)
			sinks[key] = s
			return s
		}

		var rotate <-chan time.Time
		if h.c.RotateEnabled {
			tick := time.NewTicker(h.c.RotateInterval)
			defer tick.Stop()
			rotate = tick.C
		}
		var written uint64
	loop:
		for {
			select {
			case msg, ok := <-rx:
				if !ok {
					break loop
				}
				data := []byte(strings.TrimRight(string(msg.Data), "\n"))
				if h.c.Combined != "" {
					if s := get("", h.c.Combined); s != nil {
						if err := s.write(data); err != nil {
							h.errs.Send(err)
						}
					}
				}
				if h.c.Dir != "" {
					key := SafeName(fn(msg))
					if s := get("dir/"+key, filepath.Join(h.c.Dir, key)); s != nil {
						if err := s.write(data); err != nil {
							h.errs.Send(err)
						}
					}
				}
				written++
			case <-rotate:
				log.Tracef("rotating %d files", len(sinks))
				closeAll(true)
			case <-ctx.Done():
				break loop
			}
		}
		log.WithFields(log.Fields{
			"feeder":  name,
			"written": written,
		}).Trace("filestorage feeder exited")
	}()
	return nil
}

func (h Handle) Errors() <-chan error {
	return h.errs.Items
}

func (h Handle) Wait() {
	h.wg.Wait()
}

func (h Handle) Close() error { return nil }

// SafeName turns a routing key into a usable file name
func SafeName(key string) string {
	if key == "" || key == "." || key == ".." {
		return "bogon"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, key)
}

// GzipCompress writes a gzip copy of src to dst
func GzipCompress(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return err
	}
	w := gzip.NewWriter(out)
	if _, err := io.Copy(w, in); err != nil {
		out.Close()
		return err
	}
	if err := w.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
