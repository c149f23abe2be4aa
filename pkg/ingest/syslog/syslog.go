package syslog

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/utils"
)

const datagramSize = 64 * 1024

type Config struct {
	// Listen address in host:port form
	Addr    string
	Workers int
	Ctx     context.Context
	Logger  *logrus.Logger
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		c.Addr = "0.0.0.0:10514"
	}
	if _, err := net.ResolveUDPAddr("udp", c.Addr); err != nil {
		return err
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Ctx == nil {
		c.Ctx = context.Background()
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return nil
}

type Stats struct {
	Received  uint64
	ParseErrs uint64
}

// Server receives UDP syslog and emits syslog queue records
type Server struct {
	conn  *net.UDPConn
	tx    chan *consumer.Message
	errs  *utils.ErrChan
	stats *Stats
}

func NewServer(c *Config) (*Server, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	addr, err := net.ResolveUDPAddr("udp", c.Addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		conn:  conn,
		tx:    make(chan *consumer.Message, 0),
		errs:  utils.NewErrChan(100, "syslog server "+c.Addr),
		stats: &Stats{},
	}
	c.Logger.Infof("Spawned syslog server on %s", conn.LocalAddr())

	rx := make(chan *consumer.Message, 1024)
	go s.listen(c.Ctx, rx)

	var wg sync.WaitGroup
	go func() {
		defer close(s.tx)
		for i := 0; i < c.Workers; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				n := NewNormalizer()
			loop:
				for item := range rx {
					record, err := n.Record(item.Data, item.Sender)
					if err != nil {
						atomic.AddUint64(&s.stats.ParseErrs, 1)
						s.errs.Send(&utils.ErrParseRawData{
							Err:    err,
							Raw:    item.Data,
							Source: item.Source,
							Offset: item.Offset,
							Desc:   "syslog datagram",
						})
						continue loop
					}
					item.Data = record
					item.Partition = int64(id)
					s.tx <- item
				}
			}(i)
		}
		wg.Wait()
	}()
	return s, nil
}

func (s *Server) listen(ctx context.Context, rx chan<- *consumer.Message) {
	defer close(rx)
	defer s.conn.Close()
	buf := make([]byte, datagramSize)
	source := s.conn.LocalAddr().String()
	var count int64
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		s.conn.SetDeadline(time.Now().Add(1e9))
		n, ip, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if opErr, ok := err.(*net.OpError); ok && opErr.Timeout() {
				continue loop
			}
			s.errs.Send(err)
			continue loop
		}
		atomic.AddUint64(&s.stats.Received, 1)
		rx <- &consumer.Message{
			Sender: ip.IP,
			Data:   utils.DeepCopyBytes(buf[0:n]),
			Time:   time.Now(),
			Offset: count,
			Type:   consumer.Syslog,
			Source: source,
		}
		count++
	}
}

// Messages implements consumer.Messager
func (s Server) Messages() <-chan *consumer.Message { return s.tx }

func (s Server) Errors() <-chan error { return s.errs.Items }

func (s Server) Addr() net.Addr { return s.conn.LocalAddr() }

func (s Server) Stats() Stats {
	return Stats{
		Received:  atomic.LoadUint64(&s.stats.Received),
		ParseErrs: atomic.LoadUint64(&s.stats.ParseErrs),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("received %d datagrams, %d parse errors", s.Received, s.ParseErrs)
}
