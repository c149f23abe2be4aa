package run

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-predecode/internal/app"
	"go-predecode/internal/config"
	"go-predecode/internal/engines/shipper"
	"go-predecode/pkg/api"
	"go-predecode/pkg/ingest"
	inKafka "go-predecode/pkg/ingest/kafka"
	"go-predecode/pkg/ingest/logfile"
	"go-predecode/pkg/ingest/syslog"
	"go-predecode/pkg/ingest/uxsock"
	"go-predecode/pkg/models/consumer"
	"go-predecode/pkg/persist"
	"go-predecode/pkg/predecode"
	"go-predecode/pkg/stats"
)

// input is a running ingest module
type input struct {
	module ingest.Module
	consumer.Messager
	errs <-chan error
}

func Entrypoint(cmd *cobra.Command, args []string) {
	logger := logrus.StandardLogger()
	start := app.Start(cmd.Name(), logger)
	defer app.Done(cmd.Name(), start, logger)
	defer app.Catch(logger)

	conf := config.FromViper(cmd.Name())
	app.Throw("config", conf.Validate())

	logger.WithFields(logrus.Fields{
		"workers":  conf.General.Workers,
		"hostname": conf.Decoder.Hostname,
		"inputs":   conf.Input.Count(),
		"outputs":  conf.Output.Count(),
	}).Debug("config parameter debug")

	decoderConf, err := conf.Decoder.Predecode()
	app.Throw("decoder config", err)
	decoder, err := predecode.NewDecoder(decoderConf)
	app.Throw("decoder setup", err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inputs, err := startInputs(ctx, conf.Input, conf.General.Workers, logger)
	app.Throw("input setup", err)
	for _, in := range inputs {
		app.DrainErrors(in.errs, in.module.String(), logger)
		logger.WithFields(logrus.Fields{"input": in.module.String()}).Debug("input enabled")
	}

	hourly := stats.NewHourly()
	collector := stats.NewCollector()
	collector.Register(prometheus.DefaultRegisterer)

	var bg sync.WaitGroup
	ctxBg, cancelBg := context.WithCancel(context.Background())
	if dir := conf.Stats.Dir; dir != "" {
		db, err := persist.NewBadger(persist.Config{
			Directory:     dir,
			Logger:        logger,
			Ctx:           ctxBg,
			WaitGroup:     &bg,
			RunValueLogGC: true,
		})
		app.Throw("stats persistence", err)
		defer db.Close()
		n, err := hourly.Load(db)
		if err != nil {
			logger.WithFields(logrus.Fields{"dir": dir}).Warn(err)
		}
		logger.WithFields(logrus.Fields{"cells": n, "dir": dir}).Debug("loaded hourly stats")
		if cp, err := stats.LoadCheckpoint(db); err != nil {
			logger.WithFields(logrus.Fields{"dir": dir}).Warn(err)
		} else if cp != nil {
			logger.WithFields(logrus.Fields{
				"flushed":      cp.Flushed,
				"total":        cp.Total,
				"last_hour":    cp.LastHour,
				"last_weekday": cp.LastWeekday.String(),
			}).Info("resuming hourly stats")
		}
		interval := conf.Stats.FlushInterval
		if interval <= 0 {
			interval = time.Minute
		}
		bg.Add(1)
		go func() {
			defer bg.Done()
			tick := time.NewTicker(interval)
			defer tick.Stop()
			for {
				select {
				case <-tick.C:
					if err := hourly.Flush(db, decoder.Summary()); err != nil {
						logger.Error(err)
					}
				case <-ctxBg.Done():
					if err := hourly.Flush(db, decoder.Summary()); err != nil {
						logger.Error(err)
					}
					return
				}
			}
		}()
	}

	if conf.API.Enabled {
		srv := &api.Server{Decoder: decoder, Hourly: hourly, Collector: collector}
		srv.Routes()
		bg.Add(1)
		go func() {
			defer bg.Done()
			if err := srv.Serve(ctxBg, conf.API.Addr); err != nil {
				logger.WithFields(logrus.Fields{"addr": conf.API.Addr}).Error(err)
			}
		}()
	}

	// handle ctrl-c exit
	chTerminate := make(chan os.Signal, 1)
	signal.Notify(chTerminate, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-chTerminate
		logger.Info("caught interrupt, stopping inputs")
		cancel()
	}()

	workers := &decodeWorkers{decoder: decoder, hourly: hourly, collector: collector}
	decoded, errs := workers.spawn(merge(inputs), conf.General.Workers)
	go func() {
		for err := range errs.Items {
			logger.WithFields(logrus.Fields{"source": "decoder"}).Error(err)
		}
	}()

	if err := shipper.Send(decoded, cmd.Name(), conf.Output); err != nil {
		cancel()
		cancelBg()
		bg.Wait()
		app.Throw("shipper", err)
	}
	logger.WithFields(logrus.Fields{
		"decoded": atomic.LoadUint64(&workers.count),
	}).Info("pipeline finished")
	cancelBg()
	bg.Wait()
}

func startInputs(
	ctx context.Context,
	c *config.InputConfig,
	workers int,
	logger *logrus.Logger,
) ([]input, error) {
	inputs := make([]input, 0, c.Count())

	if c.File.Enabled {
		reader, err := logfile.NewConsumer(&logfile.Config{
			Paths:          c.File.Paths,
			Envelope:       c.File.Envelope,
			Follow:         c.File.Follow,
			ConsumeWorkers: workers,
			Ctx:            ctx,
		})
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{module: ingest.Logfile, Messager: reader, errs: reader.Errors()})
	}
	if c.UxSock.Enabled {
		reader, err := uxsock.NewConsumer(&uxsock.Config{
			Sockets: c.UxSock.Sockets,
			Force:   c.UxSock.Force,
			Ctx:     ctx,
		})
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{module: ingest.UxSock, Messager: reader, errs: reader.Errors()})
	}
	if c.Kafka.Enabled {
		reader, err := inKafka.NewConsumer(&inKafka.Config{
			Name:          "predecode input",
			Brokers:       c.Kafka.Brokers,
			ConsumerGroup: c.Kafka.ConsumerGroup,
			Topics:        c.Kafka.Topics,
			OffsetMode:    inKafka.TranslateOffsetMode(c.Kafka.Mode),
			Ctx:           ctx,
			Logger:        logger,
		})
		if err != nil {
			logger.WithFields(logrus.Fields{
				"action": "input spawn",
				"module": "kafka consumer",
				"hosts":  c.Kafka.Brokers,
			}).Error(err)
			return nil, err
		}
		inputs = append(inputs, input{module: ingest.Kafka, Messager: reader, errs: reader.Errors()})
	}
	if c.Syslog.Enabled {
		server, err := syslog.NewServer(&syslog.Config{
			Addr:    c.Syslog.Addr,
			Workers: workers,
			Ctx:     ctx,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{module: ingest.Syslog, Messager: server, errs: server.Errors()})
	}
	return inputs, nil
}

// merge joins every input stream, output is closed once all inputs are done
func merge(inputs []input) <-chan *consumer.Message {
	if len(inputs) == 1 {
		return inputs[0].Messages()
	}
	tx := make(chan *consumer.Message)
	var wg sync.WaitGroup
	for _, in := range inputs {
		wg.Add(1)
		go func(rx <-chan *consumer.Message) {
			defer wg.Done()
			for msg := range rx {
				tx <- msg
			}
		}(in.Messages())
	}
	go func() {
		wg.Wait()
		close(tx)
	}()
	return tx
}
