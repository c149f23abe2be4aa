package syslog

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-predecode/internal/app"
	"go-predecode/internal/config"
	"go-predecode/internal/engines/shipper"
	"go-predecode/pkg/ingest/syslog"
)

// Entrypoint relays UDP syslog as raw syslog queue records without decoding
// Output is meant for the kafka or uxsock input of the run subcommand
func Entrypoint(cmd *cobra.Command, args []string) {
	logger := logrus.StandardLogger()
	start := app.Start(cmd.Name(), logger)
	defer app.Done(cmd.Name(), start, logger)
	defer app.Catch(logger)

	outputs := config.OutputFromViper(cmd.Name())
	app.Throw("output config", outputs.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := syslog.NewServer(&syslog.Config{
		Addr:    viper.GetString(cmd.Name() + ".input.syslog.addr"),
		Workers: viper.GetInt("work.threads"),
		Ctx:     ctx,
		Logger:  logger,
	})
	app.Throw("syslog server", err)
	app.DrainErrors(server.Errors(), "syslog", logger)

	chTerminate := make(chan os.Signal, 1)
	signal.Notify(chTerminate, os.Interrupt, syscall.SIGTERM)
	go func() {
		report := time.NewTicker(3 * time.Second)
		defer report.Stop()
		for {
			select {
			case <-report.C:
				logger.Infof("syslog relay %s", server.Stats())
			case <-chTerminate:
				cancel()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	app.Throw("shipper", shipper.Send(server.Messages(), cmd.Name(), outputs))
}
