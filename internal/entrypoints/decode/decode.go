package decode

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-predecode/internal/app"
	"go-predecode/internal/config"
	"go-predecode/pkg/ingest/logfile"
	"go-predecode/pkg/predecode"
)

// Entrypoint decodes records given as arguments, or stdin lines when there are none
func Entrypoint(cmd *cobra.Command, args []string) {
	logger := logrus.StandardLogger()
	defer app.Catch(logger)

	dc := config.DecoderFromViper()
	pc, err := dc.Predecode()
	app.Throw("decoder config", err)
	decoder, err := predecode.NewDecoder(pc)
	app.Throw("decoder setup", err)

	p := &Printer{
		Decoder:  decoder,
		Out:      os.Stdout,
		JSON:     viper.GetBool(cmd.Name() + ".json"),
		Location: viper.GetString(cmd.Name() + ".location"),
	}
	if len(args) > 0 {
		for _, arg := range args {
			if err := p.Line([]byte(arg)); err != nil {
				logger.Error(err)
			}
		}
		return
	}
	if err := p.Stream(os.Stdin); err != nil {
		logger.Error(err)
	}
}

// Printer shows phase 1 decoding result for each record
type Printer struct {
	Decoder *predecode.Decoder
	Out     io.Writer
	JSON    bool
	// Wrap bare log lines into localfile records when set
	Location string
}

func (p Printer) Stream(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := p.Line(scanner.Bytes()); err != nil {
			logrus.Error(err)
		}
	}
	return scanner.Err()
}

func (p Printer) Line(line []byte) error {
	raw := logfile.Envelope(p.Location, line, p.Location != "")
	ev, err := p.Decoder.Decode(raw)
	if err != nil {
		return err
	}
	if p.JSON {
		data, err := ev.JSONFormat()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(p.Out, "%s\n", data)
		return err
	}
	_, err = fmt.Fprintf(p.Out,
		"**Phase 1: Completed pre-decoding.\n"+
			"       full event: '%s'\n"+
			"       timestamp: '%s'\n"+
			"       hostname: '%s'\n"+
			"       program_name: '%s'\n"+
			"       log: '%s'\n\n",
		ev.FullLog,
		ev.Timestamp,
		ev.Hostname,
		ev.ProgramName,
		ev.Log,
	)
	return err
}
