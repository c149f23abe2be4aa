package app

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Throw(context string, err error) {
	if context == "" {
		context = "app"
	}
	if err != nil {
		panic(fmt.Errorf("%s: %s ", context, err))
	}
}

func Catch(logger *logrus.Logger) {
	if err := recover(); err != nil {
		logger.Fatal(err)
	}
}

func Start(command string, logger *logrus.Logger) time.Time {
	logger.WithFields(logrus.Fields{
		"at":      time.Now(),
		"command": command,
	}).Info("Starting up")
	return time.Now()
}

func Done(command string, start time.Time, logger *logrus.Logger) {
	logger.WithFields(
		logrus.Fields{
			"duration": time.Since(start),
			"command":  command,
		},
	).Info("All done!")
}

// DrainErrors logs async worker errors until rx is closed
func DrainErrors(rx <-chan error, source string, logger *logrus.Logger) {
	if rx == nil {
		return
	}
	go func() {
		for err := range rx {
			logger.WithFields(logrus.Fields{"source": source}).Error(err)
		}
	}()
}

func DumpJSON(path string, data interface{}) error {
	bin, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(bin)
	return err
}
