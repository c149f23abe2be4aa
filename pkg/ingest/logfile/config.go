package logfile

import (
	"context"
	"fmt"

	"go-predecode/pkg/utils"
)

// Stdin is the path that makes consumer read standard input
const Stdin = "-"

type Config struct {
	Paths []string

	// Wrap every line into a localfile queue record with file path as location
	// Lines are expected to be complete queue records otherwise
	Envelope bool

	// Keep reading files as they grow, starting from the end
	// Stdin and gzip files are read once
	Follow bool

	ConsumeWorkers int
	Ctx            context.Context
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("logfile consumer is missing config")
	}
	if len(c.Paths) == 0 {
		c.Paths = []string{Stdin}
	}
	for i, pth := range c.Paths {
		if pth == "" || pth == Stdin {
			c.Paths[i] = Stdin
			continue
		}
		expanded, err := utils.ExpandHome(pth)
		if err != nil {
			return err
		}
		if utils.FileNotExists(expanded) {
			return &utils.ErrInvalidPath{Path: pth, Msg: "file does not exist"}
		}
		if utils.StringIsValidDir(expanded) {
			return &utils.ErrInvalidPath{Path: pth, Msg: "is a directory"}
		}
		c.Paths[i] = expanded
	}
	if c.ConsumeWorkers < 1 {
		c.ConsumeWorkers = 1
	}
	// followed files never finish, every path needs a reader
	if c.Follow && c.ConsumeWorkers < len(c.Paths) {
		c.ConsumeWorkers = len(c.Paths)
	}
	if c.Ctx == nil {
		c.Ctx = context.Background()
	}
	return nil
}
