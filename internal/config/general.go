package config

import (
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"go-predecode/pkg/predecode"
)

type GeneralConfig struct {
	// Number of async goroutines for decoding messages
	// All workers shall consume from and output to the same channel
	Workers int
}

func GeneralFromViper() *GeneralConfig {
	return &GeneralConfig{Workers: viper.GetInt("work.threads")}
}

func (c GeneralConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Workers,
			validation.Required,
			validation.Min(1).Error("must be no less than 1"),
			validation.Max(1024).Error("must be no greater than 1024"),
		),
	)
}

type DecoderConfig struct {
	// Hostname for local records without syslog header
	Hostname string
	// Keep calendar fields found in log instead of decoding time
	KeepLogDate bool
	// IANA zone name, local time when empty
	Timezone string
}

// DecoderFromViper falls back to system hostname when none is configured
func DecoderFromViper() *DecoderConfig {
	c := &DecoderConfig{
		Hostname:    viper.GetString("decoder.hostname"),
		KeepLogDate: viper.GetBool("decoder.keep_log_date"),
		Timezone:    viper.GetString("decoder.timezone"),
	}
	if c.Hostname == "" {
		if host, err := os.Hostname(); err == nil {
			c.Hostname = host
		}
	}
	return c
}

func (c DecoderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Hostname, validation.Required, validation.Length(1, 255)),
		validation.Field(&c.Timezone, validation.By(func(value interface{}) error {
			_, err := time.LoadLocation(value.(string))
			return err
		})),
	)
}

// Predecode converts config into decoder parameters
func (c DecoderConfig) Predecode() (*predecode.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	loc := time.Local
	if c.Timezone != "" {
		l, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return nil, err
		}
		loc = l
	}
	return &predecode.Config{
		Hostname:    c.Hostname,
		KeepLogDate: c.KeepLogDate,
		Location:    loc,
	}, nil
}
