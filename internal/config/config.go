package config

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

var (
	ErrNoInputs  = errors.New("no inputs enabled, see --help")
	ErrNoOutputs = errors.New("no outputs enabled, see --help")
)

// Config is the full pipeline of the run subcommand
type Config struct {
	General *GeneralConfig
	Decoder *DecoderConfig

	Input  *InputConfig
	Output *OutputConfig

	Stats *StatsConfig
	API   *APIConfig
}

type StatsConfig struct {
	// Badger directory for hourly counters, persistence is disabled when empty
	Dir string

	FlushInterval time.Duration
}

func (c StatsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FlushInterval,
			validation.When(c.Dir != "",
				validation.Min(time.Second).Error("must be no less than 1s"),
				validation.Max(24*time.Hour).Error("must be no greater than 24h0m0s"),
			),
		),
	)
}

type APIConfig struct {
	Enabled bool
	// Listen address in host:port form
	Addr string
}

func (c APIConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.When(c.Enabled, validation.Required)),
	)
}

// FromViper assembles pipeline configuration for module
// Input and output keys live under module prefix, decoder and work keys are global
func FromViper(module string) *Config {
	return &Config{
		General: GeneralFromViper(),
		Decoder: DecoderFromViper(),
		Input:   InputFromViper(module),
		Output:  OutputFromViper(module),
		Stats: &StatsConfig{
			Dir:           viper.GetString(module + ".stats.dir"),
			FlushInterval: viper.GetDuration(module + ".stats.interval"),
		},
		API: &APIConfig{
			Enabled: viper.GetBool(module + ".api.enabled"),
			Addr:    viper.GetString(module + ".api.addr"),
		},
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.General, validation.Required),
		validation.Field(&c.Decoder, validation.Required),
		validation.Field(&c.Input, validation.Required),
		validation.Field(&c.Output, validation.Required),
		validation.Field(&c.Stats),
		validation.Field(&c.API),
	)
}
