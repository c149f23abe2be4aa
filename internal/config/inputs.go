package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

type InputConfig struct {
	File   FileInput
	UxSock UxSockInput
	Kafka  KafkaInput
	Syslog SyslogInput
}

type FileInput struct {
	Enabled bool
	Paths   []string
	// Wrap plain log lines into localfile records
	Envelope bool
	// Tail files instead of reading them once
	Follow bool
}

type UxSockInput struct {
	Enabled bool
	Sockets []string
	Force   bool
}

type KafkaInput struct {
	Enabled       bool
	Brokers       []string
	Topics        []string
	ConsumerGroup string
	// beginning, latest or last
	Mode string
}

type SyslogInput struct {
	Enabled bool
	Addr    string
}

func InputFromViper(module string) *InputConfig {
	return &InputConfig{
		File: FileInput{
			Enabled:  viper.GetBool(module + ".input.file.enabled"),
			Paths:    viper.GetStringSlice(module + ".input.file.paths"),
			Envelope: viper.GetBool(module + ".input.file.envelope"),
			Follow:   viper.GetBool(module + ".input.file.follow"),
		},
		UxSock: UxSockInput{
			Enabled: viper.GetBool(module + ".input.uxsock.enabled"),
			Sockets: viper.GetStringSlice(module + ".input.uxsock.path"),
			Force:   viper.GetBool(module + ".input.uxsock.force"),
		},
		Kafka: KafkaInput{
			Enabled:       viper.GetBool(module + ".input.kafka.enabled"),
			Brokers:       viper.GetStringSlice(module + ".input.kafka.brokers"),
			Topics:        viper.GetStringSlice(module + ".input.kafka.topics"),
			ConsumerGroup: viper.GetString(module + ".input.kafka.consumer_group"),
			Mode:          viper.GetString(module + ".input.kafka.mode"),
		},
		Syslog: SyslogInput{
			Enabled: viper.GetBool(module + ".input.syslog.enabled"),
			Addr:    viper.GetString(module + ".input.syslog.addr"),
		},
	}
}

// Count returns the number of enabled inputs
func (c InputConfig) Count() (n int) {
	for _, enabled := range []bool{c.File.Enabled, c.UxSock.Enabled, c.Kafka.Enabled, c.Syslog.Enabled} {
		if enabled {
			n++
		}
	}
	return n
}

func (c InputConfig) Validate() error {
	if c.Count() == 0 {
		return ErrNoInputs
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.UxSock),
		validation.Field(&c.Kafka),
		validation.Field(&c.Syslog),
	)
}

func (c UxSockInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Sockets, validation.When(c.Enabled, validation.Required)),
	)
}

func (c KafkaInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Brokers, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Topics, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Mode, validation.In("", "beginning", "latest", "last")),
	)
}

func (c SyslogInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.When(c.Enabled, validation.Required)),
	)
}
