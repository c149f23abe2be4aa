package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

type OutputConfig struct {
	Stdout  bool
	File    FileOutput
	Kafka   KafkaOutput
	Elastic ElasticOutput
	Redis   RedisOutput
}

type FileOutput struct {
	Enabled bool
	// Directory for per-program files
	Dir string
	// Single file for all events
	Path      string
	Gzip      bool
	Timestamp bool

	RotateEnabled  bool
	RotateInterval time.Duration
}

type KafkaOutput struct {
	Enabled bool
	Brokers []string
	// Single topic for every event, per-program topics with Prefix otherwise
	Topic  string
	Prefix string
}

type ElasticOutput struct {
	Enabled bool
	Hosts   []string
	Prefix  string
	Hourly  bool
	Threads int
}

type RedisOutput struct {
	Enabled  bool
	Host     string
	Port     int
	DB       int
	Password string
	// Destination list
	Key string
}

func OutputFromViper(module string) *OutputConfig {
	return &OutputConfig{
		Stdout: viper.GetBool(module + ".output.stdout"),
		File: FileOutput{
			Enabled:        viper.GetBool(module + ".output.file.enabled"),
			Dir:            viper.GetString(module + ".output.file.dir"),
			Path:           viper.GetString(module + ".output.file.path"),
			Gzip:           viper.GetBool(module + ".output.file.gzip"),
			Timestamp:      viper.GetBool(module + ".output.file.timestamp"),
			RotateEnabled:  viper.GetBool(module + ".output.file.rotate.enabled"),
			RotateInterval: viper.GetDuration(module + ".output.file.rotate.interval"),
		},
		Kafka: KafkaOutput{
			Enabled: viper.GetBool(module + ".output.kafka.enabled"),
			Brokers: viper.GetStringSlice(module + ".output.kafka.brokers"),
			Topic:   viper.GetString(module + ".output.kafka.topic"),
			Prefix:  viper.GetString(module + ".output.kafka.prefix"),
		},
		Elastic: ElasticOutput{
			Enabled: viper.GetBool(module + ".output.elasticsearch.enabled"),
			Hosts:   viper.GetStringSlice(module + ".output.elasticsearch.hosts"),
			Prefix:  viper.GetString(module + ".output.elasticsearch.prefix"),
			Hourly:  viper.GetBool(module + ".output.elasticsearch.hourly"),
			Threads: viper.GetInt(module + ".output.elasticsearch.threads"),
		},
		Redis: RedisOutput{
			Enabled:  viper.GetBool(module + ".output.redis.enabled"),
			Host:     viper.GetString(module + ".output.redis.host"),
			Port:     viper.GetInt(module + ".output.redis.port"),
			DB:       viper.GetInt(module + ".output.redis.db"),
			Password: viper.GetString(module + ".output.redis.password"),
			Key:      viper.GetString(module + ".output.redis.key"),
		},
	}
}

func (c OutputConfig) Count() (n int) {
	for _, enabled := range []bool{
		c.Stdout, c.File.Enabled, c.Kafka.Enabled, c.Elastic.Enabled, c.Redis.Enabled,
	} {
		if enabled {
			n++
		}
	}
	return n
}

func (c OutputConfig) Validate() error {
	if c.Count() == 0 {
		return ErrNoOutputs
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.File),
		validation.Field(&c.Kafka),
		validation.Field(&c.Elastic),
		validation.Field(&c.Redis),
	)
}

func (c FileOutput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Path,
			validation.When(c.Enabled && c.Dir == "", validation.Required.Error("either path or dir is required")),
			validation.Length(0, 500),
		),
		validation.Field(&c.Dir, validation.Length(0, 500)),
	)
}

func (c KafkaOutput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Brokers, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Prefix,
			validation.When(c.Enabled && c.Topic == "", validation.Required.Error("either topic or prefix is required")),
		),
	)
}

func (c ElasticOutput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Hosts,
			validation.When(c.Enabled, validation.Required),
			validation.Each(is.URL),
		),
		validation.Field(&c.Prefix, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Threads, validation.Min(0), validation.Max(64)),
	)
}

func (c RedisOutput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.When(c.Enabled, validation.Min(1), validation.Max(65535))),
		validation.Field(&c.DB, validation.Min(0), validation.Max(15)),
		validation.Field(&c.Key, validation.When(c.Enabled, validation.Required)),
	)
}
