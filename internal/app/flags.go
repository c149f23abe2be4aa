package app

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// File Input
	FlagInFileEnabled  = "input-file-enabled"
	FlagInFilePaths    = "input-file-paths"
	FlagInFileEnvelope = "input-file-envelope"
	FlagInFileFollow   = "input-file-follow"

	// Unix socket Input
	FlagInUxSockEnabled = "input-uxsock-enabled"
	FlagInUxSockPath    = "input-uxsock-path"
	FlagInUxSockForce   = "input-uxsock-force"

	// Kafka Input
	FlagInKafkaEnabled       = "input-kafka-enabled"
	FlagInKafkaTopics        = "input-kafka-topics"
	FlagInKafkaBrokers       = "input-kafka-brokers"
	FlagInKafkaConsumerGroup = "input-kafka-consumer-group"
	FlagInKafkaMode          = "input-kafka-mode"

	// Syslog Input
	FlagInSyslogEnabled = "input-syslog-enabled"
	FlagInSyslogAddr    = "input-syslog-addr"

	// Stdout Output
	FlagOutStdout = "output-stdout"

	// File Output
	FlagOutFileEnabled        = "output-file-enabled"
	FlagOutFileDir            = "output-file-dir"
	FlagOutFilePath           = "output-file-path"
	FlagOutFileGzip           = "output-file-gzip"
	FlagOutFileTimestamp      = "output-file-timestamp"
	FlagOutFileRotateEnabled  = "output-file-rotate-enabled"
	FlagOutFileRotateInterval = "output-file-rotate-interval"

	// Kafka Output
	FlagOutKafkaEnabled = "output-kafka-enabled"
	FlagOutKafkaTopic   = "output-kafka-topic"
	FlagOutKafkaPrefix  = "output-kafka-prefix"
	FlagOutKafkaBrokers = "output-kafka-brokers"

	// Elastic Output
	FlagOutElasticEnabled = "output-elastic-enabled"
	FlagOutElasticHosts   = "output-elastic-hosts"
	FlagOutElasticPrefix  = "output-elastic-prefix"
	FlagOutElasticHourly  = "output-elastic-hourly"
	FlagOutElasticThreads = "output-elastic-threads"

	// Redis Output
	FlagOutRedisEnabled  = "output-redis-enabled"
	FlagOutRedisHost     = "output-redis-host"
	FlagOutRedisPort     = "output-redis-port"
	FlagOutRedisDB       = "output-redis-db"
	FlagOutRedisPassword = "output-redis-password"
	FlagOutRedisKey      = "output-redis-key"

	// Statistics and API
	FlagStatsDir      = "stats-dir"
	FlagStatsInterval = "stats-interval"
	FlagAPIEnabled    = "api-enabled"
	FlagAPIAddr       = "api-addr"
)

func RegisterInputFile(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagInFileEnabled, false, "Read records from files. Stdin is used when no paths are given.")
	viper.BindPFlag(prefix+".input.file.enabled", pFlags.Lookup(FlagInFileEnabled))

	pFlags.StringSlice(FlagInFilePaths, []string{}, "Input files, plain or gzip. Use - for stdin.")
	viper.BindPFlag(prefix+".input.file.paths", pFlags.Lookup(FlagInFilePaths))

	pFlags.Bool(FlagInFileEnvelope, false, "Input lines are plain logs, wrap them as localfile records with file path as location.")
	viper.BindPFlag(prefix+".input.file.envelope", pFlags.Lookup(FlagInFileEnvelope))

	pFlags.Bool(FlagInFileFollow, false, "Follow files as they grow, like tail -F. Gzip files and stdin are read once.")
	viper.BindPFlag(prefix+".input.file.follow", pFlags.Lookup(FlagInFileFollow))
}

func RegisterInputUxSock(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagInUxSockEnabled, false, "Listen for records on unix sockets.")
	viper.BindPFlag(prefix+".input.uxsock.enabled", pFlags.Lookup(FlagInUxSockEnabled))

	pFlags.StringSlice(FlagInUxSockPath, []string{}, "Unix socket paths. Can be specified multiple times.")
	viper.BindPFlag(prefix+".input.uxsock.path", pFlags.Lookup(FlagInUxSockPath))

	pFlags.Bool(FlagInUxSockForce, false, "Remove stale socket files left over by previous run.")
	viper.BindPFlag(prefix+".input.uxsock.force", pFlags.Lookup(FlagInUxSockForce))
}

func RegisterInputKafka(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagInKafkaEnabled, false, "Consume records from kafka.")
	viper.BindPFlag(prefix+".input.kafka.enabled", pFlags.Lookup(FlagInKafkaEnabled))

	pFlags.StringSlice(FlagInKafkaTopics, []string{}, "List of input topics")
	viper.BindPFlag(prefix+".input.kafka.topics", pFlags.Lookup(FlagInKafkaTopics))

	pFlags.StringSlice(FlagInKafkaBrokers, []string{"localhost:9092"}, "List of input brokers")
	viper.BindPFlag(prefix+".input.kafka.brokers", pFlags.Lookup(FlagInKafkaBrokers))

	pFlags.String(FlagInKafkaConsumerGroup, "predecode", "Kafka consumer group")
	viper.BindPFlag(prefix+".input.kafka.consumer_group", pFlags.Lookup(FlagInKafkaConsumerGroup))

	pFlags.String(FlagInKafkaMode, "last", "Offset mode. Supported values are beginning, latest and last.")
	viper.BindPFlag(prefix+".input.kafka.mode", pFlags.Lookup(FlagInKafkaMode))
}

func RegisterInputSyslog(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagInSyslogEnabled, false, "Listen for syslog datagrams.")
	viper.BindPFlag(prefix+".input.syslog.enabled", pFlags.Lookup(FlagInSyslogEnabled))

	pFlags.String(FlagInSyslogAddr, "0.0.0.0:10514", "UDP listen address for syslog input.")
	viper.BindPFlag(prefix+".input.syslog.addr", pFlags.Lookup(FlagInSyslogAddr))
}

func RegisterOutputStdout(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagOutStdout, false, "Print decoded events to stdout. Good for simple cli piping and debug.")
	viper.BindPFlag(prefix+".output.stdout", pFlags.Lookup(FlagOutStdout))
}

func RegisterOutputFile(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagOutFileEnabled, false, "Write decoded events to files.")
	viper.BindPFlag(prefix+".output.file.enabled", pFlags.Lookup(FlagOutFileEnabled))

	pFlags.String(FlagOutFileDir, "", "Directory for per-program event files.")
	viper.BindPFlag(prefix+".output.file.dir", pFlags.Lookup(FlagOutFileDir))

	pFlags.String(FlagOutFilePath, "", "Single file for all decoded events.")
	viper.BindPFlag(prefix+".output.file.path", pFlags.Lookup(FlagOutFilePath))

	pFlags.Bool(FlagOutFileGzip, false, "Compress output files.")
	viper.BindPFlag(prefix+".output.file.gzip", pFlags.Lookup(FlagOutFileGzip))

	pFlags.Bool(FlagOutFileTimestamp, false, "Append creation timestamp to output file names.")
	viper.BindPFlag(prefix+".output.file.timestamp", pFlags.Lookup(FlagOutFileTimestamp))

	pFlags.Bool(FlagOutFileRotateEnabled, false, "Periodically rotate and compress output files.")
	viper.BindPFlag(prefix+".output.file.rotate.enabled", pFlags.Lookup(FlagOutFileRotateEnabled))

	pFlags.Duration(FlagOutFileRotateInterval, 1*time.Hour, "Output file rotation interval.")
	viper.BindPFlag(prefix+".output.file.rotate.interval", pFlags.Lookup(FlagOutFileRotateInterval))
}

func RegisterOutputKafka(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagOutKafkaEnabled, false, "Enable kafka output")
	viper.BindPFlag(prefix+".output.kafka.enabled", pFlags.Lookup(FlagOutKafkaEnabled))

	pFlags.String(FlagOutKafkaTopic, "", "Kafka output topic. Topic per program is used with prefix when empty.")
	viper.BindPFlag(prefix+".output.kafka.topic", pFlags.Lookup(FlagOutKafkaTopic))

	pFlags.String(FlagOutKafkaPrefix, "predecode", "Prefix for per-program topics, <prefix>-<program>")
	viper.BindPFlag(prefix+".output.kafka.prefix", pFlags.Lookup(FlagOutKafkaPrefix))

	pFlags.StringSlice(FlagOutKafkaBrokers, []string{"localhost:9092"}, "Kafka output broker list")
	viper.BindPFlag(prefix+".output.kafka.brokers", pFlags.Lookup(FlagOutKafkaBrokers))
}

func RegisterOutputElastic(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagOutElasticEnabled, false, "Enable elasticsearch output.")
	viper.BindPFlag(prefix+".output.elasticsearch.enabled", pFlags.Lookup(FlagOutElasticEnabled))

	pFlags.StringSlice(FlagOutElasticHosts, []string{"http://localhost:9200"}, "List of elastic hosts. Needs http:// prefix.")
	viper.BindPFlag(prefix+".output.elasticsearch.hosts", pFlags.Lookup(FlagOutElasticHosts))

	pFlags.String(FlagOutElasticPrefix, "predecode", "Prefix to be prepended to dynamically generated elastic index")
	viper.BindPFlag(prefix+".output.elasticsearch.prefix", pFlags.Lookup(FlagOutElasticPrefix))

	pFlags.Bool(FlagOutElasticHourly, false, "Hourly index pattern as opposed to daily. Avoid in production, will explode your shard count.")
	viper.BindPFlag(prefix+".output.elasticsearch.hourly", pFlags.Lookup(FlagOutElasticHourly))

	pFlags.Int(FlagOutElasticThreads, 2, "Number of bulk workers.")
	viper.BindPFlag(prefix+".output.elasticsearch.threads", pFlags.Lookup(FlagOutElasticThreads))
}

func RegisterOutputRedis(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagOutRedisEnabled, false, "Push decoded events to a redis list.")
	viper.BindPFlag(prefix+".output.redis.enabled", pFlags.Lookup(FlagOutRedisEnabled))

	pFlags.String(FlagOutRedisHost, "localhost", "Redis host.")
	viper.BindPFlag(prefix+".output.redis.host", pFlags.Lookup(FlagOutRedisHost))

	pFlags.Int(FlagOutRedisPort, 6379, "Redis port.")
	viper.BindPFlag(prefix+".output.redis.port", pFlags.Lookup(FlagOutRedisPort))

	pFlags.Int(FlagOutRedisDB, 0, "Redis database.")
	viper.BindPFlag(prefix+".output.redis.db", pFlags.Lookup(FlagOutRedisDB))

	pFlags.String(FlagOutRedisPassword, "", "Redis password.")
	viper.BindPFlag(prefix+".output.redis.password", pFlags.Lookup(FlagOutRedisPassword))

	pFlags.String(FlagOutRedisKey, "predecode", "Redis list for decoded events.")
	viper.BindPFlag(prefix+".output.redis.key", pFlags.Lookup(FlagOutRedisKey))
}

func RegisterStats(prefix string, pFlags *pflag.FlagSet) {
	pFlags.String(FlagStatsDir, "", "Badger directory for persisting hourly statistics. Disabled when empty.")
	viper.BindPFlag(prefix+".stats.dir", pFlags.Lookup(FlagStatsDir))

	pFlags.Duration(FlagStatsInterval, 1*time.Minute, "Statistics flush interval.")
	viper.BindPFlag(prefix+".stats.interval", pFlags.Lookup(FlagStatsInterval))
}

func RegisterAPI(prefix string, pFlags *pflag.FlagSet) {
	pFlags.Bool(FlagAPIEnabled, false, "Serve decode, statistics and metrics API.")
	viper.BindPFlag(prefix+".api.enabled", pFlags.Lookup(FlagAPIEnabled))

	pFlags.String(FlagAPIAddr, "127.0.0.1:8085", "API listen address.")
	viper.BindPFlag(prefix+".api.addr", pFlags.Lookup(FlagAPIAddr))
}

// RegisterInputs binds every input module
func RegisterInputs(prefix string, pFlags *pflag.FlagSet) {
	RegisterInputFile(prefix, pFlags)
	RegisterInputUxSock(prefix, pFlags)
	RegisterInputKafka(prefix, pFlags)
	RegisterInputSyslog(prefix, pFlags)
}

// RegisterOutputs binds every output module
func RegisterOutputs(prefix string, pFlags *pflag.FlagSet) {
	RegisterOutputStdout(prefix, pFlags)
	RegisterOutputFile(prefix, pFlags)
	RegisterOutputKafka(prefix, pFlags)
	RegisterOutputElastic(prefix, pFlags)
	RegisterOutputRedis(prefix, pFlags)
}
