package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name searched for when no --config is given.
	ConfigFileName = "sentilex"

	DefaultAddr          = ":8501"
	DefaultLogFile       = "user_analysis_log.csv"
	DefaultKafkaTopic    = "analysis-log"
	DefaultDynamoDBTable = "SentimentLog"
)

type Config struct {
	Env      string         `mapstructure:"app_env"`
	LogLevel string         `mapstructure:"log_level"`
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Valkey   ValkeyConfig   `mapstructure:"valkey"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	AWS      AWSConfig      `mapstructure:"aws"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AnalysisConfig struct {
	LogFile     string `mapstructure:"log_file"`
	LexiconPath string `mapstructure:"lexicon_path"`
	// Languages restricts the detector to these ISO 639-1 codes. Empty means all.
	Languages        []string `mapstructure:"languages"`
	ReferenceScoring bool     `mapstructure:"reference_scoring"`
}

type ValkeyConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	InitAddress string `mapstructure:"init_address"`
	Password    string `mapstructure:"password"`
	TLS         bool   `mapstructure:"tls"`
	RecentLimit int    `mapstructure:"recent_limit"`
}

type KafkaConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Broker          string `mapstructure:"broker"`
	Topic           string `mapstructure:"topic"`
	TransactionalID string `mapstructure:"transactional_id"`
}

type AWSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	DynamoDBEnabled bool   `mapstructure:"dynamodb_enabled"`
	DynamoDBTable   string `mapstructure:"dynamodb_table"`
}

// Loader resolves configuration from defaults, an optional YAML file,
// environment variables and bound flags, in increasing priority.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Viper exposes the underlying instance so commands can bind their flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

func (l *Loader) Load(configFile string) (*Config, error) {
	l.setDefaults()

	// server.addr <- SERVER_ADDR, valkey.init_address <- VALKEY_INIT_ADDRESS
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("config")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("app_env", DefaultEnv)
	l.v.SetDefault("log_level", "info")

	l.v.SetDefault("server.addr", DefaultAddr)
	l.v.SetDefault("server.max_upload_mb", 10)
	l.v.SetDefault("server.shutdown_timeout", 10*time.Second)

	l.v.SetDefault("analysis.log_file", DefaultLogFile)
	l.v.SetDefault("analysis.lexicon_path", "")
	l.v.SetDefault("analysis.languages", []string{})
	l.v.SetDefault("analysis.reference_scoring", true)

	l.v.SetDefault("valkey.enabled", false)
	l.v.SetDefault("valkey.init_address", "localhost:6379")
	l.v.SetDefault("valkey.password", "")
	l.v.SetDefault("valkey.tls", false)
	l.v.SetDefault("valkey.recent_limit", 100)

	l.v.SetDefault("kafka.enabled", false)
	l.v.SetDefault("kafka.broker", "localhost:29092")
	l.v.SetDefault("kafka.topic", DefaultKafkaTopic)
	l.v.SetDefault("kafka.transactional_id", "sentilex-producer-1")

	l.v.SetDefault("aws.endpoint", "")
	l.v.SetDefault("aws.region", "us-west-2")
	l.v.SetDefault("aws.dynamodb_enabled", false)
	l.v.SetDefault("aws.dynamodb_table", DefaultDynamoDBTable)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB))
	}
	if c.Analysis.LogFile == "" {
		errs = append(errs, errors.New("analysis.log_file must not be empty"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	if c.Valkey.Enabled && c.Valkey.InitAddress == "" {
		errs = append(errs, errors.New("valkey.init_address is required when valkey is enabled"))
	}
	if c.Kafka.Enabled && (c.Kafka.Broker == "" || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("kafka.broker and kafka.topic are required when kafka is enabled"))
	}
	if c.AWS.DynamoDBEnabled && (c.AWS.DynamoDBTable == "" || c.AWS.Region == "") {
		errs = append(errs, errors.New("aws.dynamodb_table and aws.region are required when dynamodb is enabled"))
	}

	return errors.Join(errs...)
}
