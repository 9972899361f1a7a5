package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the full application configuration, read by viper from flags,
// environment (BURRITOWATCH_*) and an optional config file.
type Config struct {
	// APIKey bypasses the bundle scrape when set.
	APIKey            string `mapstructure:"api_key"`
	APIKeyEndpoint    string `mapstructure:"api_key_endpoint"`
	LocationsEndpoint string `mapstructure:"locations_endpoint"`
	MenuEndpoint      string `mapstructure:"menu_endpoint"`
	MenuReplaceToken  string `mapstructure:"menu_replace_token"`

	KeyTTL            time.Duration `mapstructure:"key_ttl"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`

	Batch        BatchConfig        `mapstructure:"batch"`
	Output       OutputConfig       `mapstructure:"output"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Database     DatabaseConfig     `mapstructure:"database"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
}

// BatchConfig shapes the load of a nationwide menu run.
type BatchConfig struct {
	Size  int           `mapstructure:"size"`
	Delay time.Duration `mapstructure:"delay"`
}

// OutputConfig selects where batch results go. Type is one of console,
// json, postgres, kafka, parquet.
type OutputConfig struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`

	// Destination applies to the parquet sink: local or s3.
	Destination string `mapstructure:"destination"`
}

type KafkaConfig struct {
	BrokerList string `mapstructure:"broker_list"`
	Topic      string `mapstructure:"topic"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

// LoadConfig reads the configuration using viper. A missing config file is
// fine unless one was named explicitly; flags and env still apply.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("burritowatch")
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	viper.SetEnvPrefix("burritowatch")
	viper.AutomaticEnv()

	viper.SetDefault("batch.size", 5)
	viper.SetDefault("batch.delay", 2*time.Second)
	viper.SetDefault("output.type", "console")
	viper.SetDefault("output.destination", "local")

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
