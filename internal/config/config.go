package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Postgres  DBConfig
	Redis     RedisConfig
	S3        S3Config
	Session   Session
	Cookie    Cookie
	Logger    Logger
	Processor ProcessorConfig
}

type ServerConfig struct {
	AppVersion   string
	Port         string
	Mode         string
	JwtSecretKey string
}

// ProcessorConfig drives the in-process media pipeline.
type ProcessorConfig struct {
	MaxConcurrent   int
	PollIntervalSec int
	TempDir         string
	FFprobePath     string
	FFmpegPath      string
	Keywords        []string
}

func (p ProcessorConfig) PollInterval() time.Duration {
	if p.PollIntervalSec <= 0 {
		return time.Second
	}
	return time.Duration(p.PollIntervalSec) * time.Second
}

type Session struct {
	Prefix string
	Name   string
	Expire int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	PgDriver string
}

type Cookie struct {
	Name     string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	UseTLS        bool
	NotifyPrefix  string
}

type S3Config struct {
	Endpoint    string
	Region      string
	AccessKey   string
	SecretKey   string
	VideoBucket string
	MediaBucket string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Processor.MaxConcurrent <= 0 {
		c.Processor.MaxConcurrent = 2
	}
	return &c, nil
}
