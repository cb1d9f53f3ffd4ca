package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port     int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env      string `yaml:"env" env:"ENV" env-default:"development"`
		LogLevel string `yaml:"log_level" env:"LOGLEVEL" env-default:"info"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
		// Migrate applies the embedded schema at startup.
		Migrate bool `yaml:"migrate" env:"MIGRATE"`
	} `yaml:"database"`
	Smtp struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT" env-default:"25"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER" env-default:"Local Library <no-reply@locallibrary.local>"`
		// Notify receives loan notices. Notices are disabled when empty.
		Notify string `yaml:"notify" env:"SMTPNOTIFY"`
	} `yaml:"smtp"`
	S3 struct {
		AccessKeyID     string `yaml:"access_key_id" env:"ACCESSKEYID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"SECRETACCESSKEY"`
		Region          string `yaml:"region" env:"REGION"`
		Bucket          string `yaml:"bucket" env:"BUCKET"`
	} `yaml:"s3"`
	OpenLibrary struct {
		URL       string        `yaml:"url" env:"OPENLIBRARYURL" env-default:"https://openlibrary.org"`
		Timeout   time.Duration `yaml:"timeout" env:"OPENLIBRARYTIMEOUT" env-default:"10s"`
		UserAgent string        `yaml:"user_agent" env:"OPENLIBRARYUSERAGENT" env-default:"locallibrary/1.0"`
	} `yaml:"openlibrary"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS" env-separator:" "`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"USERNAME"`
		// PasswordHash is a bcrypt hash of the metrics password.
		PasswordHash string `yaml:"password_hash" env:"PASSWORDHASH"`
	} `yaml:"basic_auth"`
	Cache struct {
		SummaryTTL time.Duration `yaml:"summary_ttl" env:"SUMMARYTTL" env-default:"1m"`
	} `yaml:"cache"`
}

// Decode reads the configuration from the file at path, letting environment
// variables override it. With an empty path only the environment is read.
func Decode(path string) (Config, error) {
	var cfg Config
	if path == "" {
		err := cleanenv.ReadEnv(&cfg)
		return cfg, err
	}
	err := cleanenv.ReadConfig(path, &cfg)
	return cfg, err
}
