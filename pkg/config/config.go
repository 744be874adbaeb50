// Package config loads service configuration from a YAML file with
// environment-variable fallbacks. A .env file next to the binary is picked
// up if present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP *HTTP     `yaml:"http"`
	DB   *Postgres `yaml:"database"`
	RMQ  *RabbitMQ `yaml:"rabbitmq"`
	Auth *Auth     `yaml:"auth"`
	Expo *Expo     `yaml:"expo"`
}

type HTTP struct {
	Port int `yaml:"port"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN renders a postgres connection string for pgx.
func (p *Postgres) DSN() string {
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, sslmode)
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

// URL renders an amqp connection string.
func (r *RabbitMQ) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", r.User, r.Password, r.Host, r.Port, r.VHost)
}

type Auth struct {
	AccessTokenSecret string `yaml:"access_token_secret"`
}

type Expo struct {
	BaseURL string `yaml:"base_url"`
}

// Load reads the YAML file at configPath if it exists, then fills any blank
// fields from the environment. Missing file is not an error; env-only
// deployments are supported.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: &HTTP{},
		DB:   &Postgres{},
		RMQ:  &RabbitMQ{},
		Auth: &Auth{},
		Expo: &Expo{},
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	fillEnv(&cfg.DB.Host, "POSTGRES_HOST", "localhost")
	fillEnv(&cfg.DB.Port, "POSTGRES_PORT", "5432")
	fillEnv(&cfg.DB.User, "POSTGRES_USER", "postgres")
	fillEnv(&cfg.DB.Password, "POSTGRES_PASSWORD", "postgres")
	fillEnv(&cfg.DB.Database, "POSTGRES_DBNAME", "dely")
	fillEnv(&cfg.RMQ.Host, "RABBITMQ_HOST", "localhost")
	fillEnv(&cfg.RMQ.Port, "RABBITMQ_PORT", "5672")
	fillEnv(&cfg.RMQ.User, "RABBITMQ_USER", "guest")
	fillEnv(&cfg.RMQ.Password, "RABBITMQ_PASSWORD", "guest")
	fillEnv(&cfg.RMQ.VHost, "RABBITMQ_VHOST", "")
	fillEnv(&cfg.Auth.AccessTokenSecret, "ACCESS_TOKEN_SECRET", "")
	fillEnv(&cfg.Expo.BaseURL, "EXPO_BASE_URL", "")

	return cfg, nil
}

func fillEnv(dst *string, key, defaultValue string) {
	if *dst != "" {
		return
	}
	if value := os.Getenv(key); value != "" {
		*dst = value
		return
	}
	*dst = defaultValue
}
