package config

import (
	"flag"
	"log"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string        `yaml:"env" env:"ENV" env-default:"local"`
	DatabaseUrl string        `yaml:"database_url" env:"DATABASE_URL"`
	Server      ServerConfig  `yaml:"rest"`
	JWT         JWTSecret     `yaml:"jwt"`
	Redis       RedisConfig   `yaml:"redis"`
	Session     SessionConfig `yaml:"session"`
	Stripe      StripeConfig  `yaml:"stripe"`
	App         AppConfig     `yaml:"app"`
	Archive     ArchiveConfig `yaml:"archive"`
	CORS        CORSConfig    `yaml:"cors"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
}

type JWTSecret struct {
	Secret string `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
}

// RedisConfig enables the Redis draft store when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"invitame_sid"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"168h"`
	Secure     bool          `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
}

type AppConfig struct {
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:3000"`
	// EventTimezone is the IANA zone wizard dates and times are entered in.
	EventTimezone string `yaml:"event_timezone" env:"EVENT_TIMEZONE" env-default:"America/Mexico_City"`
}

// Location resolves EventTimezone, falling back to UTC. Load has already
// rejected unknown zones.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.EventTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type ArchiveConfig struct {
	Schedule  string        `yaml:"schedule" env:"ARCHIVE_SCHEDULE" env-default:"15 3 * * *"`
	BatchSize int           `yaml:"batch_size" env:"ARCHIVE_BATCH_SIZE" env-default:"500"`
	Timeout   time.Duration `yaml:"timeout" env:"ARCHIVE_TIMEOUT" env-default:"10m"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

func MustLoad() *Config {
	path := fetchConfigPath()

	if path == "" {
		panic("Config file not found in path")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("Config file not found in path: " + path)
	}

	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the YAML file at path; environment variables override it.
func Load(path string) (*Config, error) {
	var config Config
	log.Printf("Loading config from %s", path)
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(config.App.EventTimezone); err != nil {
		return nil, fmt.Errorf("app.event_timezone: %w", err)
	}
	return &config, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "config path")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "./config/local.yaml"
	}

	return res
}
