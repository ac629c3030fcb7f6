package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env                string `yaml:"env" env-default:"local"`
	AppSecret          string `yaml:"app_secret" env-required:"true" env:"APP_SECRET"`
	AdministratorEmail string `yaml:"administrator_email" env:"ADMINISTRATOR_EMAIL"`
	HTTPServer         `yaml:"http_server"`
	Booking            `yaml:"booking"`
	RateLimit          `yaml:"rate_limit"`
	Redis              `yaml:"redis"`
	RabbitMQ           `yaml:"rabbitmq"`
	Email              `yaml:"email"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Booking struct {
	SubmitDelay time.Duration `yaml:"submit_delay" env:"BOOKING_SUBMIT_DELAY" env-default:"1s"`
	Location    string        `yaml:"location" env:"BOOKING_LOCATION" env-default:"America/Chicago"`
	TicketTTL   time.Duration `yaml:"ticket_ttl" env-default:"24h"`
}

type RateLimit struct {
	Requests int           `yaml:"requests" env-default:"10"`
	Window   time.Duration `yaml:"window" env-default:"1m"`
}

// Redis with an empty address keeps rate limiting in memory.
type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

// RabbitMQ with an empty URL disables booking notifications.
type RabbitMQ struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL"`
	QueueName string `yaml:"queue_name" env-default:"reservations_queue"`
}

type Email struct {
	Host     string `yaml:"host" env-default:"smtp.gmail.com"`
	Port     int    `yaml:"port" env-default:"587"`
	Username string `yaml:"username" env:"EMAIL_USERNAME"`
	Password string `yaml:"password" env:"EMAIL_PASSWORD"`
}

func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config %s: %w", op, configPath, err)
	}

	if _, err := time.LoadLocation(cfg.Booking.Location); err != nil {
		return nil, fmt.Errorf("%s: invalid booking location %q: %w", op, cfg.Booking.Location, err)
	}

	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

// BookingLocation returns the time zone used to decide what "today" is.
func (c *Config) BookingLocation() *time.Location {
	loc, err := time.LoadLocation(c.Booking.Location)
	if err != nil {
		return time.Local
	}

	return loc
}
