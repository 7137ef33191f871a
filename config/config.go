package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/hms-notify/internal/notification/provider"
)

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

// DayHours is one weekday's open/close window, HH:MM. Weekdays absent from
// the clinic hours table are fully closed.
type DayHours struct {
	Open  string `mapstructure:"open"`
	Close string `mapstructure:"close"`
}

type ClinicConfig struct {
	SlotMinutes        int                 `mapstructure:"slot_minutes"`
	DefaultCountryCode string              `mapstructure:"default_country_code"`
	Hours              map[string]DayHours `mapstructure:"hours"`
}

type ReminderConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Clinic    ClinicConfig    `mapstructure:"clinic"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Provider credentials come from the environment only (SMS_*, EMAIL_*),
	// never from the config file.
	SMS   provider.SMSConfig   `mapstructure:"-"`
	Email provider.EmailConfig `mapstructure:"-"`
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.retry_backoff", "100ms")
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 2)
	viper.SetDefault("clinic.slot_minutes", 30)
	viper.SetDefault("clinic.default_country_code", "+91")
	viper.SetDefault("clinic.hours", map[string]DayHours{
		"Monday":    {Open: "09:00", Close: "17:00"},
		"Tuesday":   {Open: "09:00", Close: "17:00"},
		"Wednesday": {Open: "09:00", Close: "17:00"},
		"Thursday":  {Open: "09:00", Close: "17:00"},
		"Friday":    {Open: "09:00", Close: "17:00"},
		"Saturday":  {Open: "09:00", Close: "13:00"},
	})
	viper.SetDefault("reminder.sweep_interval", "15m")
	viper.SetDefault("rate_limit.requests_per_second", 50.0)
	viper.SetDefault("rate_limit.burst", 100)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine: defaults plus environment cover the
		// standalone/mock-provider setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("sms", &config.SMS); err != nil {
		return nil, fmt.Errorf("failed to read SMS provider config: %w", err)
	}
	if err := envconfig.Process("email", &config.Email); err != nil {
		return nil, fmt.Errorf("failed to read email provider config: %w", err)
	}

	return &config, nil
}
