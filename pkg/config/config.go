package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "MRP"

// Store drivers.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config groups the application settings (env vars, optional mrp.yaml).
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Planning PlanningConfig
	Kafka    KafkaConfig
}

// AppConfig general settings.
type AppConfig struct {
	Env      string // development, production
	LogLevel string
}

// StoreConfig selects where master data and requirements live.
type StoreConfig struct {
	Driver      string // csv, sqlite, postgres
	ScenarioDir string
	SQLitePath  string
	DatabaseURL string
}

// PlanningConfig tunes the explosion run.
type PlanningConfig struct {
	ReserveSafetyStock bool
	CancelCheckEvery   int
}

// KafkaConfig enables event publishing when Brokers is not empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether planning events go to Kafka.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// Load reads configuration from the environment and, when present, from
// mrp.yaml in the working directory or ./config. Env vars take priority.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("mrp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return build(v)
}

// LoadFile reads an explicit config file (yaml or .env) and then the
// environment.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getString(v, "STORE_DRIVER", DriverCSV)),
			ScenarioDir: getString(v, "SCENARIO_DIR", "."),
			SQLitePath:  getString(v, "SQLITE_PATH", "smartmrp.db"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
		},
		Planning: PlanningConfig{
			ReserveSafetyStock: getBool(v, "RESERVE_SAFETY_STOCK", false),
			CancelCheckEvery:   getInt(v, "CANCEL_CHECK_EVERY", 256),
		},
		Kafka: KafkaConfig{
			Brokers: getList(v, "KAFKA_BROKERS"),
			Topic:   getString(v, "KAFKA_TOPIC", "planning-events"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and driver requirements.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverCSV, DriverSQLite:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store driver %q requires DATABASE_URL", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q (want csv, sqlite or postgres)", c.Store.Driver)
	}

	if c.Planning.CancelCheckEvery <= 0 {
		return fmt.Errorf("CANCEL_CHECK_EVERY must be positive, got %d", c.Planning.CancelCheckEvery)
	}

	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getList accepts a yaml list or a comma separated string.
func getList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	var raw []string
	if s, ok := v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = v.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
