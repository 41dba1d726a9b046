package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	HTTPPort int `mapstructure:"http_port"`
	GRPCPort int `mapstructure:"grpc_port"`

	StoreBackend string `mapstructure:"store_backend"`
	MongoURI     string `mapstructure:"mongo_uri"`
	MongoDBName  string `mapstructure:"mongo_db_name"`

	// Redis product cache; disabled when empty
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	// comma separated; checkout events are not published when empty
	KafkaBrokersCSV string   `mapstructure:"kafka_brokers"`
	CheckoutTopic   string   `mapstructure:"checkout_topic"`
	KafkaBrokers    []string `mapstructure:"-"`

	FakeStoreURL     string        `mapstructure:"fakestore_url"`
	FakeStoreTimeout time.Duration `mapstructure:"fakestore_timeout"`
	SeedOnStart      bool          `mapstructure:"seed_on_start"`
	SeedMinProducts  int           `mapstructure:"seed_min_products"`

	DefaultCartID   string        `mapstructure:"default_cart_id"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Log logger.Config `mapstructure:",squash"`
}

var defaults = map[string]any{
	"http_port":         5001,
	"grpc_port":         50051,
	"store_backend":     BackendMongo,
	"mongo_uri":         "mongodb://localhost:27017",
	"mongo_db_name":     "storefront",
	"redis_addr":        "",
	"redis_password":    "",
	"kafka_brokers":     "",
	"checkout_topic":    "checkout.completed",
	"fakestore_url":     "https://fakestoreapi.com",
	"fakestore_timeout": 10 * time.Second,
	"seed_on_start":     true,
	"seed_min_products": 20,
	"default_cart_id":   "default",
	"request_timeout":   15 * time.Second,
	"shutdown_timeout":  10 * time.Second,
	"log_level":         "info",
	"log_format":        "json",
	"log_file":          "",
	"log_max_size_mb":   100,
	"log_max_backups":   3,
	"log_max_age_days":  28,
}

// Load reads .env (if present), then the optional config file at path,
// then the process environment. Later sources win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.KafkaBrokers = splitCSV(cfg.KafkaBrokersCSV)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort))
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("GRPC_PORT out of range: %d", c.GRPCPort))
	}

	switch c.StoreBackend {
	case BackendMongo:
		if c.MongoURI == "" || c.MongoDBName == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DB_NAME are required for the mongo backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMongo, BackendMemory, c.StoreBackend))
	}

	if len(c.KafkaBrokers) > 0 && c.CheckoutTopic == "" {
		errs = append(errs, errors.New("CHECKOUT_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if c.SeedMinProducts < 0 {
		errs = append(errs, errors.New("SEED_MIN_PRODUCTS must not be negative"))
	}
	if strings.TrimSpace(c.DefaultCartID) == "" {
		errs = append(errs, errors.New("DEFAULT_CART_ID must not be empty"))
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 || c.FakeStoreTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func splitCSV(csv string) []string {
	out := []string{}
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
