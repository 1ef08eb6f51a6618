package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers.
const (
	StorageMongo = "mongo"
	StorageFile  = "file"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	StorageDriver string `env:"STORAGE_DRIVER, default=mongo"`
	StateFile     string `env:"STATE_FILE,     default=data/kasi-nav.json"`
	CatalogFile   string `env:"CATALOG_FILE"`

	IncidentMaxAge time.Duration `env:"INCIDENT_MAX_AGE, default=24h"`
	DriverTick     time.Duration `env:"DRIVER_TICK,      default=4s"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Gemini GeminiConfig

	// JWTSecretGenerated is set when JWT_SECRET was empty in development and
	// a random secret was made for this process. Tokens do not survive a
	// restart.
	JWTSecretGenerated bool
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=kasi_nav"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type GeminiConfig struct {
	APIKey  string        `env:"GEMINI_API_KEY"`
	Model   string        `env:"GEMINI_MODEL,      default=gemini-3-flash-preview"`
	Timeout time.Duration `env:"ASSISTANT_TIMEOUT, default=20s"`
}

// IsDevelopment reports whether logs should go to the console writer.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMongo, StorageFile:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom reads configuration from l.
func LoadFrom(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret, cfg.JWTSecretGenerated = secret, true
	}
	return &cfg, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("config: generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
