package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	Port string `yaml:"port"`
}

type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime Duration      `yaml:"max_conn_lifetime"`
	MigrationsPath  string        `yaml:"migrations_path"`
}

type WorkerConfig struct {
	ReconcileInterval Duration `yaml:"reconcile_interval"`
}

// Duration lets yaml values like "30m" decode into duration fields,
// which yaml.v3 does not handle for time.Duration on its own.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads the yaml config at path. A .env file next to the binary is
// loaded first so local overrides (DB_PASSWORD) can stay out of the yaml.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = 10
	}
	if cfg.Postgres.MinConns == 0 {
		cfg.Postgres.MinConns = 2
	}
	if cfg.Postgres.MaxConnLifetime == 0 {
		cfg.Postgres.MaxConnLifetime = Duration(30 * time.Minute)
	}
	if cfg.Postgres.MigrationsPath == "" {
		cfg.Postgres.MigrationsPath = "migrations"
	}
	if cfg.Worker.ReconcileInterval == 0 {
		cfg.Worker.ReconcileInterval = Duration(5 * time.Minute)
	}

	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Postgres.Password = password
	}

	if cfg.Postgres.Host == "" {
		return nil, fmt.Errorf("postgres host is required")
	}
	if cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("postgres dbname is required")
	}

	return &cfg, nil
}
