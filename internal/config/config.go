// Package config loads runtime startup configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kaushik-sharma/full-stack-app/internal/pkg/mail"
)

// DefaultConfigPath is used when no -config flag is passed.
const DefaultConfigPath = "config.yaml"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	DSN            string             `yaml:"dsn"` // MySQL DSN; overrides Database when set
	Database       DatabaseConfig     `yaml:"database"`
	RedisURL       string             `yaml:"redis_url"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	JWT            JWTConfig          `yaml:"jwt"`
	CronSecret     string             `yaml:"cron_secret"`
	Cron           CronConfig         `yaml:"cron"`
	Mail           mail.Config        `yaml:"mail"`
	Verification   VerificationConfig `yaml:"verification"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// JWTConfig points at the PEM-encoded RSA key pair used by the token codec.
// Inline PEM takes precedence over file paths.
type JWTConfig struct {
	PrivateKeyFile string `yaml:"private_key_file"`
	PublicKeyFile  string `yaml:"public_key_file"`
	PrivateKeyPEM  string `yaml:"private_key_pem"`
	PublicKeyPEM   string `yaml:"public_key_pem"`
	Audience       string `yaml:"audience"`
	KeyID          string `yaml:"key_id"`
}

// CronConfig controls the in-process scheduler. The same jobs stay reachable
// through the shared-secret HTTP endpoints regardless of this setting.
type CronConfig struct {
	Enable          bool          `yaml:"enable"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// VerificationConfig selects which email domains require verification
// outside production. In production verification is always required.
type VerificationConfig struct {
	DevDomainWhitelist []string `yaml:"dev_domain_whitelist"`
}

// Load reads and validates the config file at path.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.resolveKeys(); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, errors.New("config: database dsn is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("config: redis_url is required")
	}
	if cfg.CronSecret == "" {
		return nil, errors.New("config: cron_secret is required")
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.Env == "" {
		c.Env = "development"
	}
	if c.DSN == "" && c.Database.Host != "" {
		c.DSN = c.Database.buildDSN()
	}
	if c.JWT.Audience == "" {
		c.JWT.Audience = "full-stack-app-api"
	}
	if c.JWT.KeyID == "" {
		c.JWT.KeyID = "ps512-v1"
	}
	if c.Cron.CleanupInterval <= 0 {
		c.Cron.CleanupInterval = time.Hour
	}
	if len(c.Verification.DevDomainWhitelist) == 0 {
		c.Verification.DevDomainWhitelist = []string{"gmail.com"}
	}
}

// resolveKeys loads PEM material from files unless provided inline.
func (c *AppConfig) resolveKeys() error {
	if c.JWT.PrivateKeyPEM == "" {
		if c.JWT.PrivateKeyFile == "" {
			return errors.New("config: jwt private key is required")
		}
		raw, err := os.ReadFile(c.JWT.PrivateKeyFile)
		if err != nil {
			return fmt.Errorf("read jwt private key: %w", err)
		}
		c.JWT.PrivateKeyPEM = string(raw)
	}
	if c.JWT.PublicKeyPEM == "" {
		if c.JWT.PublicKeyFile == "" {
			return errors.New("config: jwt public key is required")
		}
		raw, err := os.ReadFile(c.JWT.PublicKeyFile)
		if err != nil {
			return fmt.Errorf("read jwt public key: %w", err)
		}
		c.JWT.PublicKeyPEM = string(raw)
	}
	return nil
}

func (d DatabaseConfig) buildDSN() string {
	charset := d.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	port := d.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, port, d.Name, charset)
}

// IsDev reports whether the app runs in a non-production environment.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// IsProd reports whether the app runs in production.
func (c *AppConfig) IsProd() bool { return c.Env == "production" }
