package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// AppDirName — имя каталога приложения внутри пользовательского каталога конфигурации.
const AppDirName = "Webhook-Messenger"

const (
	dataFileJSON   = "data.json"
	dataFileSQLite = "data.sqlite"
	keyFileName    = "key.bin"

	defaultListenAddr = "127.0.0.1:8765"
)

type Config struct {
	// Local storage
	DataDir      string `env:"DATA_DIR" validate:"required"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"json" validate:"oneof=json sqlite"`
	Protector    string `env:"PROTECTOR" envDefault:"auto" validate:"oneof=auto keyfile keyring"`

	// Shared settings
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"warn" validate:"oneof=debug info warn error"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s" validate:"gt=0"`

	// Local API settings
	ListenAddr string        `env:"LISTEN_ADDR" validate:"hostname_port"`
	AuthSecret string        `env:"AUTH_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"24h" validate:"gt=0"`

	Version bool `env:"-"` // show version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "каталог с данными приложения")
	flag.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "storage backend: json or sqlite")
	flag.StringVar(&cfg.Protector, "protector", cfg.Protector, "secret protector: auto, keyfile or keyring")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "timeout for outgoing webhook requests")
	flag.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "адрес локального API (host:port)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "lifetime of issued API tokens")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show version and exit")

	flag.Parse()

	applyDefaults(cfg)
	return cfg
}

// listen address must be "host:port" without scheme or path.
var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			home, _ := os.UserHomeDir()
			base = home
		}
		cfg.DataDir = filepath.Join(base, AppDirName)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.Protector = strings.ToLower(strings.TrimSpace(cfg.Protector))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if !hostPortRe.MatchString(cfg.ListenAddr) {
		cfg.ListenAddr = defaultListenAddr
	}
}

var validate = validator.New()

// Validate проверяет значения после применения умолчаний.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DataFile — путь к файлу хранилища для выбранного бэкенда.
func (c *Config) DataFile() string {
	if c.StoreBackend == "sqlite" {
		return filepath.Join(c.DataDir, dataFileSQLite)
	}
	return filepath.Join(c.DataDir, dataFileJSON)
}

// KeyFile — путь к файлу ключа для KeyFileProtector.
func (c *Config) KeyFile() string {
	return filepath.Join(c.DataDir, keyFileName)
}
