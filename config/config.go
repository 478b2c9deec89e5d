package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	DBConn     string
	TestDBConn string
	Port       int
	LogLevel   string
	LogFormat  string
	// json file used when no database connection is configured
	StorePath      string
	AllowedOrigins []string
	// requests per second per server, 0 disables the limiter
	RateLimit    float64
	RateBurst    int
	FetchRetries int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_CONN", "")
	v.SetDefault("TEST_DB_CONN", "")
	v.SetDefault("PORT", 3000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("STORE_PATH", "schedulex.json")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT", 20.0)
	v.SetDefault("RATE_BURST", 40)
	v.SetDefault("FETCH_RETRIES", 3)
}

// Load reads .env from the working directory when there is one and then the
// process environment, which wins over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(envFile string) (Config, error) {
	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("could not load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		DBConn:       v.GetString("DB_CONN"),
		TestDBConn:   v.GetString("TEST_DB_CONN"),
		Port:         v.GetInt("PORT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFormat:    v.GetString("LOG_FORMAT"),
		StorePath:    v.GetString("STORE_PATH"),
		RateLimit:    v.GetFloat64("RATE_LIMIT"),
		RateBurst:    v.GetInt("RATE_BURST"),
		FetchRetries: v.GetInt("FETCH_RETRIES"),
	}
	for _, origin := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return cfg, errors.New("RATE_LIMIT and RATE_BURST cannot be negative")
	}
	return cfg, nil
}

// SetupLogging applies the level and formatter to the standard logrus logger
func (c Config) SetupLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	switch c.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	log.SetOutput(os.Stderr)
	return nil
}
