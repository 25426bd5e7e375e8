package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// PlatformCredentials holds the stored integration settings for one delivery
// platform. The remote id goes by a different name on every platform
// (restaurant id, supplier id, store id); it is one field here.
type PlatformCredentials struct {
	APIKey    string
	APISecret string
	RemoteID  string
}

type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// NotifyTimeout bounds every outbound platform-notification call so a
	// slow platform API can never hold up a local status change.
	NotifyTimeoutSeconds int `mapstructure:"NOTIFY_TIMEOUT_SECONDS"`

	Yemeksepeti PlatformCredentials
	Getir       PlatformCredentials
	Trendyol    PlatformCredentials
	Migros      PlatformCredentials
}

func (c *Config) NotifyTimeout() time.Duration {
	if c.NotifyTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.NotifyTimeoutSeconds) * time.Second
}

// PlatformFor returns the stored credentials for a platform tag, or false if
// this deployment has none configured.
func (c *Config) PlatformFor(platform string) (PlatformCredentials, bool) {
	switch platform {
	case "yemeksepeti":
		return c.Yemeksepeti, true
	case "getir":
		return c.Getir, true
	case "trendyol":
		return c.Trendyol, true
	case "migros":
		return c.Migros, true
	default:
		return PlatformCredentials{}, false
	}
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read in environment variables that match

	err := viper.ReadInConfig()
	if err != nil {
		// Missing .env is fine in production, everything comes from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	cfg.Yemeksepeti = credentialsFromEnv("YEMEKSEPETI")
	cfg.Getir = credentialsFromEnv("GETIR")
	cfg.Trendyol = credentialsFromEnv("TRENDYOL")
	cfg.Migros = credentialsFromEnv("MIGROS")

	return &cfg, nil
}

func credentialsFromEnv(prefix string) PlatformCredentials {
	return PlatformCredentials{
		APIKey:    viper.GetString(prefix + "_API_KEY"),
		APISecret: viper.GetString(prefix + "_API_SECRET"),
		RemoteID:  viper.GetString(prefix + "_REMOTE_ID"),
	}
}
