package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr          string        `mapstructure:"listen_addr"`
	DataDir             string        `mapstructure:"data_dir"`
	ServerURL           string        `mapstructure:"server_url"`
	HTTPTimeout         time.Duration `mapstructure:"http_timeout"`
	StatusPollInterval  time.Duration `mapstructure:"status_poll_interval"`
	PairingPollInterval time.Duration `mapstructure:"pairing_poll_interval"`
	PairingSuccessDelay time.Duration `mapstructure:"pairing_success_delay"`
	OpenAI              OpenAIConfig  `mapstructure:"openai"`
	Backup              BackupConfig  `mapstructure:"backup"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	BaseURL     string  `mapstructure:"base_url"`
}

// BackupConfig enables an S3 snapshot of the contact list after every save.
type BackupConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

func NewConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		ListenAddr:          ":8081",
		DataDir:             filepath.Join(home, ".imob-followup"),
		ServerURL:           "http://localhost:3001",
		HTTPTimeout:         15 * time.Second,
		StatusPollInterval:  5 * time.Second,
		PairingPollInterval: 2 * time.Second,
		PairingSuccessDelay: 1500 * time.Millisecond,
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
		},
		Backup: BackupConfig{
			Region: "us-east-1",
			Prefix: "contacts/",
		},
	}
}

// Load merges defaults, an optional yaml file and IMOB_* environment variables.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix("IMOB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	intervals := map[string]time.Duration{
		"http_timeout":          c.HTTPTimeout,
		"status_poll_interval":  c.StatusPollInterval,
		"pairing_poll_interval": c.PairingPollInterval,
	}
	for key, d := range intervals {
		if d <= 0 {
			return fmt.Errorf("%s deve ser positivo, recebido %s", key, d)
		}
	}
	if c.PairingSuccessDelay < 0 {
		return fmt.Errorf("pairing_success_delay não pode ser negativo, recebido %s", c.PairingSuccessDelay)
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("http_timeout", cfg.HTTPTimeout)
	v.SetDefault("status_poll_interval", cfg.StatusPollInterval)
	v.SetDefault("pairing_poll_interval", cfg.PairingPollInterval)
	v.SetDefault("pairing_success_delay", cfg.PairingSuccessDelay)
	v.SetDefault("openai.api_key", cfg.OpenAI.APIKey)
	v.SetDefault("openai.model", cfg.OpenAI.Model)
	v.SetDefault("openai.temperature", cfg.OpenAI.Temperature)
	v.SetDefault("openai.base_url", cfg.OpenAI.BaseURL)
	v.SetDefault("backup.enabled", cfg.Backup.Enabled)
	v.SetDefault("backup.bucket", cfg.Backup.Bucket)
	v.SetDefault("backup.region", cfg.Backup.Region)
	v.SetDefault("backup.endpoint", cfg.Backup.Endpoint)
	v.SetDefault("backup.access_key", cfg.Backup.AccessKey)
	v.SetDefault("backup.secret_key", cfg.Backup.SecretKey)
	v.SetDefault("backup.prefix", cfg.Backup.Prefix)
}
