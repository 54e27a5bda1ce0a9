package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone    = "UTC"
	configPathEnv      = "SECNEWS_CONFIG"
	togetherAPIKeyEnv  = "TOGETHER_API_KEY"
	togetherModelEnv   = "TOGETHER_MODEL"
	smtpServerEnv      = "SMTP_SERVER"
	smtpPortEnv        = "SMTP_PORT"
	smtpUserEnv        = "SMTP_USER"
	smtpPassEnv        = "SMTP_PASS"
	emailFromEnv       = "EMAIL_FROM"
	emailToEnv         = "EMAIL_TO"
	vendorsFileEnv     = "VENDORS_FILE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Together TogetherConfig `yaml:"together"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Storage  StorageConfig  `yaml:"storage"`
	Sites    []SiteConfig   `yaml:"sites"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MonitorConfig defines the run's reference timezone and fetch bounds.
type MonitorConfig struct {
	Timezone            string         `yaml:"timezone"`
	FetchTimeoutSeconds int            `yaml:"fetchTimeoutSeconds"`
	location            *time.Location `yaml:"-"`
}

// Location resolves the monitor timezone string to a time.Location.
func (m MonitorConfig) Location() *time.Location {
	if m.location != nil {
		return m.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// FetchTimeout bounds a single site fetch.
func (m MonitorConfig) FetchTimeout() time.Duration {
	if m.FetchTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(m.FetchTimeoutSeconds) * time.Second
}

// TogetherConfig defines how to contact the Together AI chat API.
type TogetherConfig struct {
	Endpoint      string `yaml:"endpoint"`
	DedupeModel   string `yaml:"dedupeModel"`
	AnalysisModel string `yaml:"analysisModel"`
	APIKey        string `yaml:"apiKey"`
}

// SMTPConfig wires all data required to deliver the report email.
type SMTPConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	UseTLS   bool   `yaml:"useTls"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// Configured reports whether enough is present to attempt delivery.
func (s SMTPConfig) Configured() bool {
	return s.Server != "" && s.Username != "" && s.Password != "" && s.From != "" && s.To != ""
}

// StorageConfig locates the flat-file vendor store.
type StorageConfig struct {
	VendorsFile string `yaml:"vendorsFile"`
}

// SiteConfig describes a single news site with its scanner strategy.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	URL     string            `yaml:"url"`
	Options map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadPath(os.Getenv(configPathEnv))
}

// LoadPath is Load with an explicit config file path, as set by the CLI flag.
func LoadPath(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(togetherAPIKeyEnv); v != "" {
		c.Together.APIKey = v
	}

	if v := os.Getenv(togetherModelEnv); v != "" {
		c.Together.AnalysisModel = v
	}

	if v := os.Getenv(smtpServerEnv); v != "" {
		c.SMTP.Server = v
	}

	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		} else {
			log.Printf("config: invalid %s=%q: %v", smtpPortEnv, v, err)
		}
	}

	if v := os.Getenv(smtpUserEnv); v != "" {
		c.SMTP.Username = v
	}

	if v := os.Getenv(smtpPassEnv); v != "" {
		c.SMTP.Password = v
	}

	if v := os.Getenv(emailFromEnv); v != "" {
		c.SMTP.From = v
		if c.SMTP.Username == "" {
			c.SMTP.Username = v
		}
	}

	if v := os.Getenv(emailToEnv); v != "" {
		c.SMTP.To = v
	}

	if v := os.Getenv(vendorsFileEnv); v != "" {
		c.Storage.VendorsFile = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Monitor.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Monitor.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Monitor.Timezone != "" {
		base.Monitor.Timezone = override.Monitor.Timezone
	}
	if override.Monitor.FetchTimeoutSeconds > 0 {
		base.Monitor.FetchTimeoutSeconds = override.Monitor.FetchTimeoutSeconds
	}

	if override.Together.Endpoint != "" {
		base.Together.Endpoint = override.Together.Endpoint
	}
	if override.Together.DedupeModel != "" {
		base.Together.DedupeModel = override.Together.DedupeModel
	}
	if override.Together.AnalysisModel != "" {
		base.Together.AnalysisModel = override.Together.AnalysisModel
	}
	if override.Together.APIKey != "" {
		base.Together.APIKey = override.Together.APIKey
	}

	if override.SMTP.Server != "" {
		base.SMTP.Server = override.SMTP.Server
	}
	if override.SMTP.Port > 0 {
		base.SMTP.Port = override.SMTP.Port
	}
	if override.SMTP.Server != "" || override.SMTP.Port > 0 {
		base.SMTP.UseTLS = override.SMTP.UseTLS
	}
	if override.SMTP.Username != "" {
		base.SMTP.Username = override.SMTP.Username
	}
	if override.SMTP.Password != "" {
		base.SMTP.Password = override.SMTP.Password
	}
	if override.SMTP.From != "" {
		base.SMTP.From = override.SMTP.From
	}
	if override.SMTP.To != "" {
		base.SMTP.To = override.SMTP.To
	}

	if override.Storage.VendorsFile != "" {
		base.Storage.VendorsFile = override.Storage.VendorsFile
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Monitor: MonitorConfig{Timezone: defaultTimezone, FetchTimeoutSeconds: 30, location: tz},
		Together: TogetherConfig{
			Endpoint:      "https://api.together.xyz/v1/chat/completions",
			DedupeModel:   "meta-llama/Llama-3.2-90B-Vision-Instruct-Turbo",
			AnalysisModel: "google/gemma-3n-E4B-it",
			APIKey:        "",
		},
		SMTP: SMTPConfig{
			Server: "smtp.gmail.com",
			Port:   587,
			UseTLS: true,
		},
		Storage: StorageConfig{VendorsFile: "vendors.json"},
		Sites: []SiteConfig{
			{Name: "TheHackerNews", Scanner: "hackernews", URL: "https://thehackernews.com/"},
			{Name: "BleepingComputer", Scanner: "bleepingcomputer", URL: "https://www.bleepingcomputer.com/"},
			{Name: "SecurityWeek", Scanner: "securityweek", URL: "https://www.securityweek.com/"},
		},
	}
}
