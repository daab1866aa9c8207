// Package config loads the YAML configuration with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/newsfilter"
	"SignalSentinel/internal/risk"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/signalstore"
	"SignalSentinel/internal/strategy"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Symbols  []string `yaml:"symbols" validate:"required,min=1,dive,required"`
	Interval string   `yaml:"interval" validate:"oneof=1min 5min 15min 30min 1h 4h 1day"`
	Lookback int      `yaml:"lookback" validate:"gte=0,lte=5000"`

	Schedule struct {
		Cron         string        `yaml:"cron"`
		RunOnStart   bool          `yaml:"run_on_start"`
		Concurrency  int           `yaml:"concurrency" validate:"gte=1,lte=64"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" validate:"gt=0"`
	} `yaml:"schedule"`
	Strategy struct {
		Profile string `yaml:"profile" validate:"required"`
		// Overrides is decoded over the built-in profile, so only the
		// keys present replace built-in values.
		Overrides yaml.Node     `yaml:"overrides" validate:"-"`
		Cooldown  time.Duration `yaml:"cooldown" validate:"gte=0"`
	} `yaml:"strategy"`
	Instruments []risk.Instrument `yaml:"instruments" validate:"-"`
	News        struct {
		Enabled  *bool              `yaml:"enabled"`
		Events   []newsfilter.Event `yaml:"events" validate:"-"`
		Window   time.Duration      `yaml:"window" validate:"gte=0"`
		Calendar string             `yaml:"calendar"`
	} `yaml:"news"`
	DataSource struct {
		Provider string `yaml:"provider" validate:"oneof=twelvedata binance yahoo mock"`
		BaseURL  string `yaml:"base_url" validate:"omitempty,url"`
		APIKey   string `yaml:"api_key" validate:"required_if=Provider twelvedata"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
		Polling  bool   `yaml:"polling"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr" validate:"omitempty,hostname_port"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" validate:"gte=0,lte=15"`
		Channel  string        `yaml:"channel"`
		TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	} `yaml:"redis"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: read config: %w", model.ErrConfiguration, err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse config: %w", model.ErrConfiguration, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TWELVEDATA_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Symbols = c.Symbols[:0]
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Symbols = append(c.Symbols, strings.ToUpper(s))
			}
		}
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_ON_START: %w", err)
		}
		c.Schedule.RunOnStart = b
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Symbols) == 0 {
		c.Symbols = []string{"EUR/USD", "GBP/USD", "USD/JPY", "XAU/USD"}
	}
	if c.Interval == "" {
		c.Interval = "15min"
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = scheduler.DefaultCron
	}
	if c.Schedule.Concurrency == 0 {
		c.Schedule.Concurrency = scheduler.DefaultConcurrency
	}
	if c.Schedule.FetchTimeout == 0 {
		c.Schedule.FetchTimeout = scheduler.DefaultFetchTimeout
	}
	if c.Strategy.Profile == "" {
		c.Strategy.Profile = strategy.ProfileIntraday
	}
	if c.Strategy.Cooldown == 0 {
		c.Strategy.Cooldown = signalstore.DefaultCooldown
	}
	if c.News.Enabled == nil {
		on := true
		c.News.Enabled = &on
	}
	if len(c.News.Events) == 0 {
		c.News.Events = newsfilter.DefaultEvents()
	}
	if c.News.Window == 0 {
		c.News.Window = newsfilter.DefaultWindow
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "twelvedata"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/signal_sentinel.db"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks struct constraints, then resolves everything derived from
// the config so startup fails before any I/O.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %s", model.ErrConfiguration, describe(err))
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("%w: schedule.cron %q: %w", model.ErrConfiguration, c.Schedule.Cron, err)
	}
	profile, err := c.ResolveProfile()
	if err != nil {
		return err
	}
	// The collector raises the lookback to the profile minimum before fetching.
	if limit := collector.MaxLookback(c.DataSource.Provider); limit > 0 {
		if n := max(c.Lookback, profile.MinCandles); n > limit {
			return fmt.Errorf("%w: lookback %d exceeds the %s limit of %d candles",
				model.ErrConfiguration, n, c.DataSource.Provider, limit)
		}
	}
	if _, err := c.InstrumentOverrides(); err != nil {
		return err
	}
	if _, err := c.NewsFilter(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		if seen[s] {
			return fmt.Errorf("%w: symbol %s listed twice", model.ErrConfiguration, s)
		}
		seen[s] = true
	}
	return nil
}

// ResolveProfile returns the configured built-in profile with overrides
// applied and validated.
func (c *Config) ResolveProfile() (*strategy.Profile, error) {
	p, err := strategy.Builtin(c.Strategy.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	if !c.Strategy.Overrides.IsZero() {
		if err := c.Strategy.Overrides.Decode(&p); err != nil {
			return nil, fmt.Errorf("%w: strategy.overrides: %w", model.ErrConfiguration, err)
		}
		p.Name = c.Strategy.Profile
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	return &p, nil
}

// InstrumentOverrides returns the instrument table keyed by symbol.
func (c *Config) InstrumentOverrides() (map[string]risk.Instrument, error) {
	out := make(map[string]risk.Instrument, len(c.Instruments))
	for i, inst := range c.Instruments {
		if inst.Symbol == "" {
			return nil, fmt.Errorf("%w: instruments[%d].symbol is required", model.ErrConfiguration, i)
		}
		if inst.Class != "" {
			if _, ok := risk.ClassDefaults(inst.Class); !ok {
				return nil, fmt.Errorf("%w: instruments[%d]: unknown class %q", model.ErrConfiguration, i, inst.Class)
			}
		}
		if inst.PipSize < 0 || inst.Precision < 0 {
			return nil, fmt.Errorf("%w: instruments[%d]: pip_size and precision must not be negative", model.ErrConfiguration, i)
		}
		out[inst.Symbol] = inst
	}
	return out, nil
}

// NewsFilter builds the blackout filter, or nil when disabled.
func (c *Config) NewsFilter() (*newsfilter.Filter, error) {
	if c.News.Enabled != nil && !*c.News.Enabled {
		return nil, nil
	}
	f, err := newsfilter.New(c.News.Events, c.News.Window, c.News.Calendar)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	return f, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
