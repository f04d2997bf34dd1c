package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"EscapeThePaycheck/internal/content"
	"EscapeThePaycheck/internal/engine"
	"EscapeThePaycheck/internal/events"
)

const defaultStepDelay = 240 * time.Millisecond

// MemoryDatabase selects the in-process store instead of SQLite.
const MemoryDatabase = "memory"

// Config holds all application configuration. Environment variables override
// values read from the YAML file.
type Config struct {
	Server struct {
		Addr      string        `yaml:"addr" env:"SERVER_ADDR"`
		StepDelay time.Duration `yaml:"step_delay" env:"WS_STEP_DELAY"`
		IdleTTL   time.Duration `yaml:"idle_ttl" env:"SESSION_IDLE_TTL"`
	} `yaml:"server"`
	Game struct {
		GoalMultiplier decimal.Decimal `yaml:"goal_multiplier" env:"GOAL_MULTIPLIER"`
		DownsizeTurns  int             `yaml:"downsize_turns" env:"DOWNSIZE_TURNS"`
		MaxEventLog    int             `yaml:"max_event_log" env:"MAX_EVENT_LOG"`
		BoostRate      decimal.Decimal `yaml:"boost_rate" env:"BOOST_RATE"`
		BoostFallback  decimal.Decimal `yaml:"boost_fallback" env:"BOOST_FALLBACK"`
		BoardSize      int             `yaml:"board_size" env:"BOARD_SIZE"`
		SmallDealMin   decimal.Decimal `yaml:"small_deal_min"`
		SmallDealMax   decimal.Decimal `yaml:"small_deal_max"`
		BigDealMin     decimal.Decimal `yaml:"big_deal_min"`
		BigDealMax     decimal.Decimal `yaml:"big_deal_max"`
		ContentPack    string          `yaml:"content_pack" env:"CONTENT_PACK"`
	} `yaml:"game"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"database"`
	Remote struct {
		BaseURL    string `yaml:"base_url" env:"REMOTE_BASE_URL"`
		AuthToken  string `yaml:"auth_token" env:"REMOTE_AUTH_TOKEN"`
		MaxRetries int    `yaml:"max_retries" env:"REMOTE_MAX_RETRIES"`
	} `yaml:"remote"`
	Feed struct {
		BaseURL    string `yaml:"base_url" env:"FEED_BASE_URL"`
		MaxRetries int    `yaml:"max_retries" env:"FEED_MAX_RETRIES"`
	} `yaml:"feed"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret" env:"JWT_SECRET"`
		Issuer        string `yaml:"issuer" env:"JWT_ISSUER"`
		TrustedHeader string `yaml:"trusted_header" env:"AUTH_TRUSTED_HEADER"`
	} `yaml:"auth"`
	Schedule struct {
		SweepCron   string `yaml:"sweep_cron" env:"CRON_SWEEP"`
		ArchiveCron string `yaml:"archive_cron" env:"CRON_ARCHIVE"`
		DigestCron  string `yaml:"digest_cron" env:"CRON_DIGEST"`
	} `yaml:"schedule"`
	Archive struct {
		Dir string `yaml:"dir" env:"ARCHIVE_DIR"`
	} `yaml:"archive"`
	Proxy string `yaml:"proxy" env:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Zero is valid for these, so their defaults are set before parsing.
	def := engine.DefaultRules().Events
	cfg.Server.StepDelay = defaultStepDelay
	cfg.Game.DownsizeTurns = def.DownsizeTurns
	cfg.Game.BoostRate = def.BoostRate
	cfg.Game.BoostFallback = def.BoostFallback

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.IdleTTL == 0 {
		c.Server.IdleTTL = 2 * time.Hour
	}

	rules := engine.DefaultRules()
	ranges := content.DefaultRanges()
	defaultDecimal(&c.Game.GoalMultiplier, rules.GoalMultiplier)
	defaultDecimal(&c.Game.SmallDealMin, ranges.SmallDeal.Min)
	defaultDecimal(&c.Game.SmallDealMax, ranges.SmallDeal.Max)
	defaultDecimal(&c.Game.BigDealMin, ranges.BigDeal.Min)
	defaultDecimal(&c.Game.BigDealMax, ranges.BigDeal.Max)
	if c.Game.MaxEventLog == 0 {
		c.Game.MaxEventLog = rules.MaxEventLog
	}
	if c.Game.BoardSize == 0 {
		c.Game.BoardSize = 16
	}

	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/escape_the_paycheck.db"
	}
	if c.Remote.MaxRetries == 0 {
		c.Remote.MaxRetries = 2
	}
	if c.Feed.MaxRetries == 0 {
		c.Feed.MaxRetries = 3
	}
	if c.Auth.TrustedHeader == "" {
		c.Auth.TrustedHeader = "X-Username"
	}
	if c.Schedule.SweepCron == "" {
		c.Schedule.SweepCron = "0 */5 * * * *"
	}
	if c.Schedule.ArchiveCron == "" {
		c.Schedule.ArchiveCron = "0 0 * * * *"
	}
	if c.Archive.Dir == "" {
		c.Archive.Dir = "data/archive"
	}
}

func defaultDecimal(d *decimal.Decimal, def decimal.Decimal) {
	if d.IsZero() {
		*d = def
	}
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if !c.Game.GoalMultiplier.IsPositive() {
		return fmt.Errorf("game.goal_multiplier must be positive")
	}
	if c.Game.DownsizeTurns < 0 {
		return fmt.Errorf("game.downsize_turns must not be negative")
	}
	if c.Game.MaxEventLog <= 0 {
		return fmt.Errorf("game.max_event_log must be positive")
	}
	if c.Game.BoostRate.IsNegative() || c.Game.BoostFallback.IsNegative() {
		return fmt.Errorf("game.boost_rate and game.boost_fallback must not be negative")
	}
	if c.Game.BoardSize <= 0 {
		return fmt.Errorf("game.board_size must be positive")
	}
	if c.Game.SmallDealMin.GreaterThan(c.Game.SmallDealMax) || c.Game.BigDealMin.GreaterThan(c.Game.BigDealMax) {
		return fmt.Errorf("game deal ranges must have min <= max")
	}
	if c.Server.StepDelay < 0 {
		return fmt.Errorf("server.step_delay must not be negative")
	}
	if c.Remote.AuthToken != "" && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required when remote.auth_token is set")
	}
	if c.Auth.Issuer != "" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth.issuer is set")
	}
	return nil
}

// Rules returns the engine tuning described by the config.
func (c *Config) Rules() engine.Rules {
	return engine.Rules{
		GoalMultiplier: c.Game.GoalMultiplier,
		MaxEventLog:    c.Game.MaxEventLog,
		Events: events.Rules{
			DownsizeTurns: c.Game.DownsizeTurns,
			BoostRate:     c.Game.BoostRate,
			BoostFallback: c.Game.BoostFallback,
		},
	}
}

// Ranges returns the deal cost ranges content packs are checked against.
func (c *Config) Ranges() content.Ranges {
	return content.Ranges{
		SmallDeal: content.CostRange{Min: c.Game.SmallDealMin, Max: c.Game.SmallDealMax},
		BigDeal:   content.CostRange{Min: c.Game.BigDealMin, Max: c.Game.BigDealMax},
	}
}
