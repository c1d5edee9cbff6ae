package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken    string `env:"BOT_TOKEN,required"`
	WebhookHost string `env:"WEBHOOK_HOST"`
	Port        string `env:"PORT" envDefault:"8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`

	TopicID        int     `env:"TOPIC_ID,required"`
	AllowedChatIDs []int64 `env:"ALLOWED_CHAT_IDS" envSeparator:","`
	DataDir        string  `env:"DATA_DIR" envDefault:"."`

	DefaultCooldownHours int `env:"DEFAULT_COOLDOWN_HOURS" envDefault:"24"`
	WarningTTLSeconds    int `env:"WARNING_TTL_SECONDS" envDefault:"10"`
	AdminCacheTTLSeconds int `env:"ADMIN_CACHE_TTL_SECONDS" envDefault:"300"`
	CleanupIntervalSecs  int `env:"CLEANUP_INTERVAL_SECONDS" envDefault:"3600"`
	SendRatePerSecond    int `env:"SEND_RATE_PER_SECOND" envDefault:"5"`

	EnableTelemetry bool `env:"ENABLE_TELEMETRY" envDefault:"true"`
}

func (c *Config) DefaultCooldown() time.Duration {
	return time.Duration(c.DefaultCooldownHours) * time.Hour
}

func (c *Config) WarningTTL() time.Duration {
	return time.Duration(c.WarningTTLSeconds) * time.Second
}

func (c *Config) AdminCacheTTL() time.Duration {
	return time.Duration(c.AdminCacheTTLSeconds) * time.Second
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSecs) * time.Second
}

// ChatAllowed reports whether the bot moderates the given chat. An
// empty allow-list means every group the bot is a member of.
func (c *Config) ChatAllowed(chatID int64) bool {
	if len(c.AllowedChatIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded. TopicID: %d, LogLevel: %s", cfg.TopicID, cfg.LogLevel)
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TopicID <= 0 {
		return fmt.Errorf("TOPIC_ID must be positive, got %d", c.TopicID)
	}
	if c.DefaultCooldownHours < 0 {
		return fmt.Errorf("DEFAULT_COOLDOWN_HOURS must be 0 or greater, got %d", c.DefaultCooldownHours)
	}
	if c.WarningTTLSeconds <= 0 {
		return fmt.Errorf("WARNING_TTL_SECONDS must be positive, got %d", c.WarningTTLSeconds)
	}
	if c.AdminCacheTTLSeconds <= 0 {
		return fmt.Errorf("ADMIN_CACHE_TTL_SECONDS must be positive, got %d", c.AdminCacheTTLSeconds)
	}
	if c.CleanupIntervalSecs <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL_SECONDS must be positive, got %d", c.CleanupIntervalSecs)
	}
	if c.SendRatePerSecond <= 0 {
		return fmt.Errorf("SEND_RATE_PER_SECOND must be positive, got %d", c.SendRatePerSecond)
	}
	return nil
}
