package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret   string   `mapstructure:"JWT_SECRET"`
	TokenTTLMin int      `mapstructure:"TOKEN_TTL_MINUTES"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// ReminderCron is the cron expression for the periodic reminder scan.
	// Empty disables in-process scheduling; the /send_reminders route
	// remains available for an external scheduler.
	ReminderCron       string `mapstructure:"REMINDER_CRON"`
	ReminderLookaheadH int    `mapstructure:"REMINDER_LOOKAHEAD_HOURS"`

	// Timezone is the IANA zone appointment date/time strings are
	// interpreted in. Defaults to the process-local zone.
	Timezone string `mapstructure:"TIMEZONE"`

	// SeedDemoDoctor creates a demo doctor account on startup when the
	// doctors table is empty. Development convenience only.
	SeedDemoDoctor bool `mapstructure:"SEED_DEMO_DOCTOR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_MINUTES", 60)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REMINDER_CRON", "")
	v.SetDefault("REMINDER_LOOKAHEAD_HOURS", 24)
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("SEED_DEMO_DOCTOR", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_TTL_MINUTES")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("REMINDER_CRON")
	v.BindEnv("REMINDER_LOOKAHEAD_HOURS")
	v.BindEnv("TIMEZONE")
	v.BindEnv("SEED_DEMO_DOCTOR")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: JWT_SECRET is unset; using the development fallback secret.")
		log.Println("WARNING: Every token signed with it is forgeable. Set JWT_SECRET")
		log.Println("WARNING: before exposing this server to anything but localhost.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a real JWT_SECRET must be provided; the reminder lookahead and token TTL
// must be positive.
func (c *Config) Validate() error {
	if !c.IsDev() && (c.JWTSecret == "" || c.JWTSecret == "dev-secret") {
		return fmt.Errorf("JWT_SECRET must be set when ENV=%q; refusing to start with a forgeable signing key", c.Env)
	}
	if c.TokenTTLMin <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", c.TokenTTLMin)
	}
	if c.ReminderLookaheadH <= 0 {
		return fmt.Errorf("REMINDER_LOOKAHEAD_HOURS must be positive, got %d", c.ReminderLookaheadH)
	}
	return nil
}
