package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// The environment is the only configuration surface: every knob is an env
// var, optionally provided through a .env file picked up at startup.

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultAdminID is the placeholder used when ADMIN_IDS is unset.
const DefaultAdminID int64 = 123456789

type BotConfig struct {
	Token       string
	AdminIDs    []int64
	Lang        string
	PollTimeout int // long-poll timeout, seconds
	Workers     int
}

type DatabaseConfig struct {
	URL      string
	MaxConns int32
}

type AIConfig struct {
	GeminiAPIKey    string
	OpenAIAPIKey    string
	Model           string
	MaxOutputTokens int
	Concurrency     int
}

type ModerationConfig struct {
	BanDuration  time.Duration
	WordlistFile string
}

type WebConfig struct {
	Addr          string
	AdminAPIToken string
	JWTSecret     string
	SessionTTL    time.Duration
}

type LogConfig struct {
	Level    string
	Format   string
	Sampling bool
}

type Config struct {
	Env        string
	Bot        BotConfig
	Database   DatabaseConfig
	AI         AIConfig
	Moderation ModerationConfig
	Web        WebConfig
	Log        LogConfig

	warnings []string
}

func (c *Config) Dev() bool { return c.Env == EnvDevelopment }

// Warnings lists non-fatal findings from Load (placeholder admin id,
// generated JWT secret). The caller logs them once the logger exists.
func (c *Config) Warnings() []string { return c.warnings }

func (c *Config) AdminIDSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(c.Bot.AdminIDs))
	for _, id := range c.Bot.AdminIDs {
		set[id] = struct{}{}
	}
	return set
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present; real environment variables win because
// godotenv never overrides existing keys.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var problems []string

	cfg := &Config{
		Env: getEnv("APP_ENV", EnvProduction),
		Bot: BotConfig{
			Token:       os.Getenv("TELEGRAM_TOKEN"),
			Lang:        getEnv("BOT_LANG", "tr"),
			PollTimeout: getEnvInt("POLL_TIMEOUT_SECONDS", 30, &problems),
			Workers:     getEnvInt("WORKER_COUNT", 4, &problems),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 8, &problems)),
		},
		AI: AIConfig{
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:           getEnv("AI_MODEL", "gemini-1.5-flash"),
			MaxOutputTokens: getEnvInt("AI_MAX_OUTPUT_TOKENS", 1024, &problems),
			Concurrency:     getEnvInt("AI_CONCURRENCY", 2, &problems),
		},
		Moderation: ModerationConfig{
			BanDuration:  getEnvDuration("BAN_DURATION", 4*time.Hour, &problems),
			WordlistFile: os.Getenv("BANNED_WORDS_FILE"),
		},
		Web: WebConfig{
			Addr:          getEnv("OPS_ADDR", ":8080"),
			AdminAPIToken: os.Getenv("ADMIN_API_TOKEN"),
			JWTSecret:     os.Getenv("JWT_SECRET"),
			SessionTTL:    getEnvDuration("SESSION_TTL", 30*time.Minute, &problems),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Format:   getEnv("LOG_FORMAT", "json"),
			Sampling: getEnvBool("LOG_SAMPLING", false, &problems),
		},
	}

	cfg.Bot.AdminIDs = parseAdminIDs(os.Getenv("ADMIN_IDS"), &problems, &cfg.warnings)

	if cfg.Web.JWTSecret == "" {
		cfg.Web.JWTSecret = randomSecret()
		cfg.warnings = append(cfg.warnings,
			"JWT_SECRET is unset; generated a per-process secret, admin sessions will not survive restarts")
	}

	if err := cfg.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// Validate checks the contract of required keys so startup fails with one
// message naming everything that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.Bot.Token == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Bot.Workers <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	if c.Bot.PollTimeout <= 0 {
		return fmt.Errorf("POLL_TIMEOUT_SECONDS must be positive")
	}
	if c.Moderation.BanDuration <= 0 {
		return fmt.Errorf("BAN_DURATION must be positive")
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q", EnvDevelopment, EnvProduction)
	}
	return nil
}

func parseAdminIDs(raw string, problems *[]string, warnings *[]string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*warnings = append(*warnings,
			fmt.Sprintf("ADMIN_IDS is unset; falling back to placeholder id %d", DefaultAdminID))
		return []int64{DefaultAdminID}
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			*problems = append(*problems, fmt.Sprintf("ADMIN_IDS entry %q is not a number", p))
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 && len(*problems) == 0 {
		*warnings = append(*warnings,
			fmt.Sprintf("ADMIN_IDS had no usable entries; falling back to placeholder id %d", DefaultAdminID))
		return []int64{DefaultAdminID}
	}
	return ids
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int, problems *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s=%q is not an integer", key, v))
		return def
	}
	return n
}

func getEnvBool(key string, def bool, problems *[]string) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s=%q is not a boolean", key, v))
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration, problems *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s=%q is not a duration (try 4h, 90m)", key, v))
		return def
	}
	return d
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is a broken platform; fall back to something
		// unique enough for a single process.
		return fmt.Sprintf("ephemeral-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
