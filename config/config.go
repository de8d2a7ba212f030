package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAIModels are tried in order until one answers
var DefaultAIModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-70b-versatile",
	"mixtral-8x7b-32768",
	"llama-3.1-8b-instant",
	"gemma2-9b-it",
}

// DefaultExchangeRateURLs are the public USD rate feeds, in priority order
var DefaultExchangeRateURLs = []string{
	"https://api.exchangerate-api.com/v4/latest/USD",
	"https://open.er-api.com/v6/latest/USD",
}

type Config struct {
	Env         string
	Port        string
	DatabaseDSN string
	Migrations  bool

	AIGatewayURL  string
	AIAPIKey      string
	AIModels      []string
	AITemperature float64
	AIMaxTokens   int
	AITimeout     time.Duration

	ExchangeRateURLs            []string
	ExchangeRateRefreshInterval time.Duration
	ExchangeRateDefault         float64

	RecoveryDir   string
	AutosaveDelay time.Duration

	CompanyName     string
	CompanyTagline  string
	CompanyEmail    string
	CompanyPhone    string
	CompanyLogoPath string

	ChromePath string
	PDFTimeout time.Duration

	DriveArchiveFolderID string
	GoogleCredentials    string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (loaded by main) > default.
func Load() Config {
	cfg := Config{}
	cfg.Env = getEnv("ENV", "development")
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = DatabaseDSN()
	cfg.Migrations = ParseBool("MIGRATIONS", false)

	cfg.AIGatewayURL = getEnv("AI_GATEWAY_URL", "https://api.groq.com/openai/v1/chat/completions")
	cfg.AIAPIKey = getEnv("AI_API_KEY", "")
	cfg.AIModels = ParseList("AI_MODELS", DefaultAIModels)
	cfg.AITemperature = ParseFloat("AI_TEMPERATURE", 0.7)
	cfg.AIMaxTokens = ParseInt("AI_MAX_TOKENS", 2048)
	cfg.AITimeout = ParseDuration("AI_TIMEOUT", 60*time.Second)

	cfg.ExchangeRateURLs = ParseList("EXCHANGE_RATE_URLS", DefaultExchangeRateURLs)
	cfg.ExchangeRateRefreshInterval = ParseDuration("EXCHANGE_RATE_REFRESH_INTERVAL", 5*time.Minute)
	cfg.ExchangeRateDefault = ParseFloat("EXCHANGE_RATE_DEFAULT", 60.50)
	if cfg.ExchangeRateDefault <= 0 {
		log.Printf("⚠️  EXCHANGE_RATE_DEFAULT must be positive, using 60.50")
		cfg.ExchangeRateDefault = 60.50
	}

	cfg.RecoveryDir = getEnv("RECOVERY_DIR", "data")
	cfg.AutosaveDelay = ParseDuration("AUTOSAVE_DELAY", time.Second)

	cfg.CompanyName = getEnv("COMPANY_NAME", "WebNovaLab")
	cfg.CompanyTagline = getEnv("COMPANY_TAGLINE", "Transformamos ideas en soluciones digitales exitosas")
	cfg.CompanyEmail = getEnv("COMPANY_EMAIL", "info.webnovalab@gmail.com")
	cfg.CompanyPhone = getEnv("COMPANY_PHONE", "+1 (809) 123-4567")
	cfg.CompanyLogoPath = getEnv("COMPANY_LOGO_PATH", "")

	cfg.ChromePath = getEnv("CHROME_PATH", "")
	cfg.PDFTimeout = ParseDuration("PDF_TIMEOUT", 45*time.Second)

	cfg.DriveArchiveFolderID = getEnv("DRIVE_ARCHIVE_FOLDER_ID", "")
	cfg.GoogleCredentials = getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")
	return cfg
}

// DatabaseDSN returns DATABASE_URL or builds a keyword DSN from DB_* variables.
// Empty when neither is configured.
func DatabaseDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, getEnv("DB_PORT", "5432"), user, os.Getenv("DB_PASSWORD"), dbname, getEnv("DB_SSLMODE", "disable"))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			if strings.EqualFold(v, "yes") {
				return true
			}
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}

// ParseInt reads an env var as int with default.
func ParseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

// ParseFloat reads an env var as float64 with default.
func ParseFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("invalid number for %s: %s", key, v)
			return def
		}
		return f
	}
	return def
}

// ParseDuration reads an env var such as "30s" or "5m" with default.
func ParseDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}

// ParseList reads a comma separated env var with default.
func ParseList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}
