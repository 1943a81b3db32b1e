package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	ServerPort  string
	GinMode     string
	CORSOrigins []string
	AutoMigrate bool

	JWTSecret string
	JWTExpiry time.Duration

	AITimeout        time.Duration
	OpenAIBaseURL    string
	AnthropicBaseURL string
	GeminiBaseURL    string
}

var defaults = map[string]any{
	"DB_HOST":            "localhost",
	"DB_PORT":            "5432",
	"DB_USER":            "vibepm",
	"DB_PASSWORD":        "vibepm",
	"DB_NAME":            "vibepm",
	"DB_SSLMODE":         "disable",
	"DATABASE_URL":       "",
	"SERVER_PORT":        "8080",
	"GIN_MODE":           "debug",
	"CORS_ORIGINS":       "*",
	"AUTO_MIGRATE":       true,
	"JWT_SECRET":         "",
	"JWT_EXPIRY_HOURS":   720,
	"AI_TIMEOUT":         "60s",
	"OPENAI_BASE_URL":    "https://api.openai.com",
	"ANTHROPIC_BASE_URL": "https://api.anthropic.com",
	"GEMINI_BASE_URL":    "https://generativelanguage.googleapis.com",
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return &Config{
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		DatabaseURL: v.GetString("DATABASE_URL"),

		ServerPort:  v.GetString("SERVER_PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTExpiry: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,

		AITimeout:        v.GetDuration("AI_TIMEOUT"),
		OpenAIBaseURL:    v.GetString("OPENAI_BASE_URL"),
		AnthropicBaseURL: v.GetString("ANTHROPIC_BASE_URL"),
		GeminiBaseURL:    v.GetString("GEMINI_BASE_URL"),
	}
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// MigrationURL returns the database address in URL form, as golang-migrate expects it.
func (c *Config) MigrationURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// AuthEnabled reports whether API routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.DatabaseURL == "" {
		if c.DBHost == "" {
			result = multierror.Append(result, errors.New("DB_HOST is required when DATABASE_URL is not set"))
		}
		if c.DBName == "" {
			result = multierror.Append(result, errors.New("DB_NAME is required when DATABASE_URL is not set"))
		}
		if _, err := strconv.Atoi(c.DBPort); err != nil {
			result = multierror.Append(result, fmt.Errorf("DB_PORT must be numeric, got %q", c.DBPort))
		}
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		result = multierror.Append(result, fmt.Errorf("SERVER_PORT must be numeric, got %q", c.ServerPort))
	}
	if c.AITimeout <= 0 {
		result = multierror.Append(result, errors.New("AI_TIMEOUT must be positive"))
	}
	if c.AuthEnabled() && c.JWTExpiry <= 0 {
		result = multierror.Append(result, errors.New("JWT_EXPIRY_HOURS must be positive when JWT_SECRET is set"))
	}

	return result.ErrorOrNil()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
