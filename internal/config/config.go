package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AppName        = "O'secours Backend"
	AppAuthor      = "MEDEV GROUP"
	AppDescription = "API backend du système d'alerte et de coordination des secours O'secours."

	defaultPort        = "3000"
	defaultSMSSender   = "REXTO"
	defaultCountryCode = "225" // Côte d'Ivoire
)

// Config is resolved once at startup and injected into constructors.
// Nothing reads environment variables after Load returns.
type Config struct {
	Env         string
	Port        string
	DatabaseURL string

	// JWTSecret is bound to the deployment environment: development,
	// test and production each use a distinct variable. A missing secret
	// is a startup error, never a runtime fallback.
	JWTSecret string

	SMS SMSConfig
	OTP OTPConfig
}

type SMSConfig struct {
	BaseURL     string
	APIKey      string
	Sender      string
	CountryCode string
}

type OTPConfig struct {
	Length    int
	ExpiresIn time.Duration
	// MaxAttempts limits failed verifications per code. 0 disables the
	// check, which matches the historical behavior of the service.
	MaxAttempts int
}

func Load() (*Config, error) {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		env = "development"
	}

	secret, err := jwtSecretFor(env)
	if err != nil {
		return nil, err
	}

	maxAttempts := 0
	if raw := strings.TrimSpace(os.Getenv("OTP_MAX_ATTEMPTS")); raw != "" {
		maxAttempts, err = strconv.Atoi(raw)
		if err != nil || maxAttempts < 0 {
			return nil, fmt.Errorf("OTP_MAX_ATTEMPTS must be a non-negative integer, got %q", raw)
		}
	}

	cfg := &Config{
		Env:         env,
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   secret,
		SMS: SMSConfig{
			BaseURL:     strings.TrimSpace(os.Getenv("LETEXTO_API_URL")),
			APIKey:      strings.TrimSpace(os.Getenv("LETEXTO_API_KEY")),
			Sender:      getEnv("SMS_SENDER", defaultSMSSender),
			CountryCode: getEnv("SMS_COUNTRY_CODE", defaultCountryCode),
		},
		OTP: OTPConfig{
			Length:      4,
			ExpiresIn:   5 * time.Minute,
			MaxAttempts: maxAttempts,
		},
	}

	return cfg, nil
}

func jwtSecretFor(env string) (string, error) {
	var key string
	switch env {
	case "production":
		key = "JWT_SECRET_PROD"
	case "test":
		key = "JWT_SECRET_TEST"
	default:
		key = "JWT_SECRET_DEV"
	}

	secret := strings.TrimSpace(os.Getenv(key))
	if secret == "" {
		return "", fmt.Errorf("%s must be set for APP_ENV=%s", key, env)
	}
	return secret, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
