package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultEndpoint       = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultRetryPeriod    = 600 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogFile        = "program.log"
	DefaultLogLevel       = "debug"
)

type Config struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID int64

	Endpoint       string
	RetryPeriod    time.Duration
	RequestTimeout time.Duration

	LogFile  string
	LogLevel string

	VerdictsFile string
	HealthAddr   string
}

// MissingError lists required variables that were not set.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return "missing required env: " + strings.Join(e.Names, ", ")
}

// required is checked in order; each entry reports its own variable name.
var required = []struct {
	name string
	set  func(*Config) bool
}{
	{"PRACTICUM_TOKEN", func(c *Config) bool { return c.PracticumToken != "" }},
	{"TELEGRAM_TOKEN", func(c *Config) bool { return c.TelegramToken != "" }},
	{"TELEGRAM_CHAT_ID", func(c *Config) bool { return c.TelegramChatID != 0 }},
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads configuration from the environment. Missing required values
// are not reported here, call Validate for that.
func Load() (*Config, error) {
	cfg := &Config{
		PracticumToken: strings.TrimSpace(os.Getenv("PRACTICUM_TOKEN")),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),

		Endpoint: getEnv("PRACTICUM_ENDPOINT", DefaultEndpoint),
		LogLevel: getEnv("LOG_LEVEL", DefaultLogLevel),

		VerdictsFile: getEnv("VERDICTS_FILE", ""),
		HealthAddr:   getEnv("HEALTH_ADDR", ""),
	}

	// LOG_FILE="" explicitly disables the file sink.
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.LogFile = strings.TrimSpace(v)
	} else {
		cfg.LogFile = DefaultLogFile
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %q is not an integer", v)
		}
		cfg.TelegramChatID = id
	}

	var err error
	if cfg.RetryPeriod, err = durationEnv("RETRY_PERIOD", DefaultRetryPeriod); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every required value that is absent.
func (c *Config) Validate() error {
	var missing []string
	for _, r := range required {
		if !r.set(c) {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Names: missing}
	}
	return nil
}

// durationEnv accepts either a Go duration ("10m") or plain seconds ("600").
func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("%s: must be positive, got %d", k, n)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", k, d)
	}
	return d, nil
}
