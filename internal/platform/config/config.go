package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultSourceURL is the Udyam registration page.
const DefaultSourceURL = "https://udyamregistration.gov.in/UdyamRegistration.aspx"

var (
	errInvalidPort      = errors.New("config: invalid PORT number")
	errInvalidSourceURL = errors.New("config: SOURCE_URL must be an absolute http(s) URL")
	errInvalidTimeout   = errors.New("config: FETCH_TIMEOUT must be between 1s and 5m")
)

// Flag names. Each is also read from the environment with dashes replaced
// by underscores and upper-cased, e.g. LOG_LEVEL.
const (
	keyPort         = "port"
	keyLogLevel     = "log-level"
	keySourceURL    = "source-url"
	keyFetchTimeout = "fetch-timeout"
	keyFieldsFile   = "fields-file"
	keyAllowPrivate = "allow-private-networks"
)

// Config holds configuration shared by the scraper binaries.
type Config struct {
	Port                 string
	LogLevel             string
	SourceURL            string
	FetchTimeout         time.Duration
	FieldsFile           string
	AllowPrivateNetworks bool
}

// RegisterFlags defines the shared flags on fs with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(keyPort, "8080", "HTTP listen port (api only)")
	fs.String(keyLogLevel, "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	fs.String(keySourceURL, DefaultSourceURL, "Registration page to scrape")
	fs.Duration(keyFetchTimeout, 30*time.Second, "Timeout for fetching the registration page")
	fs.String(keyFieldsFile, "", "YAML field table replacing the built-in one")
	fs.Bool(keyAllowPrivate, false, "Allow fetching from private network addresses")
}

// Load resolves configuration from the parsed flag set and the environment.
// Explicitly set flags win over environment variables, which win over flag
// defaults.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("config: bind flags: %w", err)
	}

	cfg := Config{
		Port:                 v.GetString(keyPort),
		LogLevel:             v.GetString(keyLogLevel),
		SourceURL:            v.GetString(keySourceURL),
		FetchTimeout:         v.GetDuration(keyFetchTimeout),
		FieldsFile:           v.GetString(keyFieldsFile),
		AllowPrivateNetworks: v.GetBool(keyAllowPrivate),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	u, err := url.Parse(c.SourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidSourceURL, c.SourceURL)
	}

	if c.FetchTimeout < time.Second || c.FetchTimeout > 5*time.Minute {
		return fmt.Errorf("%w: got %s", errInvalidTimeout, c.FetchTimeout)
	}

	return nil
}

// Addr returns the listen address for the API server.
func (c Config) Addr() string {
	return ":" + c.Port
}
