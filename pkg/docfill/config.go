package docfill

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
)

// Config contains all configuration options for the docfill engine
type Config struct {
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// Locale selects the spelling of localized global placeholders, e.g. "en" or "de-DE"
	Locale string
	// Delimiters frame placeholders in the template
	Delimiters Delimiters
	// Strategy is the default handling of placeholders without a value
	Strategy ReplaceStrategy
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

// supportedLocales lists the locales the global placeholders are localized for
var supportedLocales = []language.Tag{language.English, language.German}

var localeMatcher = language.NewMatcher(supportedLocales)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize: 100,
		CacheTTL:     0,
		LogLevel:     "info",
		Locale:       "en",
		Delimiters:   DefaultDelimiters,
		Strategy:     ReplaceAll,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// DOCFILL_CACHE_MAX_SIZE
	if val := os.Getenv("DOCFILL_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// DOCFILL_CACHE_TTL
	if val := os.Getenv("DOCFILL_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// DOCFILL_LOG_LEVEL
	if val := os.Getenv("DOCFILL_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	// DOCFILL_LOCALE
	if val := os.Getenv("DOCFILL_LOCALE"); val != "" {
		config.Locale = val
	}

	// DOCFILL_DELIM_START / DOCFILL_DELIM_END
	if val := os.Getenv("DOCFILL_DELIM_START"); val != "" {
		config.Delimiters.Start = val
	}
	if val := os.Getenv("DOCFILL_DELIM_END"); val != "" {
		config.Delimiters.End = val
	}

	// DOCFILL_STRATEGY
	if val := os.Getenv("DOCFILL_STRATEGY"); val != "" {
		if strategy, err := ParseReplaceStrategy(val); err == nil {
			config.Strategy = strategy
		}
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}

	if err := c.Delimiters.validate(); err != nil {
		return err
	}

	if c.Strategy < ReplaceAll || c.Strategy > RemoveMissing {
		return fmt.Errorf("invalid strategy: %d", c.Strategy)
	}

	return nil
}

// localeTag returns the supported locale closest to c.Locale
func (c *Config) localeTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	_, idx, _ := localeMatcher.Match(tag)
	return supportedLocales[idx]
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})

	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	configOnce.Do(func() {})

	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}
