package docfill

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.CacheMaxSize != 100 || config.CacheTTL != 0 || config.LogLevel != "info" {
		t.Errorf("unexpected cache or log defaults: %+v", config)
	}
	if config.Locale != "en" || config.Delimiters != DefaultDelimiters || config.Strategy != ReplaceAll {
		t.Errorf("unexpected resolution defaults: %+v", config)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestWithNilConfig(t *testing.T) {
	e := New(WithConfig(nil))
	if got := e.Config(); *got != *DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", got)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("DOCFILL_CACHE_MAX_SIZE", "7")
	t.Setenv("DOCFILL_CACHE_TTL", "90s")
	t.Setenv("DOCFILL_LOG_LEVEL", "DEBUG")
	t.Setenv("DOCFILL_LOCALE", "de-DE")
	t.Setenv("DOCFILL_DELIM_START", "{{")
	t.Setenv("DOCFILL_DELIM_END", "}}")
	t.Setenv("DOCFILL_STRATEGY", "remove")

	config := ConfigFromEnvironment()
	if config.CacheMaxSize != 7 {
		t.Errorf("CacheMaxSize = %d", config.CacheMaxSize)
	}
	if config.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v", config.CacheTTL)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", config.LogLevel)
	}
	if config.localeTag() != language.German {
		t.Errorf("localeTag() = %v", config.localeTag())
	}
	if config.Delimiters != (Delimiters{Start: "{{", End: "}}"}) {
		t.Errorf("Delimiters = %+v", config.Delimiters)
	}
	if config.Strategy != RemoveMissing {
		t.Errorf("Strategy = %v", config.Strategy)
	}
}

func TestConfigFromEnvironmentIgnoresInvalidValues(t *testing.T) {
	t.Setenv("DOCFILL_CACHE_MAX_SIZE", "many")
	t.Setenv("DOCFILL_CACHE_TTL", "soon")
	t.Setenv("DOCFILL_STRATEGY", "sometimes")

	config := ConfigFromEnvironment()
	defaults := DefaultConfig()
	if config.CacheMaxSize != defaults.CacheMaxSize || config.CacheTTL != defaults.CacheTTL || config.Strategy != defaults.Strategy {
		t.Errorf("invalid values were not ignored: %+v", config)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative cache size", func(c *Config) { c.CacheMaxSize = -1 }},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"malformed locale", func(c *Config) { c.Locale = "not a locale" }},
		{"empty delimiter", func(c *Config) { c.Delimiters.End = "" }},
		{"unknown strategy", func(c *Config) { c.Strategy = ReplaceStrategy(9) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			if err := config.Validate(); err == nil {
				t.Error("Validate() accepted an invalid config")
			}
		})
	}
}

func TestGlobalConfigIsCopied(t *testing.T) {
	original := GetGlobalConfig()
	t.Cleanup(func() { SetGlobalConfig(original) })

	config := DefaultConfig()
	config.LogLevel = "error"
	SetGlobalConfig(config)

	got := GetGlobalConfig()
	got.LogLevel = "debug"
	if GetGlobalConfig().LogLevel != "error" {
		t.Error("modifying the returned config changed the global config")
	}
	if GetLogger().Level() != LogError {
		t.Errorf("global logger level = %v, want ERROR", GetLogger().Level())
	}
}

func TestParseReplaceStrategy(t *testing.T) {
	for _, s := range []ReplaceStrategy{ReplaceAll, IgnoreMissing, RemoveMissing} {
		got, err := ParseReplaceStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseReplaceStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseReplaceStrategy("maybe"); err == nil {
		t.Error("ParseReplaceStrategy() accepted an unknown name")
	}
}
