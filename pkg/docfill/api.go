package docfill

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
)

// Engine opens templates and holds the settings shared by them.
// Use New() to create a new engine instance.
type Engine struct {
	config *Config
	cache  *DocumentCache
	logger *Logger
	clock  func() time.Time
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
// A nil config selects DefaultConfig.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		if config == nil {
			config = DefaultConfig()
		}
		c := *config
		e.config = &c
	}
}

// WithCache returns an option that sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		c := *e.config
		c.CacheMaxSize = maxSize
		e.config = &c
	}
}

// WithLogger returns an option that sets the logger used by the engine and its documents.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock returns an option that sets the time source of the global placeholders.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates a new engine from the global configuration and the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		config: GetGlobalConfig(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = GetLogger()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	e.cache = NewDocumentCacheWithConfig(CacheConfig{
		MaxSize: e.config.CacheMaxSize,
		TTL:     e.config.CacheTTL,
	})
	return e
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *Config {
	c := *e.config
	return &c
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *Logger {
	return e.logger
}

// Open reads a template from r.
func (e *Engine) Open(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewDocumentError("read", "", err)
	}
	return newDocument(e, "", data)
}

// OpenBytes opens a template from its bytes. data is copied.
func (e *Engine) OpenBytes(data []byte) (*Document, error) {
	return newDocument(e, "", bytes.Clone(data))
}

// OpenFile opens a template from a file path.
// The template is cached if caching is enabled in the configuration.
func (e *Engine) OpenFile(path string) (*Document, error) {
	if doc, ok := e.cache.Get(path); ok {
		e.logger.Debug("Template cache hit for %s", path)
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	doc, err := newDocument(e, path, data)
	if err != nil {
		return nil, err
	}

	e.cache.Set(path, doc)
	return doc, nil
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// DefaultEngine is the global default engine instance.
var DefaultEngine = New()

// Open reads a template from r using the default engine.
func Open(r io.Reader) (*Document, error) {
	return DefaultEngine.Open(r)
}

// OpenFile opens a template from a file path using the default engine.
func OpenFile(path string) (*Document, error) {
	return DefaultEngine.OpenFile(path)
}

// ReplaceString fills the placeholders of text using the default engine.
func ReplaceString(text string, values DataValueMap, instructions ...Instruction) (string, error) {
	return DefaultEngine.ReplaceString(text, values, instructions...)
}

// ClearCache clears the template cache of the default engine.
func ClearCache() {
	DefaultEngine.ClearCache()
}
