package gen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/schema"
)

// Config holds the compiler configuration. The exported yaml fields can be
// loaded from a file with LoadConfig; the rest is set through options.
type Config struct {
	// SchemaSDL is the backend schema text. When set and Validate is true,
	// every built request is validated against it.
	SchemaSDL string `yaml:"schema_sdl,omitempty"`
	// Validate enables validation against SchemaSDL.
	Validate bool `yaml:"validate,omitempty"`
	// CacheSize bounds the in-memory cache of compiled queries and
	// subscriptions. Zero disables caching unless Cache is set.
	CacheSize int `yaml:"cache_size,omitempty"`
	// Package is the package name of generated Go source.
	Package string `yaml:"package,omitempty"`
	// Header is the comment written at the top of generated Go source.
	Header string `yaml:"header,omitempty"`

	// Logger receives debug entries for every build. Defaults to a no-op logger.
	Logger *zap.Logger `yaml:"-"`
	// Cache stores compiled queries and subscriptions.
	Cache gqlreq.Cache `yaml:"-"`
	// Registry resolves model values into schemas. Defaults to schema.Default.
	Registry *schema.Registry `yaml:"-"`
}

// LoadConfig reads a YAML configuration. Unknown keys are an error.
func LoadConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	c := &Config{}
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("gqlreq: decoding config: %w", err)
	}
	if c.CacheSize < 0 {
		return nil, NewConfigError("CacheSize", c.CacheSize, "must not be negative")
	}
	return c, nil
}

// Option configures the compiler.
type Option func(*Config) error

// WithLogger sets the logger of the compiler.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithCache sets the cache of compiled queries and subscriptions.
func WithCache(cache gqlreq.Cache) Option {
	return func(c *Config) error {
		if cache == nil {
			return NewConfigError("Cache", nil, "cache cannot be nil")
		}
		c.Cache = cache
		return nil
	}
}

// WithCacheSize enables an in-memory cache holding at most n requests.
func WithCacheSize(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("CacheSize", n, "must not be negative")
		}
		c.CacheSize = n
		return nil
	}
}

// WithSchemaSDL sets the backend schema and enables validation against it.
func WithSchemaSDL(sdl string) Option {
	return func(c *Config) error {
		if sdl == "" {
			return NewConfigError("SchemaSDL", nil, "schema cannot be empty")
		}
		c.SchemaSDL = sdl
		c.Validate = true
		return nil
	}
}

// WithValidation turns validation against the backend schema on or off.
func WithValidation(enabled bool) Option {
	return func(c *Config) error {
		c.Validate = enabled
		return nil
	}
}

// WithRegistry sets the registry model values are resolved with.
func WithRegistry(r *schema.Registry) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Registry", nil, "registry cannot be nil")
		}
		c.Registry = r
		return nil
	}
}

// WithPackage sets the package name of generated Go source.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment of generated Go source.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// BuildOption configures a single build call.
type BuildOption func(*buildOptions)

type buildOptions struct {
	schema    *schema.Schema
	id        any
	hasID     bool
	limit     int
	nextToken string
}

// WithSchema builds against s instead of resolving the model through the
// registry. Required when the model is a map.
func WithSchema(s *schema.Schema) BuildOption {
	return func(o *buildOptions) {
		o.schema = s
	}
}

// WithID sets the identifier of a get query.
func WithID(id any) BuildOption {
	return func(o *buildOptions) {
		o.id = id
		o.hasID = true
	}
}

// WithLimit sets the page size of a list query. Zero leaves it unset.
func WithLimit(n int) BuildOption {
	return func(o *buildOptions) {
		o.limit = n
	}
}

// WithNextToken sets the pagination token of a list query.
func WithNextToken(token string) BuildOption {
	return func(o *buildOptions) {
		o.nextToken = token
	}
}

// key returns the canonical form of the options for cache keys. The id is
// keyed by its type and coerced JSON.
func (o *buildOptions) key() (string, error) {
	k := fmt.Sprintf("limit=%d,next=%q", o.limit, o.nextToken)
	if o.hasID {
		v, err := coerce(o.id)
		if err != nil {
			return "", err
		}
		j, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		k += fmt.Sprintf(",id=%T(%s)", o.id, j)
	}
	return k, nil
}
