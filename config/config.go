// Package config holds the oracle's external configuration: target
// URL, HTTP method, bucket size, timeout, headers, query params, TLS
// verification, HTTP/2, proxy, and whether to resume from a seed
// schema (spec.md §6). None of this is part of "the core" — it's the
// environment/CLI collaborator the core consumes.
package config

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is validated with go-playground/validator/v10, the same
// library the teacher repo already depends on for its schema-builder
// struct tags (schemabuilder/validator.go).
type Config struct {
	URL        string            `validate:"required,url"`
	Command    string            `validate:"required,oneof=GET POST"`
	BucketSize int               `validate:"min=1"`
	Timeout    time.Duration     `validate:"min=1"`
	Headers    map[string]string `validate:"-"`
	Params     map[string]string `validate:"-"`
	Verify     bool
	HTTP2      bool
	Proxy      string `validate:"omitempty,url"`
	Document   string
}

// Option customizes a Config built by New, following the teacher's
// functional-option idiom (options.go's `Option func(*options)`).
type Option func(*Config)

// WithTimeout overrides the per-request timeout (default 5s).
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithBucketSize overrides the wordlist bucket size (default 4096).
func WithBucketSize(n int) Option {
	return func(c *Config) { c.BucketSize = n }
}

// WithCommand overrides the HTTP method ("GET" or "POST").
func WithCommand(method string) Option {
	return func(c *Config) { c.Command = method }
}

// WithProxy routes requests through a proxy URL.
func WithProxy(proxyURL string) Option {
	return func(c *Config) { c.Proxy = proxyURL }
}

// WithHeader adds one custom header, replacing any prior value for key.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[key] = value
	}
}

// WithParam adds one custom query parameter.
func WithParam(key, value string) Option {
	return func(c *Config) {
		if c.Params == nil {
			c.Params = make(map[string]string)
		}
		c.Params[key] = value
	}
}

// WithVerify toggles TLS certificate verification.
func WithVerify(v bool) Option {
	return func(c *Config) { c.Verify = v }
}

// WithHTTP2 toggles HTTP/2 support.
func WithHTTP2(v bool) Option {
	return func(c *Config) { c.HTTP2 = v }
}

// WithDocument overrides the starting context document (default
// "query { FUZZ }").
func WithDocument(doc string) Option {
	return func(c *Config) { c.Document = doc }
}

// New builds a Config for targetURL with the original tool's defaults
// (POST, bucket size 4096, 5s timeout, TLS verification on, HTTP/2 off,
// document "query { FUZZ }"), applying opts in order.
func New(targetURL string, opts ...Option) *Config {
	c := &Config{
		URL:        targetURL,
		Command:    "POST",
		BucketSize: 4096,
		Timeout:    5 * time.Second,
		Verify:     true,
		Document:   "query { FUZZ }",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate reports whether c satisfies the struct-tag constraints
// above, returning a validator.ValidationErrors on failure.
func (c *Config) Validate() error {
	return getValidator().Struct(c)
}
