// Package extconf loads the extension-wide default configuration, the middle
// layer of allow-list resolution.
package extconf

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"formprefill/pkg/platform/sentinel"
	pstrings "formprefill/pkg/platform/strings"
)

// ErrUnavailable signals that the configuration store could not be read.
// Callers degrade; it is never surfaced to clients.
var ErrUnavailable = fmt.Errorf("extension configuration: %w", sentinel.ErrUnavailable)

// Config is the extension configuration document.
type Config struct {
	// AllowedFields is a comma separated list of profile field names.
	AllowedFields string `yaml:"allowedFields"`
}

// Fields returns the trimmed, de-duplicated allowed field names; nil when
// nothing usable is configured.
func (c Config) Fields() []string {
	return pstrings.SplitList(c.AllowedFields, ",")
}

// Provider reads the extension configuration.
type Provider interface {
	Load(ctx context.Context) (Config, error)
}

// Static always returns the same configuration.
type Static Config

func (s Static) Load(context.Context) (Config, error) {
	return Config(s), nil
}

// FileProvider reads a YAML document on every call so edits apply without a
// restart.
type FileProvider struct {
	path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Load(_ context.Context) (Config, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w: %w", p.path, ErrUnavailable, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w: %w", p.path, ErrUnavailable, err)
	}
	return cfg, nil
}

const defaultRedisKey = "formprefill:extconf"

// RedisProvider reads the configuration from a Redis hash.
type RedisProvider struct {
	client *redis.Client
	key    string
}

func NewRedisProvider(client *redis.Client) *RedisProvider {
	return &RedisProvider{client: client, key: defaultRedisKey}
}

func (p *RedisProvider) Load(ctx context.Context) (Config, error) {
	value, err := p.client.HGet(ctx, p.key, "allowedFields").Result()
	if errors.Is(err, redis.Nil) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w: %w", p.key, ErrUnavailable, err)
	}
	return Config{AllowedFields: value}, nil
}

// Save writes the configuration.
func (p *RedisProvider) Save(ctx context.Context, cfg Config) error {
	if err := p.client.HSet(ctx, p.key, "allowedFields", cfg.AllowedFields).Err(); err != nil {
		return fmt.Errorf("save %s: %w", p.key, err)
	}
	return nil
}

// Result is the outcome of one configuration read. A failed read is carried
// as a value so callers can degrade without branching on errors.
type Result struct {
	Config Config
	Err    error
}

// Load reads the configuration from p. A nil provider yields an empty result.
func Load(ctx context.Context, p Provider) Result {
	if p == nil {
		return Result{}
	}
	cfg, err := p.Load(ctx)
	return Result{Config: cfg, Err: err}
}

// Fields returns the configured allow-list, or nil when the read failed or
// nothing usable is configured.
func (r Result) Fields() []string {
	if r.Err != nil {
		return nil
	}
	return r.Config.Fields()
}
