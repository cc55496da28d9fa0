// SPDX-License-Identifier: MPL-2.0

package store

import (
	"context"
	"errors"
	"fmt"

	backend "github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"grimoire-cli/internal/script"
)

// DefaultRedisHash is the hash every script lives under. One hash keeps
// listing a single HGETALL and removal a single HDEL.
const DefaultRedisHash = "grimoire:scripts"

// RedisOption configures a Redis registry.
type RedisOption func(*Redis)

// WithHash overrides the hash key scripts are stored under.
func WithHash(key string) RedisOption {
	return func(r *Redis) {
		if key != "" {
			r.hash = key
		}
	}
}

// Redis is a Registry backed by a Redis hash, one field per script name
// holding the script's YAML encoding.
type Redis struct {
	client *backend.Client
	hash   string
}

// NewRedis wraps an existing client. The caller keeps ownership of the
// client unless it calls Close.
func NewRedis(client *backend.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, hash: DefaultRedisHash}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRedisFromURL dials the registry described by a redis:// URL.
func NewRedisFromURL(url string, opts ...RedisOption) (*Redis, error) {
	cfg, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cannot parse redis url: %w", err)
	}
	return NewRedis(backend.NewClient(cfg), opts...), nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Scripts(ctx context.Context) (map[string]*script.Script, error) {
	fields, err := r.client.HGetAll(ctx, r.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot list scripts: %w", err)
	}
	scripts := make(map[string]*script.Script, len(fields))
	for name, raw := range fields {
		s, err := decodeScript(name, []byte(raw))
		if err != nil {
			return nil, err
		}
		scripts[name] = s
	}
	return scripts, nil
}

func (r *Redis) Script(ctx context.Context, name string) (*script.Script, bool, error) {
	raw, err := r.client.HGet(ctx, r.hash, name).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cannot load script %q: %w", name, err)
	}
	s, err := decodeScript(name, []byte(raw))
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (r *Redis) Put(ctx context.Context, s *script.Script) error {
	if err := checkPut(s); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("cannot encode script %q: %w", s.Name, err)
	}
	if err := r.client.HSet(ctx, r.hash, s.Name, data).Err(); err != nil {
		return fmt.Errorf("cannot store script %q: %w", s.Name, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, name string) error {
	removed, err := r.client.HDel(ctx, r.hash, name).Result()
	if err != nil {
		return fmt.Errorf("cannot remove script %q: %w", name, err)
	}
	if removed == 0 {
		return &NotFoundError{Name: name}
	}
	return nil
}

func decodeScript(name string, data []byte) (*script.Script, error) {
	s := &script.Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("cannot decode stored script %q: %w", name, err)
	}
	return s, nil
}
