// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zintix-labs/gemlab/errs"
)

// DefaultPrefix redis key 前綴
const DefaultPrefix = "gemlab:save:"

// RedisStore 以 redis 字串鍵保存 blob；ttl 為 0 代表不過期
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

func WithPrefix(p string) RedisOption {
	return func(s *RedisStore) { s.prefix = p }
}

func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

func NewRedisStore(rdb redis.UniversalClient, opts ...RedisOption) (*RedisStore, error) {
	if rdb == nil {
		return nil, errs.NewFatal("store: redis client required")
	}
	s := &RedisStore{rdb: rdb, prefix: DefaultPrefix}
	for _, o := range opts {
		o(s)
	}
	if s.ttl < 0 {
		return nil, errs.NewFatal("store: negative ttl")
	}
	return s, nil
}

// DialRedis 以位址建立 client 並 PING 一次
func DialRedis(ctx context.Context, addr string, opts ...RedisOption) (*RedisStore, error) {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errs.Wrap(err, "store: redis ping failed")
	}
	return NewRedisStore(rdb, opts...)
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Save(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return errs.NewWarn("store: empty key")
	}
	if err := s.rdb.Set(ctx, s.key(key), blob, s.ttl).Err(); err != nil {
		return errs.Wrap(err, "store: redis set failed")
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, errs.NotFoundf("store: no save for %q", key)
	case err != nil:
		return nil, errs.Wrap(err, "store: redis get failed")
	}
	return b, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return errs.Wrap(err, "store: redis del failed")
	}
	return nil
}

// Close 關閉底層 client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
