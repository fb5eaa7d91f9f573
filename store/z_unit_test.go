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
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zintix-labs/gemlab/errs"
)

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if _, err := s.Load(ctx, "a"); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	blob := []byte{1, 2, 3}
	if err := s.Save(ctx, "a", blob); err != nil {
		t.Fatalf("save: %v", err)
	}
	blob[0] = 9
	got, err := s.Load(ctx, "a")
	if err != nil || len(got) != 3 || got[0] != 1 {
		t.Fatalf("load: %v %v", got, err)
	}
	got[1] = 9
	again, _ := s.Load(ctx, "a")
	if again[1] != 2 {
		t.Fatalf("load must return a copy")
	}
	if err := s.Save(ctx, "", blob); errs.Level(err) != errs.Warn {
		t.Fatalf("empty key should be warn")
	}
	if err := s.Delete(ctx, "a"); err != nil || s.Len() != 0 {
		t.Fatalf("delete failed")
	}
}

func TestMemStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemStore().Save(ctx, "a", nil); err == nil {
		t.Fatalf("canceled context should fail")
	}
}

func TestNewRedisStoreOptions(t *testing.T) {
	if _, err := NewRedisStore(nil); err == nil {
		t.Fatalf("nil client should fail")
	}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	s, err := NewRedisStore(rdb, WithPrefix("t:"), WithTTL(time.Minute))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.key("x") != "t:x" || s.ttl != time.Minute {
		t.Fatalf("options not applied")
	}
	if _, err := NewRedisStore(rdb, WithTTL(-time.Second)); err == nil {
		t.Fatalf("negative ttl should fail")
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "saves")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Load(ctx, "a"); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	blob := []byte{0x47, 1, 2, 3}
	if err := s.Save(ctx, "a", blob); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "a")
	if err != nil || string(got) != string(blob) {
		t.Fatalf("load: %v %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.save")); err != nil {
		t.Fatalf("save file missing: %v", err)
	}
	for _, bad := range []string{"", "../x", "a/b"} {
		if err := s.Save(ctx, bad, blob); errs.Level(err) != errs.Warn {
			t.Fatalf("key %q should be warn, got %v", bad, err)
		}
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Load(ctx, "a"); !errs.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
}

func TestFileStoreRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	// uvarint(2^21) 之後沒有內容
	if err := os.WriteFile(filepath.Join(dir, "big.save"), []byte{0x80, 0x80, 0x80, 0x01}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load(context.Background(), "big"); errs.Level(err) != errs.Warn {
		t.Fatalf("oversized file should be warn, got %v", err)
	}
}

// memRedis 以 hook 攔下 set/get/del，不連線也能跑 RedisStore
type memRedis struct {
	data map[string]string
	args [][]any
}

func (m *memRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errs.NewFatal("memRedis: dial not allowed")
	}
}

func (m *memRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		m.args = append(m.args, args)
		switch c := cmd.(type) {
		case *redis.StatusCmd:
			if cmd.Name() == "set" {
				v, _ := args[2].([]byte)
				m.data[args[1].(string)] = string(v)
				c.SetVal("OK")
			}
		case *redis.StringCmd:
			v, ok := m.data[args[1].(string)]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.IntCmd:
			n := int64(0)
			for _, k := range args[1:] {
				if _, ok := m.data[k.(string)]; ok {
					delete(m.data, k.(string))
					n++
				}
			}
			c.SetVal(n)
		}
		return nil
	}
}

func (m *memRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisStoreSaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	mem := &memRedis{data: map[string]string{}}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	rdb.AddHook(mem)

	s, err := NewRedisStore(rdb, WithPrefix("t:"), WithTTL(time.Minute))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Load(ctx, "a"); !errs.IsNotFound(err) {
		t.Fatalf("redis.Nil should map to not found, got %v", err)
	}
	if err := s.Save(ctx, "a", []byte{1, 2, 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := mem.data["t:a"]; !ok {
		t.Fatalf("save should use prefixed key, data=%v", mem.data)
	}
	set := mem.args[len(mem.args)-1]
	if len(set) != 5 || set[3] != "ex" || set[4] != int64(60) {
		t.Fatalf("save should pass ttl, args=%v", set)
	}
	got, err := s.Load(ctx, "a")
	if err != nil || string(got) != string([]byte{1, 2, 3}) {
		t.Fatalf("load: %v %v", got, err)
	}
	if err := s.Save(ctx, "", nil); errs.Level(err) != errs.Warn {
		t.Fatalf("empty key should be warn")
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Load(ctx, "a"); !errs.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
