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

package gemlab

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/gemlab/dto"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/cascade"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/spec"
	"github.com/zintix-labs/gemlab/store"
)

// DefaultMaxSessions 單一 runtime 同時存在的 session 上限
const DefaultMaxSessions = 4096

// Session 一個玩家的一局。Engine 自己保證單一寫入者，Session 本身不可變
type Session struct {
	ID    string
	Level *spec.LevelSetting
	Seed  int64

	eng *cascade.Engine
}

func (s *Session) Engine() *cascade.Engine { return s.eng }

// LevelName 關卡名稱 (存檔用)
func (s *Session) LevelName() string { return s.Level.LevelName }

// State 目前狀態
func (s *Session) State() dto.StateDTO {
	return dto.NewStateDTO(s.ID, s.Level.LevelName, s.eng)
}

// CreateParams 建立 session 的參數；Seed 為 nil 時由 crypto/rand 產生
type CreateParams struct {
	Level   string
	LevelID spec.LID
	Seed    *int64
}

// RuntimeOption runtime 選項
type RuntimeOption func(*Runtime)

// WithStore 存檔後端 (預設 store.MemStore)
func WithStore(st store.Store) RuntimeOption {
	return func(rt *Runtime) {
		if st != nil {
			rt.st = st
		}
	}
}

// WithMaxSessions session 上限
func WithMaxSessions(n int) RuntimeOption {
	return func(rt *Runtime) { rt.maxSessions = max(1, n) }
}

// Runtime 對外服務用的 session 表。每個被接受的交換都會自動存檔
type Runtime struct {
	lab *Gemlab
	st  store.Store
	log *slog.Logger

	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

// BuildRuntime 進入執行階段；catalog 會先 Freeze
func (g *Gemlab) BuildRuntime(opts ...RuntimeOption) (*Runtime, error) {
	g.Freeze()
	if len(g.cat.IDs()) == 0 {
		return nil, errs.NewFatal("no levels registered")
	}
	rt := &Runtime{
		lab:         g,
		st:          store.NewMemStore(),
		log:         g.log,
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		done:        make(chan struct{}),
	}
	rt.reason.Store("")
	for _, o := range opts {
		o(rt)
	}
	return rt, nil
}

func (rt *Runtime) Lab() *Gemlab { return rt.lab }

func (rt *Runtime) alive() error {
	select {
	case <-rt.done:
		rt.closed.Store(true)
		return errs.NewFatal("runtime closed: " + rt.ClosedReason())
	default:
		return nil
	}
}

func newSessionID() (string, error) {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", errs.Wrap(err, "session id")
	}
	return hex.EncodeToString(b[:]), nil
}

// Create 建立新局
func (rt *Runtime) Create(ctx context.Context, p CreateParams) (*Session, error) {
	if err := rt.alive(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.NewWarn("create canceled/timeout: " + err.Error())
	}
	ls, err := rt.lab.Level(p.Level, p.LevelID)
	if err != nil {
		return nil, err
	}
	seed := core.RandomSeed()
	if p.Seed != nil {
		seed = *p.Seed
	}
	eng, err := rt.lab.NewEngine(ls, seed)
	if err != nil {
		return nil, err
	}
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	s := &Session{ID: id, Level: ls, Seed: seed, eng: eng}

	rt.mu.Lock()
	if len(rt.sessions) >= rt.maxSessions {
		rt.mu.Unlock()
		return nil, errs.NewWarn("too many sessions")
	}
	rt.sessions[id] = s
	rt.mu.Unlock()

	rt.log.Debug("session.create", slog.String("id", id), slog.String("level", ls.LevelName), slog.Int64("seed", seed))
	return s, nil
}

// Get 取 session；不存在回傳 errs.NotFound
func (rt *Runtime) Get(id string) (*Session, error) {
	if err := rt.alive(); err != nil {
		return nil, err
	}
	rt.mu.RLock()
	s, ok := rt.sessions[id]
	rt.mu.RUnlock()
	if !ok {
		return nil, errs.NotFoundf("session %q not found", id)
	}
	return s, nil
}

// Len 目前 session 數
func (rt *Runtime) Len() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.sessions)
}

// Swap 交換並結算；被接受的交換結束後自動存檔。存檔失敗只記錄，不影響結果
func (rt *Runtime) Swap(ctx context.Context, id string, x, y int, dir board.Direction) (cascade.MoveResult, error) {
	s, err := rt.Get(id)
	if err != nil {
		return cascade.MoveResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return cascade.MoveResult{}, errs.NewWarn("swap canceled/timeout: " + err.Error())
	}
	res := s.eng.RequestSwap(x, y, dir)
	if res.Accepted || res.MoveConsumed {
		if _, err := rt.save(ctx, s); err != nil {
			rt.log.Error("session.autosave", slog.String("id", id), slog.Any("err", err))
		}
	}
	return res, nil
}

// Save 擷取目前狀態並寫入 store，回傳 blob
func (rt *Runtime) Save(ctx context.Context, id string) ([]byte, error) {
	s, err := rt.Get(id)
	if err != nil {
		return nil, err
	}
	return rt.save(ctx, s)
}

func (rt *Runtime) save(ctx context.Context, s *Session) ([]byte, error) {
	blob, err := dto.FromEngine(s.LevelName(), s.eng).EncodeBlob()
	if err != nil {
		return nil, err
	}
	if err := rt.st.Save(ctx, s.ID, blob); err != nil {
		return nil, err
	}
	return blob, nil
}

// Load 載入存檔。blob 為 nil 時讀取 store 內的存檔。
//
// 存檔不存在、格式錯誤或內容不合法時重新開局並回傳 fresh=true；這種情況只記錄 warn。
// 只有 session 不存在或 store 本身故障才回傳 error。
func (rt *Runtime) Load(ctx context.Context, id string, blob []byte) (fresh bool, err error) {
	s, err := rt.Get(id)
	if err != nil {
		return false, err
	}
	if blob == nil {
		blob, err = rt.st.Load(ctx, id)
		if err != nil && !errs.IsNotFound(err) {
			return false, err
		}
	}

	var lerr error
	if blob == nil {
		lerr = errs.NotFoundf("no save for %q", id)
	} else {
		lerr = rt.apply(s, blob)
	}
	if lerr == nil {
		return false, nil
	}

	rt.log.Warn("session.load", slog.String("id", id), slog.Any("err", lerr))
	if err := s.eng.NewGame(); err != nil {
		return false, err
	}
	if _, err := rt.save(ctx, s); err != nil {
		rt.log.Error("session.autosave", slog.String("id", id), slog.Any("err", err))
	}
	return true, nil
}

func (rt *Runtime) apply(s *Session, blob []byte) error {
	snap, err := dto.DecodeBlob(blob)
	if err != nil {
		return err
	}
	if snap.Level != s.LevelName() {
		return errs.Warnf("save belongs to level %q", snap.Level)
	}
	return snap.Apply(s.eng, s.Level.Types())
}

// NewGame 重新開局並存檔
func (rt *Runtime) NewGame(ctx context.Context, id string) (*Session, error) {
	s, err := rt.Get(id)
	if err != nil {
		return nil, err
	}
	if s.eng.IsResolving() {
		return nil, errs.NewWarn("session is resolving a move")
	}
	if err := s.eng.NewGame(); err != nil {
		return nil, err
	}
	if _, err := rt.save(ctx, s); err != nil {
		rt.log.Error("session.autosave", slog.String("id", id), slog.Any("err", err))
	}
	return s, nil
}

// Delete 移除 session 與其存檔
func (rt *Runtime) Delete(ctx context.Context, id string) error {
	rt.mu.Lock()
	_, ok := rt.sessions[id]
	delete(rt.sessions, id)
	rt.mu.Unlock()
	if !ok {
		return errs.NotFoundf("session %q not found", id)
	}
	return rt.st.Delete(ctx, id)
}

// Close 關閉 runtime，可重複呼叫
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
		rt.log.Info("runtime.close", slog.String("reason", reason), slog.Int("sessions", rt.Len()))
	})
}

func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
