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

// Package cascade 驅動一次玩家交換的完整結算：交換、配對、清除、計分、炸彈、重力，
// 重複直到盤面穩定，再檢查死局並洗牌。
//
// 狀態流程：Idle → AwaitingSwap → Resolving → (Clearing → Falling → Rechecking)* →
// Settling (→ Reshuffling) → Idle。
//
// Engine 為單一寫入者：同一時間只結算一個交換，結算中收到的請求直接拒絕。
// 結算是同步且確定的；呈現層需要的停頓點以 Frame 快照回傳，不在引擎內等待。
package cascade

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/gen"
	"github.com/zintix-labs/gemlab/sdk/ops"
)

// Option 引擎選項
type Option func(*Engine)

// WithLogger 設定 logger (預設丟棄)
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithBudget 使用外部步數預算
func WithBudget(b Budget) Option {
	return func(e *Engine) { e.budget = b }
}

// WithFrames 是否記錄步驟快照 (模擬時關閉)
func WithFrames(on bool) Option {
	return func(e *Engine) { e.frames = on }
}

// WithRefill 指定補盤抽色；預設由 Generator 依權重抽樣
func WithRefill(pick ops.TypePicker) Option {
	return func(e *Engine) { e.refill = pick }
}

// Engine 連鎖結算引擎
type Engine struct {
	mu        sync.Mutex
	resolving atomic.Bool

	cfg    Config
	gen    *gen.Generator
	grid   *board.Grid
	frost  *board.Frost
	budget Budget
	obj    Objectives
	score  int64

	frames bool
	refill ops.TypePicker
	log    *slog.Logger
}

// New 依設定建立引擎並產生第一個盤面
func New(cfg Config, gn *gen.Generator, opts ...Option) (*Engine, error) {
	if gn == nil {
		return nil, errs.NewFatal("cascade: generator is nil")
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	types := make(map[board.GemType]bool)
	for _, t := range gn.Types() {
		types[t] = true
	}
	for t := range cfg.Objectives {
		if !types[t] {
			return nil, errs.Warnf("cascade: objective on unused gem type %v", t)
		}
	}

	e := &Engine{
		cfg:    cfg,
		gen:    gn,
		frames: true,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.refill == nil {
		e.refill = gn.RandomType
	}
	if e.budget == nil {
		e.budget = NewCounter(cfg.Moves)
	}
	if err := e.reset(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) reset() error {
	grid := board.NewGrid(e.cfg.Width, e.cfg.Height)
	frost := e.cfg.newFrost()
	if _, err := e.gen.InitBoard(grid, frost.Movable); err != nil {
		return err
	}
	e.grid, e.frost = grid, frost
	e.score = 0
	e.budget.Reset(e.cfg.Moves)
	e.obj = Objectives(e.cfg.Objectives).Clone()
	return nil
}

// NewGame 重新開局：新盤面、初始冰霜、分數歸零、步數重置
func (e *Engine) NewGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reset()
}

// Load 以外部還原的狀態取代目前盤面。grid 必須填滿且尺寸與設定相同
func (e *Engine) Load(grid *board.Grid, frost *board.Frost, score int64, moves int, obj Objectives) error {
	if grid == nil || frost == nil {
		return errs.NewWarn("cascade: load with nil grid or frost")
	}
	if grid.Width() != e.cfg.Width || grid.Height() != e.cfg.Height ||
		frost.Width() != e.cfg.Width || frost.Height() != e.cfg.Height {
		return errs.Warnf("cascade: load size mismatch, want %dx%d", e.cfg.Width, e.cfg.Height)
	}
	if !grid.Full() {
		return errs.NewWarn("cascade: load with empty cells")
	}
	if score < 0 || moves < 0 {
		return errs.NewWarn("cascade: load with negative score or moves")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid = grid.Clone()
	e.frost = frost.Clone()
	e.score = score
	e.budget.Reset(moves)
	if obj == nil {
		obj = Objectives{}
	}
	e.obj = obj.Clone()
	return nil
}

// IsResolving 是否正在結算
func (e *Engine) IsResolving() bool { return e.resolving.Load() }

// Config 正規化後的設定
func (e *Engine) Config() Config { return e.cfg }

// GemAt 讀取格子上的寶石
func (e *Engine) GemAt(x, y int) (board.Gem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.At(x, y)
}

// FrostLevelAt 讀取格子冰霜層數 (越界為 0)
func (e *Engine) FrostLevelAt(x, y int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frost.Level(x, y)
}

// Grid 目前盤面的複本
func (e *Engine) Grid() *board.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Clone()
}

// Frost 目前冰霜層的複本
func (e *Engine) Frost() *board.Frost {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frost.Clone()
}

func (e *Engine) Score() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

func (e *Engine) MovesRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.budget.Remaining()
}

// Objectives 各色剩餘目標的複本
func (e *Engine) Objectives() Objectives {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.obj.Clone()
}

// State 同一時間點的完整狀態
type State struct {
	Grid           *board.Grid
	Frost          *board.Frost
	Score          int64
	MovesRemaining int
	Objectives     Objectives
	Won            bool
	Over           bool
}

// State 在同一次上鎖內複製盤面、冰霜、分數、步數與目標，結算中會等到結算完成
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	won := e.won()
	return State{
		Grid:           e.grid.Clone(),
		Frost:          e.frost.Clone(),
		Score:          e.score,
		MovesRemaining: e.budget.Remaining(),
		Objectives:     e.obj.Clone(),
		Won:            won,
		Over:           won || e.budget.Remaining() <= 0,
	}
}

// Won 達到目標分數且所有顏色目標完成。
// 沒有目標分數也沒有顏色目標的關卡永遠不會過關。
func (e *Engine) Won() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.won()
}

func (e *Engine) won() bool {
	if e.cfg.TargetScore == 0 && len(e.obj) == 0 {
		return false
	}
	return e.score >= e.cfg.TargetScore && e.obj.Done()
}

// Over 已過關或步數用盡
func (e *Engine) Over() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.won() || e.budget.Remaining() <= 0
}

// RequestSwap 交換 (x,y) 與其 dir 方向的鄰格
func (e *Engine) RequestSwap(x, y int, dir board.Direction) MoveResult {
	a := board.Cell{X: x, Y: y}
	return e.Swap(a, a.Step(dir))
}

// Swap 驗證並結算一次交換。被拒絕的請求不改動任何狀態
func (e *Engine) Swap(a, b board.Cell) MoveResult {
	if !e.mu.TryLock() {
		return rejected(ReasonBusy)
	}
	defer e.mu.Unlock()

	if r := e.check(a, b); r != ReasonNone {
		return rejected(r)
	}

	e.resolving.Store(true)
	defer e.resolving.Store(false)
	return e.resolve(a, b)
}

// check 交換前的檢查，依序回傳第一個不成立的原因
func (e *Engine) check(a, b board.Cell) Reason {
	switch {
	case e.won():
		return ReasonGameOver
	case e.budget.Remaining() <= 0:
		return ReasonOutOfMoves
	case !e.grid.InBounds(a.X, a.Y) || !e.grid.InBounds(b.X, b.Y):
		return ReasonOutOfBounds
	case !board.Adjacent(a, b):
		return ReasonNotAdjacent
	}
	ga, okA := e.grid.At(a.X, a.Y)
	gb, okB := e.grid.At(b.X, b.Y)
	switch {
	case !okA || !okB:
		return ReasonEmpty
	case e.frost.Frosted(a.X, a.Y) || e.frost.Frosted(b.X, b.Y):
		return ReasonFrosted
	case ga.Type == gb.Type:
		return ReasonSameType
	}
	return ReasonNone
}

// RecoverDeadlock 盤面沒有可行交換時洗牌。結算結束後會自動執行；
// 外部直接替換盤面後也可呼叫
func (e *Engine) RecoverDeadlock() MoveResult {
	if !e.mu.TryLock() {
		return rejected(ReasonBusy)
	}
	defer e.mu.Unlock()

	var res MoveResult
	e.recoverDeadlock(&res)
	return res
}
