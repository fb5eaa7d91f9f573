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

package cascade

import (
	"log/slog"

	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/explode"
	"github.com/zintix-labs/gemlab/sdk/gen"
	"github.com/zintix-labs/gemlab/sdk/match"
	"github.com/zintix-labs/gemlab/sdk/ops"
)

// maxMultiplier 倍率上限，避免極長連鎖時 int64 溢位
const maxMultiplier int64 = 1 << 40

func (r *MoveResult) emit(ev Event) { r.Events = append(r.Events, ev) }

// snap 記錄步驟快照
func (e *Engine) snap(res *MoveResult, p Phase, iter int) {
	if !e.frames {
		return
	}
	res.Frames = append(res.Frames, Frame{
		Phase:     p,
		Iteration: iter,
		Grid:      e.grid.Clone(),
		Frost:     e.frost.Clone(),
	})
}

// resolve 已通過檢查的交換。呼叫端持有 mu
func (e *Engine) resolve(a, b board.Cell) MoveResult {
	var res MoveResult

	e.grid.Swap(a, b)
	res.emit(Event{Kind: EvSwapCommitted, X: a.X, Y: a.Y, X2: b.X, Y2: b.Y})
	e.snap(&res, PhaseSwap, 0)

	if !match.HasMatchAt(e.grid, a.X, a.Y) && !match.HasMatchAt(e.grid, b.X, b.Y) {
		e.grid.Swap(a, b)
		res.emit(Event{Kind: EvSwapReverted, X: a.X, Y: a.Y, X2: b.X, Y2: b.Y})
		e.snap(&res, PhaseSwapBack, 0)
		res.Reason = ReasonNoMatch
		if e.cfg.NoMatchCostsMove {
			res.MoveConsumed = e.budget.Consume()
		}
		return res
	}

	res.Accepted = true
	res.MoveConsumed = e.budget.Consume()

	mult := int64(1)
	touched := []board.Cell{a, b}
	for iter := 1; ; iter++ {
		groups := match.FindGroups(e.grid)
		if len(groups) == 0 {
			break
		}
		if iter > e.cfg.MaxCascades {
			res.Capped = true
			e.log.Debug("cascade.capped", slog.Int("max", e.cfg.MaxCascades), slog.Int("groups", len(groups)))
			break
		}
		e.clearStep(&res, iter, groups, touched, mult)
		res.Cascades = iter
		// 只有第一輪的群組能以交換格作為炸彈位置
		touched = nil
		if mult < maxMultiplier {
			mult *= 2
		}
	}

	e.recoverDeadlock(&res)
	return res
}

type bombSpawn struct {
	at board.Cell
	t  board.GemType
}

// clearStep 一輪連鎖：清除、冰霜、目標、炸彈、計分、重力
func (e *Engine) clearStep(res *MoveResult, iter int, groups []match.Group, touched []board.Cell, mult int64) {
	var matched []board.Cell
	var spawns []bombSpawn
	for _, gr := range groups {
		matched = append(matched, gr.Cells...)
		if gr.Size() >= e.cfg.BombMinGroup {
			spawns = append(spawns, bombSpawn{at: match.Anchor(gr, touched...), t: gr.Type})
		}
	}
	blast := explode.Resolve(e.grid, matched)

	// 每次清除事件每格只削一層冰霜；-1 代表該格無冰霜
	left := make([]int, len(blast.Cleared))
	frostCleared := false
	for i, c := range blast.Cleared {
		left[i] = -1
		if e.frost.Crack(c.X, c.Y) {
			left[i] = e.frost.Level(c.X, c.Y)
			frostCleared = true
		}
	}

	res.emit(Event{Kind: EvMatchPerformed, Iteration: iter, Size: len(matched), FrostCleared: frostCleared})
	for _, d := range blast.Detonated {
		res.emit(Event{Kind: EvBombExploded, Iteration: iter, X: d.X, Y: d.Y})
	}
	for i, c := range blast.Cleared {
		if left[i] >= 0 {
			res.emit(Event{Kind: EvFrostCracked, Iteration: iter, X: c.X, Y: c.Y, Level: left[i]})
			res.FrostCracks++
		}
		gem, ok := e.grid.At(c.X, c.Y)
		if !ok {
			continue
		}
		e.obj.Hit(gem.Type)
		res.emit(Event{Kind: EvGemCleared, Iteration: iter, X: c.X, Y: c.Y, Type: gem.Type})
	}
	removed := ops.Clear(e.grid, blast.Cleared)

	// 先移除再放炸彈，新炸彈不會被本輪清掉
	for _, s := range spawns {
		e.grid.Set(s.at.X, s.at.Y, e.grid.NewGem(s.t, s.at.X, s.at.Y, true))
		res.emit(Event{Kind: EvBombCreated, Iteration: iter, X: s.at.X, Y: s.at.Y, Type: s.t})
	}
	e.snap(res, PhaseClear, iter)

	gained := int64(len(removed)) * e.cfg.BaseValue * mult
	e.score += gained
	res.ScoreGained += gained
	res.Cleared += len(removed)
	res.BombsCreated += len(spawns)
	res.Detonations += len(blast.Detonated)

	ops.PrepareFall(e.grid, e.refill)
	e.snap(res, PhaseFallPrepare, iter)
	ops.FinalizeFall(e.grid)
	e.snap(res, PhaseFallFinalize, iter)
}

// recoverDeadlock 穩定後沒有可行交換 (冰霜格不可動) 就洗牌
func (e *Engine) recoverDeadlock(res *MoveResult) bool {
	if match.HasPossibleMoves(e.grid, gen.Effective(e.grid, e.frost.Movable)) {
		return false
	}
	sr := e.gen.Shuffle(e.grid, e.frost.Movable)
	e.log.Debug("cascade.shuffle", slog.Int("attempts", sr.Attempts), slog.Bool("rerolled", sr.Rerolled))
	res.emit(Event{Kind: EvShuffle})
	e.snap(res, PhaseShuffle, 0)
	res.Shuffled = true
	return true
}
