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

// Package bot 模擬用的自動玩家。
package bot

import (
	"strings"

	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/sdk/explode"
	"github.com/zintix-labs/gemlab/sdk/gen"
	"github.com/zintix-labs/gemlab/sdk/match"
)

// Bot 從目前盤面選一個交換；沒有可行交換時回傳 false
type Bot interface {
	Name() string
	Choose(g *board.Grid, f *board.Frost) (match.Move, bool)
}

// New 依名稱建立 bot：greedy 或 random
func New(name string, c *core.Core) (Bot, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "greedy":
		return Greedy{}, nil
	case "random":
		if c == nil {
			return nil, errs.NewFatal("bot: random bot needs a core")
		}
		return &Random{core: c}, nil
	}
	return nil, errs.Warnf("bot: unknown bot %q", name)
}

func legalMoves(g *board.Grid, f *board.Frost) []match.Move {
	var mv match.MovableFn
	if f != nil {
		mv = gen.Effective(g, f.Movable)
	}
	return match.PossibleMoves(g, mv)
}

// Greedy 選立即清除格數最多的交換 (含炸彈連鎖，不看後續掉落)
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Choose(g *board.Grid, f *board.Frost) (match.Move, bool) {
	moves := legalMoves(g, f)
	if len(moves) == 0 {
		return match.Move{}, false
	}
	best, bestN := moves[0], -1
	work := g.Clone()
	for _, m := range moves {
		work.SwapRaw(m.A, m.B)
		n := len(explode.Resolve(work, match.FindAll(work)).Cleared)
		work.SwapRaw(m.A, m.B)
		if n > bestN {
			best, bestN = m, n
		}
	}
	return best, true
}

// Random 在合法交換中均勻抽一個
type Random struct {
	core *core.Core
}

func (*Random) Name() string { return "random" }

func (r *Random) Choose(g *board.Grid, f *board.Frost) (match.Move, bool) {
	moves := legalMoves(g, f)
	if len(moves) == 0 {
		return match.Move{}, false
	}
	return moves[r.core.IntN(len(moves))], true
}
