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

// Package gen 產生初始盤面並在死局時重新洗牌。
//
// Generator 持有亂數核心與顏色權重表，所有隨機決策都經由同一個 core.Core，
// 同一個種子重播出相同盤面。
package gen

import (
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/sdk/match"
	"github.com/zintix-labs/gemlab/sdk/sampler"
)

const (
	MinTypes = 3 // 少於 3 色時貪婪填盤可能無解

	// MaxInitAttempts 初始盤面整盤重填的上限
	MaxInitAttempts = 1000
	// MaxShuffleAttempts 洗牌重排的上限，超過後改以重抽顏色救援
	MaxShuffleAttempts = 10000

	pickRetries = 32
)

// Generator 盤面產生器
type Generator struct {
	core  *core.Core
	types []board.GemType
	table *sampler.AliasTable
}

// New 建立產生器。weights 為 nil 時各色等權；否則長度必須與 types 相同
func New(c *core.Core, types []board.GemType, weights []int) (*Generator, error) {
	if c == nil {
		return nil, errs.NewFatal("gen: core is nil")
	}
	if len(types) < MinTypes {
		return nil, errs.Warnf("gen: need at least %d gem types, got %d", MinTypes, len(types))
	}
	seen := make(map[board.GemType]bool, len(types))
	for _, t := range types {
		if t == board.None || seen[t] {
			return nil, errs.Warnf("gen: invalid or duplicated gem type %v", t)
		}
		seen[t] = true
	}

	var table *sampler.AliasTable
	if weights == nil {
		table = sampler.Uniform(len(types))
	} else {
		if len(weights) != len(types) {
			return nil, errs.Warnf("gen: %d weights for %d types", len(weights), len(types))
		}
		var err error
		if table, err = sampler.BuildAliasTable(weights); err != nil {
			return nil, errs.Wrap(err, "gen: build weight table")
		}
	}

	ts := make([]board.GemType, len(types))
	copy(ts, types)
	return &Generator{core: c, types: ts, table: table}, nil
}

// Types 可出現的顏色
func (gn *Generator) Types() []board.GemType {
	out := make([]board.GemType, len(gn.types))
	copy(out, gn.types)
	return out
}

// Core 共用的亂數核心
func (gn *Generator) Core() *core.Core { return gn.core }

// RandomType 依權重抽一個顏色
func (gn *Generator) RandomType() board.GemType {
	return gn.types[gn.table.Pick(gn.core)]
}

// Effective 若在限制下連一對可動相鄰格都沒有，退回不限制 (nil)
func Effective(g *board.Grid, movable match.MovableFn) match.MovableFn {
	if movable != nil && !match.HasMovablePair(g, movable) {
		return nil
	}
	return movable
}

// completesRun 在列優先填盤時，t 放在 (x,y) 是否與左方或上方兩格連成 3
func completesRun(g *board.Grid, x, y int, t board.GemType) bool {
	if x >= 2 && g.TypeAt(x-1, y) == t && g.TypeAt(x-2, y) == t {
		return true
	}
	if y >= 2 && g.TypeAt(x, y-1) == t && g.TypeAt(x, y-2) == t {
		return true
	}
	return false
}

// pickFor 抽一個不會在 (x,y) 形成連線的顏色
func (gn *Generator) pickFor(g *board.Grid, x, y int) board.GemType {
	for range pickRetries {
		if t := gn.RandomType(); !completesRun(g, x, y, t) {
			return t
		}
	}
	// 權重偏斜時依序取第一個可用色；至少 3 色時必有解
	start := gn.core.IntN(len(gn.types))
	for i := range gn.types {
		t := gn.types[(start+i)%len(gn.types)]
		if !completesRun(g, x, y, t) {
			return t
		}
	}
	return gn.types[start]
}

// fill 列優先貪婪填盤；keep 為 true 時保留原格子的 ID 與炸彈旗標
func (gn *Generator) fill(g *board.Grid, keep bool) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			old, had := g.At(x, y)
			// 先清空，避免 completesRun 看到舊值
			g.Remove(x, y)
			t := gn.pickFor(g, x, y)
			if keep && had {
				old.Type = t
				g.Place(x, y, old)
				continue
			}
			g.Set(x, y, g.NewGem(t, x, y, false))
		}
	}
}

// InitBoard 以貪婪法填滿盤面，直到存在可行交換為止。回傳嘗試次數。
//
// movable 限制哪些格子能參與交換 (例如冰霜)；nil 代表全部可動。
func (gn *Generator) InitBoard(g *board.Grid, movable match.MovableFn) (int, error) {
	for attempt := 1; attempt <= MaxInitAttempts; attempt++ {
		gn.fill(g, false)
		if match.HasPossibleMoves(g, Effective(g, movable)) {
			return attempt, nil
		}
	}
	return MaxInitAttempts, errs.Warnf("gen: no playable board in %d attempts (%dx%d, %d types)",
		MaxInitAttempts, g.Width(), g.Height(), len(gn.types))
}

// ShuffleResult 洗牌統計
type ShuffleResult struct {
	Attempts int  // 重排次數
	Rerolled bool // 是否改以重抽顏色救援
}

// Shuffle 死局救援：保留寶石身分重新排列位置，直到盤面無連線且至少有一個可行交換。
//
// 顏色組成本身無解時 (例如同色過多)，超過 MaxShuffleAttempts 後保留 ID 重抽顏色。
func (gn *Generator) Shuffle(g *board.Grid, movable match.MovableFn) ShuffleResult {
	gems := g.Gems()
	cells := make([]board.Cell, 0, len(gems))
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if _, ok := g.At(x, y); ok {
				cells = append(cells, board.Cell{X: x, Y: y})
			}
		}
	}
	mv := Effective(g, movable)

	for attempt := 1; attempt <= MaxShuffleAttempts; attempt++ {
		gn.core.Shuffle(len(gems), func(i, j int) { gems[i], gems[j] = gems[j], gems[i] })
		for i, c := range cells {
			g.Place(c.X, c.Y, gems[i])
		}
		if !match.HasAnyMatch(g) && match.HasPossibleMoves(g, mv) {
			return ShuffleResult{Attempts: attempt}
		}
	}

	res := ShuffleResult{Attempts: MaxShuffleAttempts, Rerolled: true}
	for range MaxInitAttempts {
		gn.fill(g, true)
		if match.HasPossibleMoves(g, mv) {
			break
		}
	}
	return res
}
