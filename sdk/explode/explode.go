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

// Package explode 計算炸彈爆炸範圍並解開連鎖引爆。
package explode

import "github.com/zintix-labs/gemlab/sdk/board"

// Radius 爆炸半徑 (3x3)
const Radius = 1

// Area 以 (cx, cy) 為中心的 3x3 區塊，裁切到盤面內，不環繞。
// 角落 4 格、邊 6 格、內部 9 格；依列優先排序。
func Area(w, h, cx, cy int) []board.Cell {
	out := make([]board.Cell, 0, 9)
	for y := max(cy-Radius, 0); y <= min(cy+Radius, h-1); y++ {
		for x := max(cx-Radius, 0); x <= min(cx+Radius, w-1); x++ {
			out = append(out, board.Cell{X: x, Y: y})
		}
	}
	return out
}

// Result 一次解算的結果
type Result struct {
	Cleared    []board.Cell // 配對格與爆炸格的聯集，列優先排序
	Detonated  []board.Cell // 引爆順序
	Matched    int          // 由配對直接標記的格數
	FromBlasts int          // 只因爆炸而加入的格數
}

// Resolve 從已標記的配對格出發解開炸彈連鎖。
//
// 工作佇列以配對格中的炸彈起始 (依列優先)，每顆炸彈只引爆一次；
// 爆炸範圍併入清除集合，範圍內尚未引爆的炸彈加入佇列尾端。
func Resolve(g *board.Grid, matched []board.Cell) Result {
	w, h := g.Width(), g.Height()
	cleared := board.NewCellSet(w, h)
	visited := board.NewCellSet(w, h)

	var queue []board.Cell
	enqueue := func(c board.Cell) {
		gem, ok := g.At(c.X, c.Y)
		if !ok || !gem.Bomb {
			return
		}
		if visited.Add(c) {
			queue = append(queue, c)
		}
	}

	for _, c := range matched {
		cleared.Add(c)
	}
	res := Result{Matched: cleared.Len()}
	for _, c := range cleared.Sorted() {
		enqueue(c)
	}

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		res.Detonated = append(res.Detonated, b)
		for _, c := range Area(w, h, b.X, b.Y) {
			if cleared.Add(c) {
				res.FromBlasts++
			}
			enqueue(c)
		}
	}

	res.Cleared = cleared.Sorted()
	return res
}
