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

package match

import "github.com/zintix-labs/gemlab/sdk/board"

// MovableFn 判斷格子能否參與交換 (例如無冰霜)；nil 代表全部可動
type MovableFn func(board.Cell) bool

// IsSwapValid 試探交換 a、b 後是否在任一端形成連線。
//
// 兩格必須在盤面內、相鄰、都有寶石且顏色不同。試探交換使用 SwapRaw，
// 不論結果如何都在回傳前換回，盤面逐位元組不變。
func IsSwapValid(g *board.Grid, a, b board.Cell) bool {
	if !board.Adjacent(a, b) {
		return false
	}
	ga, okA := g.At(a.X, a.Y)
	gb, okB := g.At(b.X, b.Y)
	if !okA || !okB || ga.Type == gb.Type {
		return false
	}

	g.SwapRaw(a, b)
	ok := HasMatchAt(g, a.X, a.Y) || HasMatchAt(g, b.X, b.Y)
	g.SwapRaw(a, b)

	return ok
}

// Move 一組可形成連線的交換
type Move struct {
	A board.Cell
	B board.Cell
}

// PossibleMoves 列出所有合法交換 (每對相鄰格只檢查一次：右鄰與下鄰)
func PossibleMoves(g *board.Grid, movable MovableFn) []Move {
	var out []Move
	forEachPair(g, movable, func(a, b board.Cell) bool {
		if IsSwapValid(g, a, b) {
			out = append(out, Move{A: a, B: b})
		}
		return true
	})
	return out
}

// HasPossibleMoves 是否至少存在一個合法交換
func HasPossibleMoves(g *board.Grid, movable MovableFn) bool {
	found := false
	forEachPair(g, movable, func(a, b board.Cell) bool {
		if IsSwapValid(g, a, b) {
			found = true
			return false
		}
		return true
	})
	return found
}

// HasMovablePair 是否存在一對相鄰且都可動的格子 (不看顏色)
func HasMovablePair(g *board.Grid, movable MovableFn) bool {
	found := false
	forEachPair(g, movable, func(a, b board.Cell) bool {
		found = true
		return false
	})
	return found
}

// forEachPair fn 回傳 false 時提早結束
func forEachPair(g *board.Grid, movable MovableFn, fn func(a, b board.Cell) bool) {
	can := func(c board.Cell) bool { return movable == nil || movable(c) }
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			a := board.Cell{X: x, Y: y}
			if !can(a) {
				continue
			}
			if x+1 < g.Width() {
				if b := (board.Cell{X: x + 1, Y: y}); can(b) && !fn(a, b) {
					return
				}
			}
			if y+1 < g.Height() {
				if b := (board.Cell{X: x, Y: y + 1}); can(b) && !fn(a, b) {
					return
				}
			}
		}
	}
}

// Anchor 決定群組生成炸彈的位置：
// 觸發這次消除的交換格若屬於群組則取之 (依傳入順序)，否則取群組最上、最左的格子。
func Anchor(gr Group, touched ...board.Cell) board.Cell {
	for _, c := range touched {
		if gr.Contains(c) {
			return c
		}
	}
	return gr.Cells[0]
}
