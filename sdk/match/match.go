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

// Package match 負責盤面的連線偵測：直線連線、同色連通群組、交換合法性與死局判斷。
//
// 所有函式只讀取傳入的 Grid；IsSwapValid 的試探交換會在同一次呼叫內還原。
package match

import "github.com/zintix-labs/gemlab/sdk/board"

// MinRun 構成連線的最少同色數
const MinRun = 3

// Group 一次掃描中找到的同色連通群組 (size >= 3)
type Group struct {
	Type  board.GemType
	Cells []board.Cell // 列優先排序：Cells[0] 為最上、最左
}

func (gr Group) Size() int { return len(gr.Cells) }

// Contains 群組是否包含該格
func (gr Group) Contains(c board.Cell) bool {
	for _, v := range gr.Cells {
		if v == c {
			return true
		}
	}
	return false
}

// FindAll 掃描每一列與每一行，長度 >= 3 的同色連線全部標記。
// 回傳聯集 (同時屬於橫向與縱向連線的格子只出現一次)，依列優先排序。
func FindAll(g *board.Grid) []board.Cell {
	return findAllSet(g).Sorted()
}

func findAllSet(g *board.Grid) *board.CellSet {
	w, h := g.Width(), g.Height()
	set := board.NewCellSet(w, h)

	// 橫向
	for y := 0; y < h; y++ {
		x := 0
		for x < w {
			t := g.TypeAt(x, y)
			if t == board.None {
				x++
				continue
			}
			count := 1
			for x+count < w && g.TypeAt(x+count, y) == t {
				count++
			}
			if count >= MinRun {
				for i := 0; i < count; i++ {
					set.Add(board.Cell{X: x + i, Y: y})
				}
			}
			x += count
		}
	}
	// 縱向
	for x := 0; x < w; x++ {
		y := 0
		for y < h {
			t := g.TypeAt(x, y)
			if t == board.None {
				y++
				continue
			}
			count := 1
			for y+count < h && g.TypeAt(x, y+count) == t {
				count++
			}
			if count >= MinRun {
				for i := 0; i < count; i++ {
					set.Add(board.Cell{X: x, Y: y + i})
				}
			}
			y += count
		}
	}
	return set
}

// FindGroups 先找出所有連線格子，再在這些格子內以 4 連通做同色 BFS。
// T 形、L 形、十字由同一次交換產生時會是同一個群組。
// 群組順序依各群組最上、最左格子的列優先順序。
func FindGroups(g *board.Grid) []Group {
	matched := findAllSet(g)
	if matched.Len() == 0 {
		return nil
	}
	w, h := g.Width(), g.Height()
	visited := board.NewCellSet(w, h)
	groups := make([]Group, 0, 4)

	// BFS 佇列重用
	q := make([]board.Cell, 0, matched.Len())

	for _, start := range matched.Sorted() {
		if visited.Has(start) {
			continue
		}
		t := g.TypeAt(start.X, start.Y)
		q = q[:0]
		q = append(q, start)
		visited.Add(start)
		cells := make([]board.Cell, 0, 8)

		for head := 0; head < len(q); head++ {
			curr := q[head]
			cells = append(cells, curr)
			for _, next := range neighbors(curr) {
				if !matched.Has(next) || visited.Has(next) {
					continue
				}
				if g.TypeAt(next.X, next.Y) != t {
					continue
				}
				visited.Add(next)
				q = append(q, next)
			}
		}
		board.SortCells(cells)
		groups = append(groups, Group{Type: t, Cells: cells})
	}
	return groups
}

func neighbors(c board.Cell) [4]board.Cell {
	return [4]board.Cell{
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
	}
}

// HasMatchAt 只檢查經過 (x,y) 的橫向與縱向連線，O(1)
func HasMatchAt(g *board.Grid, x, y int) bool {
	t := g.TypeAt(x, y)
	if t == board.None {
		return false
	}

	horizontal := 1
	for ix := x - 1; ix >= 0 && g.TypeAt(ix, y) == t; ix-- {
		horizontal++
	}
	for ix := x + 1; ix < g.Width() && g.TypeAt(ix, y) == t; ix++ {
		horizontal++
	}
	if horizontal >= MinRun {
		return true
	}

	vertical := 1
	for iy := y - 1; iy >= 0 && g.TypeAt(x, iy) == t; iy-- {
		vertical++
	}
	for iy := y + 1; iy < g.Height() && g.TypeAt(x, iy) == t; iy++ {
		vertical++
	}
	return vertical >= MinRun
}

// HasAnyMatch 盤面上是否存在任何連線
func HasAnyMatch(g *board.Grid) bool {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if HasMatchAt(g, x, y) {
				return true
			}
		}
	}
	return false
}
