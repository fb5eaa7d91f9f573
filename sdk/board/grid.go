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

// Package board 定義盤面資料：寶石、格子、Grid 與冰霜覆蓋層 (Frost)。
//
// Grid 以列優先 (row-major) 的一維切片存放，idx = y*W + x。
// 所有存取都做邊界檢查：越界讀取回傳空位，越界寫入直接忽略。
package board

// Grid 固定大小的寶石盤面
type Grid struct {
	w, h   int
	cells  []Gem
	nextID GemID
}

// NewGrid 建立空盤面；寬高小於 1 時以 1 計
func NewGrid(w, h int) *Grid {
	w, h = max(1, w), max(1, h)
	return &Grid{w: w, h: h, cells: make([]Gem, w*h), nextID: 1}
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }
func (g *Grid) Size() int   { return g.w * g.h }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (g *Grid) idx(x, y int) int { return y*g.w + x }

// At 取得格子上的寶石；越界或空位時 ok 為 false
func (g *Grid) At(x, y int) (Gem, bool) {
	if !g.InBounds(x, y) {
		return Gem{}, false
	}
	gem := g.cells[g.idx(x, y)]
	return gem, !gem.Empty()
}

// TypeAt 取得顏色；越界或空位回傳 None
func (g *Grid) TypeAt(x, y int) GemType {
	if !g.InBounds(x, y) {
		return None
	}
	return g.cells[g.idx(x, y)].Type
}

// NewGem 配發下一個穩定 ID 並建立寶石 (不放入盤面)
func (g *Grid) NewGem(t GemType, x, y int, bomb bool) Gem {
	id := g.nextID
	g.nextID++
	return Gem{ID: id, Type: t, Bomb: bomb, X: x, Y: y}
}

// Set 原樣寫入 (不改寫寶石座標)；越界忽略
func (g *Grid) Set(x, y int, gem Gem) {
	if !g.InBounds(x, y) {
		return
	}
	if gem.ID >= g.nextID {
		g.nextID = gem.ID + 1
	}
	g.cells[g.idx(x, y)] = gem
}

// Place 寫入並把寶石座標對齊到格子
func (g *Grid) Place(x, y int, gem Gem) {
	g.Set(x, y, gem.MovedTo(x, y))
}

// Remove 清空格子，回傳被移除的寶石
func (g *Grid) Remove(x, y int) (Gem, bool) {
	if !g.InBounds(x, y) {
		return Gem{}, false
	}
	i := g.idx(x, y)
	gem := g.cells[i]
	g.cells[i] = Gem{}
	return gem, !gem.Empty()
}

// Swap 交換兩格寶石並更新座標，ID 不變；任一越界則不動作
func (g *Grid) Swap(a, b Cell) {
	if !g.InBounds(a.X, a.Y) || !g.InBounds(b.X, b.Y) {
		return
	}
	ia, ib := g.idx(a.X, a.Y), g.idx(b.X, b.Y)
	ga, gb := g.cells[ia], g.cells[ib]
	if !gb.Empty() {
		gb = gb.MovedTo(a.X, a.Y)
	}
	if !ga.Empty() {
		ga = ga.MovedTo(b.X, b.Y)
	}
	g.cells[ia], g.cells[ib] = gb, ga
}

// SwapRaw 只交換格子內容、不改寫座標。
// 專供試探性交換使用：同一組參數再呼叫一次即可還原到逐位元組相同的狀態。
func (g *Grid) SwapRaw(a, b Cell) {
	if !g.InBounds(a.X, a.Y) || !g.InBounds(b.X, b.Y) {
		return
	}
	ia, ib := g.idx(a.X, a.Y), g.idx(b.X, b.Y)
	g.cells[ia], g.cells[ib] = g.cells[ib], g.cells[ia]
}

// Count 非空格子數
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if !c.Empty() {
			n++
		}
	}
	return n
}

// Full 是否每格都有寶石
func (g *Grid) Full() bool {
	return g.Count() == g.Size()
}

// Gems 依列優先順序回傳所有非空寶石
func (g *Grid) Gems() []Gem {
	out := make([]Gem, 0, len(g.cells))
	for _, c := range g.cells {
		if !c.Empty() {
			out = append(out, c)
		}
	}
	return out
}

// Clone 深拷貝 (含 ID 配發狀態)
func (g *Grid) Clone() *Grid {
	out := &Grid{w: g.w, h: g.h, cells: make([]Gem, len(g.cells)), nextID: g.nextID}
	copy(out.cells, g.cells)
	return out
}

// Equal 盤面內容 (含 ID 與座標) 是否完全相同
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.w != o.w || g.h != o.h {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows 以 [y][x] 形式回傳顏色，供 DTO 與文字輸出使用
func (g *Grid) Rows() [][]GemType {
	out := make([][]GemType, g.h)
	for y := 0; y < g.h; y++ {
		row := make([]GemType, g.w)
		for x := 0; x < g.w; x++ {
			row[x] = g.cells[g.idx(x, y)].Type
		}
		out[y] = row
	}
	return out
}
