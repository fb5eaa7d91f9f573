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

package board

import (
	"cmp"
	"slices"
	"strings"
)

// Cell 盤面座標，(0,0) 為左上，y 向下遞增
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction 交換方向
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

var directionNames = []string{"NORTH", "SOUTH", "EAST", "WEST"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "UNKNOWN"
}

// ParseDirection 接受完整名稱或 N/S/E/W、UP/DOWN/RIGHT/LEFT
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORTH", "N", "UP":
		return North, true
	case "SOUTH", "S", "DOWN":
		return South, true
	case "EAST", "E", "RIGHT":
		return East, true
	case "WEST", "W", "LEFT":
		return West, true
	}
	return North, false
}

// Step 沿方向移動一格 (不做邊界檢查)
func (c Cell) Step(d Direction) Cell {
	switch d {
	case North:
		c.Y--
	case South:
		c.Y++
	case East:
		c.X++
	case West:
		c.X--
	}
	return c
}

// Adjacent 兩格是否上下左右相鄰
func Adjacent(a, b Cell) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy == 1
}

// CompareCell 列優先順序：先比 y (上方優先) 再比 x (左方優先)
func CompareCell(a, b Cell) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

// SortCells 就地依列優先排序
func SortCells(cells []Cell) {
	slices.SortFunc(cells, CompareCell)
}

// CellSet 以盤面大小的 bitmap 記錄格子集合，保留加入順序
type CellSet struct {
	w, h  int
	mark  []bool
	cells []Cell
}

func NewCellSet(w, h int) *CellSet {
	return &CellSet{w: w, h: h, mark: make([]bool, w*h), cells: make([]Cell, 0, w*h)}
}

// Add 加入格子，回傳是否為新加入；越界格子忽略
func (s *CellSet) Add(c Cell) bool {
	if c.X < 0 || c.X >= s.w || c.Y < 0 || c.Y >= s.h {
		return false
	}
	i := c.Y*s.w + c.X
	if s.mark[i] {
		return false
	}
	s.mark[i] = true
	s.cells = append(s.cells, c)
	return true
}

func (s *CellSet) Has(c Cell) bool {
	if c.X < 0 || c.X >= s.w || c.Y < 0 || c.Y >= s.h {
		return false
	}
	return s.mark[c.Y*s.w+c.X]
}

func (s *CellSet) Len() int { return len(s.cells) }

// Sorted 依列優先順序
func (s *CellSet) Sorted() []Cell {
	out := slices.Clone(s.cells)
	SortCells(out)
	return out
}
