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

// Frost 冰霜覆蓋層：每格一個非負等級，0 代表無冰霜。
// 冰霜綁定在格子上，與寶石的交換/掉落無關。
type Frost struct {
	w, h   int
	levels []int
}

func NewFrost(w, h int) *Frost {
	w, h = max(1, w), max(1, h)
	return &Frost{w: w, h: h, levels: make([]int, w*h)}
}

// FrostFromLevels 由列優先攤平的等級建立；長度不符或含負值時 ok 為 false
func FrostFromLevels(w, h int, levels []int) (*Frost, bool) {
	if w < 1 || h < 1 || len(levels) != w*h {
		return nil, false
	}
	f := NewFrost(w, h)
	for i, l := range levels {
		if l < 0 {
			return nil, false
		}
		f.levels[i] = l
	}
	return f, true
}

func (f *Frost) Width() int  { return f.w }
func (f *Frost) Height() int { return f.h }

func (f *Frost) inBounds(x, y int) bool {
	return x >= 0 && x < f.w && y >= 0 && y < f.h
}

// Level 越界回傳 0
func (f *Frost) Level(x, y int) int {
	if !f.inBounds(x, y) {
		return 0
	}
	return f.levels[y*f.w+x]
}

// Set 負值以 0 計；越界忽略
func (f *Frost) Set(x, y, level int) {
	if !f.inBounds(x, y) {
		return
	}
	f.levels[y*f.w+x] = max(0, level)
}

func (f *Frost) Frosted(x, y int) bool {
	return f.Level(x, y) > 0
}

// Crack 消除事件觸及此格時降一級；回傳是否真的有冰霜被打裂
func (f *Frost) Crack(x, y int) bool {
	if !f.inBounds(x, y) {
		return false
	}
	i := y*f.w + x
	if f.levels[i] == 0 {
		return false
	}
	f.levels[i]--
	return true
}

// Total 全盤冰霜等級總和
func (f *Frost) Total() int {
	n := 0
	for _, l := range f.levels {
		n += l
	}
	return n
}

// Levels 列優先攤平 (拷貝)
func (f *Frost) Levels() []int {
	out := make([]int, len(f.levels))
	copy(out, f.levels)
	return out
}

func (f *Frost) Clone() *Frost {
	return &Frost{w: f.w, h: f.h, levels: f.Levels()}
}

// Movable 可交換的格子：在盤面內且無冰霜
func (f *Frost) Movable(c Cell) bool {
	return f.inBounds(c.X, c.Y) && f.levels[c.Y*f.w+c.X] == 0
}
