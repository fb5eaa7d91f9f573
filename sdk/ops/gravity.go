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

// Package ops 盤面原地操作：清除、重力壓縮、補盤。
package ops

import "github.com/zintix-labs/gemlab/sdk/board"

// TypePicker 補盤時產生新寶石顏色
type TypePicker func() board.GemType

// Compact 每一行把既有寶石往底部壓縮 (保持相對順序與 ID)，頂端留空。
//
// 搬移的寶石保留舊的 Y 值，直到 FinalizeFall 才校正。
// 回傳每一行頂端空格數。
func Compact(g *board.Grid) []int {
	w, h := g.Width(), g.Height()
	holes := make([]int, w)
	for x := 0; x < w; x++ {
		wp := h - 1 // 寫入位置，從底開始

		// 自底向上掃描
		for y := h - 1; y >= 0; y-- {
			gem, ok := g.At(x, y)
			if !ok {
				continue
			}
			if y != wp {
				g.Set(x, wp, gem)
				g.Remove(x, y)
			}
			wp--
		}
		holes[x] = wp + 1
	}
	return holes
}

// FinalizeFall 把每顆寶石的座標校正為所在格子。下一次配對掃描前必須呼叫。
func FinalizeFall(g *board.Grid) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if gem, ok := g.At(x, y); ok && (gem.X != x || gem.Y != y) {
				g.Place(x, y, gem)
			}
		}
	}
}
