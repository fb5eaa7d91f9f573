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

package ops

import "github.com/zintix-labs/gemlab/sdk/board"

// Fall 一次重力準備的結果
type Fall struct {
	Holes   []int       // 每一行補入的新寶石數
	Spawned []board.Gem // 新寶石 (行優先，每行由下往上)
}

// PrepareFall 重力第一階段：壓縮後在每行頂端補入新寶石。
//
// 新寶石的 Y 為負值，代表從盤面上方落下：最靠下的空格為 -1，往上依序 -2、-3。
// 既有寶石保留掉落前的 Y；呼叫端可用前後差值驅動動畫。
func PrepareFall(g *board.Grid, pick TypePicker) Fall {
	holes := Compact(g)
	fall := Fall{Holes: holes}
	for x, n := range holes {
		// 自最靠下的空格往上補
		for k := 0; k < n; k++ {
			y := n - 1 - k
			gem := g.NewGem(pick(), x, -(k + 1), false)
			g.Set(x, y, gem)
			fall.Spawned = append(fall.Spawned, gem)
		}
	}
	return fall
}
