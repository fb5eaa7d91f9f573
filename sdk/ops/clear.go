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

// Clear 移除標記位置的寶石，回傳被移除者 (依傳入順序，空格略過)
func Clear(g *board.Grid, cells []board.Cell) []board.Gem {
	out := make([]board.Gem, 0, len(cells))
	for _, c := range cells {
		if gem, ok := g.Remove(c.X, c.Y); ok {
			out = append(out, gem)
		}
	}
	return out
}
