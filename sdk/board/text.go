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
	"strings"

	"github.com/zintix-labs/gemlab/errs"
)

// Parse 由文字盤面建立 Grid。每列一個字串，字元：
//
//	R B G Y P O  顏色 (小寫代表炸彈)
//	.            空位
//
// 所有列長度必須一致。主要用於測試與除錯工具。
func Parse(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, errs.NewWarn("parse grid: no rows")
	}
	w := len(rows[0])
	g := NewGrid(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, errs.Warnf("parse grid: row %d has width %d, want %d", y, len(row), w)
		}
		for x, ch := range row {
			if ch == '.' {
				continue
			}
			t, ok := typeByShort(string(ch))
			if !ok {
				return nil, errs.Warnf("parse grid: unknown gem %q at (%d,%d)", ch, x, y)
			}
			bomb := strings.ToLower(string(ch)) == string(ch)
			g.Set(x, y, g.NewGem(t, x, y, bomb))
		}
	}
	return g, nil
}

// MustParse 同 Parse，格式錯誤時 panic；只給測試用
func MustParse(rows ...string) *Grid {
	g, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return g
}

func typeByShort(s string) (GemType, bool) {
	s = strings.ToUpper(s)
	for _, t := range AllTypes {
		if t.Short() == s {
			return t, true
		}
	}
	return None, false
}

// String 以 Parse 的格式輸出
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			gem := g.cells[g.idx(x, y)]
			s := gem.Type.Short()
			if gem.Bomb {
				s = strings.ToLower(s)
			}
			sb.WriteString(s)
		}
		if y < g.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
