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

import "strings"

// GemType 寶石顏色。0 保留為空位 (None)，與盤面 0 代表空格的慣例一致。
type GemType uint8

const (
	None GemType = iota
	Red
	Blue
	Green
	Yellow
	Purple
	Orange
)

// AllTypes 參考配置使用的 6 種顏色
var AllTypes = []GemType{Red, Blue, Green, Yellow, Purple, Orange}

var gemTypeNames = map[GemType]string{
	None:   "NONE",
	Red:    "RED",
	Blue:   "BLUE",
	Green:  "GREEN",
	Yellow: "YELLOW",
	Purple: "PURPLE",
	Orange: "ORANGE",
}

func (t GemType) String() string {
	if s, ok := gemTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Short 單字元代號 (文字盤面用)
func (t GemType) Short() string {
	if t == None {
		return "."
	}
	return t.String()[:1]
}

// ParseGemType 解析顏色名稱，大小寫不敏感；None 不可被解析
func ParseGemType(s string) (GemType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for t, name := range gemTypeNames {
		if t != None && name == s {
			return t, true
		}
	}
	return None, false
}

// GemID 寶石在整局中的穩定識別碼，0 代表空位
type GemID uint64

// Gem 不可變的寶石值。
//
// X, Y 是描述性座標：布局時等於所在格子；掉落準備階段 (PrepareFall) 仍保留掉落前的值，
// 讓外部可用新舊座標差做動畫。真正的位置以 Grid 的格子為準。
type Gem struct {
	ID   GemID   `json:"id"`
	Type GemType `json:"type"`
	Bomb bool    `json:"bomb"`
	X    int     `json:"x"`
	Y    int     `json:"y"`
}

// Empty 是否為空位
func (g Gem) Empty() bool { return g.ID == 0 }

// MovedTo 回傳同一顆寶石 (同 ID) 在新座標的值
func (g Gem) MovedTo(x, y int) Gem {
	g.X, g.Y = x, y
	return g
}
