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

// Package dto 引擎狀態的持久化格式與對外輸出結構。
package dto

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/gemlab/corefmt"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/cascade"
	"github.com/zintix-labs/gemlab/sdk/match"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GemRecord 扁平化的一格寶石
type GemRecord struct {
	Type string `json:"type"`
	Bomb bool   `json:"bomb"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Snapshot 引擎的完整持久化狀態：只靠這些欄位即可重建盤面與冰霜
type Snapshot struct {
	Level          string         `json:"level"`
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	Gems           []GemRecord    `json:"gems"`  // 列優先
	Frost          []int          `json:"frost"` // 列優先，長度 = width*height
	Score          int64          `json:"score"`
	MovesRemaining int            `json:"moves_remaining"`
	Objectives     map[string]int `json:"objectives,omitempty"`
}

// FromEngine 擷取目前狀態；所有欄位來自同一時間點
func FromEngine(level string, e *cascade.Engine) Snapshot {
	return FromState(level, e.State())
}

func FromState(level string, st cascade.State) Snapshot {
	g := st.Grid
	s := Snapshot{
		Level:          level,
		Width:          g.Width(),
		Height:         g.Height(),
		Gems:           make([]GemRecord, 0, g.Size()),
		Frost:          st.Frost.Levels(),
		Score:          st.Score,
		MovesRemaining: st.MovesRemaining,
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			gem, _ := g.At(x, y)
			s.Gems = append(s.Gems, GemRecord{Type: typeName(gem.Type), Bomb: gem.Bomb, X: x, Y: y})
		}
	}
	s.Objectives = objectiveNames(st.Objectives)
	return s
}

func objectiveNames(obj cascade.Objectives) map[string]int {
	if len(obj) == 0 {
		return nil
	}
	out := make(map[string]int, len(obj))
	for t, n := range obj {
		out[typeName(t)] = n
	}
	return out
}

func typeName(t board.GemType) string { return strings.ToLower(t.String()) }

// Restored 驗證後的重建結果
type Restored struct {
	Grid       *board.Grid
	Frost      *board.Frost
	Score      int64
	Moves      int
	Objectives cascade.Objectives
}

// Restore 驗證並重建盤面。types 為關卡允許的顏色；任何不一致都回傳 errs.Warn
func (s Snapshot) Restore(cfg cascade.Config, types []board.GemType) (Restored, error) {
	w, h := s.Width, s.Height
	if w != cfg.Width || h != cfg.Height {
		return Restored{}, errs.Warnf("snapshot: size %dx%d does not match level %dx%d", w, h, cfg.Width, cfg.Height)
	}
	if len(s.Gems) != w*h {
		return Restored{}, errs.Warnf("snapshot: %d gems for %d cells", len(s.Gems), w*h)
	}
	allowed := make(map[board.GemType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	g := board.NewGrid(w, h)
	for _, r := range s.Gems {
		if !g.InBounds(r.X, r.Y) {
			return Restored{}, errs.Warnf("snapshot: gem at (%d,%d) out of bounds", r.X, r.Y)
		}
		if _, dup := g.At(r.X, r.Y); dup {
			return Restored{}, errs.Warnf("snapshot: cell (%d,%d) listed twice", r.X, r.Y)
		}
		t, ok := board.ParseGemType(r.Type)
		if !ok || !allowed[t] {
			return Restored{}, errs.Warnf("snapshot: gem type %q not used by level", r.Type)
		}
		g.Set(r.X, r.Y, g.NewGem(t, r.X, r.Y, r.Bomb))
	}
	if match.HasAnyMatch(g) {
		return Restored{}, errs.NewWarn("snapshot: board has an unresolved match")
	}

	var f *board.Frost
	if len(s.Frost) == 0 {
		f = board.NewFrost(w, h)
	} else {
		for _, lv := range s.Frost {
			if lv < 0 {
				return Restored{}, errs.NewWarn("snapshot: negative frost level")
			}
		}
		var ok bool
		if f, ok = board.FrostFromLevels(w, h, s.Frost); !ok {
			return Restored{}, errs.Warnf("snapshot: %d frost levels for %d cells", len(s.Frost), w*h)
		}
	}

	if s.Score < 0 || s.MovesRemaining < 0 {
		return Restored{}, errs.NewWarn("snapshot: negative score or moves")
	}
	obj := cascade.Objectives{}
	for name, n := range s.Objectives {
		t, ok := board.ParseGemType(name)
		if !ok || n < 0 {
			return Restored{}, errs.Warnf("snapshot: invalid objective %s=%d", name, n)
		}
		obj[t] = n
	}
	return Restored{Grid: g, Frost: f, Score: s.Score, Moves: s.MovesRemaining, Objectives: obj}, nil
}

// Apply 驗證後載入引擎
func (s Snapshot) Apply(e *cascade.Engine, types []board.GemType) error {
	r, err := s.Restore(e.Config(), types)
	if err != nil {
		return err
	}
	return e.Load(r.Grid, r.Frost, r.Score, r.Moves, r.Objectives)
}

// Encode JSON 格式
func (s Snapshot) Encode() ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, errs.Wrap(err, "snapshot: marshal failed")
	}
	return b, nil
}

// DecodeSnapshot 解析 JSON；格式錯誤回傳 errs.Warn
func DecodeSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, errs.WrapWarn(err, "snapshot: unmarshal failed")
	}
	return s, nil
}

// EncodeBlob JSON 之後以 zstd 壓縮並加框 (存入 store 用)
func (s Snapshot) EncodeBlob() ([]byte, error) {
	raw, err := s.Encode()
	if err != nil {
		return nil, err
	}
	return corefmt.EncodeBlob(raw), nil
}

// DecodeBlob EncodeBlob 的反向
func DecodeBlob(blob []byte) (Snapshot, error) {
	raw, err := corefmt.DecodeBlob(blob)
	if err != nil {
		return Snapshot{}, err
	}
	return DecodeSnapshot(raw)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("snapshot(%s %dx%d score=%d moves=%d)", s.Level, s.Width, s.Height, s.Score, s.MovesRemaining)
}
