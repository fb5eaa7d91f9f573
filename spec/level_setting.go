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

package spec

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/cascade"
	"github.com/zintix-labs/gemlab/sdk/gen"
)

// LID 關卡 ID
type LID uint

// LevelSetting 一個關卡設定檔的內容。
//
// Fields:
//   - GemTypes: 出現的顏色名稱 (red, blue, ...)；留空代表全部 6 色
//   - GemWeights: 與 GemTypes 對應的出現權重；留空代表等權
//   - Frost: 初始冰霜位置與層數
//   - Objectives: 各色需消除數量，key 為顏色名稱
type LevelSetting struct {
	LevelName        string              `yaml:"level_name"          json:"level_name"`
	LevelID          LID                 `yaml:"level_id"            json:"level_id"`
	Columns          int                 `yaml:"columns"             json:"columns"`
	Rows             int                 `yaml:"rows"                json:"rows"`
	GemTypes         []string            `yaml:"gem_types"           json:"gem_types"`
	GemWeights       []int               `yaml:"gem_weights"         json:"gem_weights"`
	BaseValue        int64               `yaml:"base_value"          json:"base_value"`
	Moves            int                 `yaml:"moves"               json:"moves"`
	TargetScore      int64               `yaml:"target_score"        json:"target_score"`
	BombMinGroup     int                 `yaml:"bomb_min_group"      json:"bomb_min_group"`
	MaxCascades      int                 `yaml:"max_cascades"        json:"max_cascades"`
	NoMatchCostsMove bool                `yaml:"no_match_costs_move" json:"no_match_costs_move"`
	Frost            []cascade.FrostSpot `yaml:"frost"               json:"frost"`
	Objectives       map[string]int      `yaml:"objectives"          json:"objectives"`

	types      []board.GemType
	objectives map[board.GemType]int
	initFlag   bool
}

// init 解析顏色、補預設值並檢查
func (ls *LevelSetting) init() error {
	if ls.initFlag {
		return nil
	}
	ls.LevelName = strings.TrimSpace(ls.LevelName)
	if ls.Columns == 0 {
		ls.Columns = cascade.DefaultWidth
	}
	if ls.Rows == 0 {
		ls.Rows = cascade.DefaultHeight
	}
	if ls.Moves == 0 {
		ls.Moves = cascade.DefaultMoves
	}

	if len(ls.GemTypes) == 0 {
		ls.types = append([]board.GemType(nil), board.AllTypes...)
	} else {
		ls.types = make([]board.GemType, 0, len(ls.GemTypes))
		for _, name := range ls.GemTypes {
			t, ok := board.ParseGemType(name)
			if !ok {
				return errs.NewFatal(fmt.Sprintf("level: %s err:unknown gem type %q", ls.LevelName, name))
			}
			ls.types = append(ls.types, t)
		}
	}

	ls.objectives = make(map[board.GemType]int, len(ls.Objectives))
	for name, n := range ls.Objectives {
		t, ok := board.ParseGemType(name)
		if !ok {
			return errs.NewFatal(fmt.Sprintf("level: %s err:unknown objective type %q", ls.LevelName, name))
		}
		ls.objectives[t] = n
	}

	if err := ls.valid(); err != nil {
		return err
	}
	ls.initFlag = true
	return nil
}

// valid 基本檢查；引擎建立時還會再做一次規則檢查
func (ls *LevelSetting) valid() error {
	if ls.LevelName == "" {
		return errs.NewFatal("level_name required")
	}
	if ls.Columns < 3 || ls.Rows < 3 {
		return errs.NewFatal(fmt.Sprintf("level: %s err:invalid board dimensions: cols=%d rows=%d", ls.LevelName, ls.Columns, ls.Rows))
	}
	if len(ls.types) < gen.MinTypes {
		return errs.NewFatal(fmt.Sprintf("level: %s err:need at least %d gem types", ls.LevelName, gen.MinTypes))
	}
	seen := map[board.GemType]bool{}
	for _, t := range ls.types {
		if seen[t] {
			return errs.NewFatal(fmt.Sprintf("level: %s err:duplicated gem type %s", ls.LevelName, t))
		}
		seen[t] = true
	}
	if ls.GemWeights != nil {
		if len(ls.GemWeights) != len(ls.types) {
			return errs.NewFatal(fmt.Sprintf("level: %s err:%d gem weights for %d gem types", ls.LevelName, len(ls.GemWeights), len(ls.types)))
		}
		for _, w := range ls.GemWeights {
			if w <= 0 {
				return errs.NewFatal(fmt.Sprintf("level: %s err:gem weight must be > 0", ls.LevelName))
			}
		}
	}
	if ls.Moves < 0 || ls.TargetScore < 0 || ls.BaseValue < 0 {
		return errs.NewFatal(fmt.Sprintf("level: %s err:negative moves, target or base value", ls.LevelName))
	}
	for _, s := range ls.Frost {
		if s.X < 0 || s.Y < 0 || s.X >= ls.Columns || s.Y >= ls.Rows || s.Level < 0 {
			return errs.NewFatal(fmt.Sprintf("level: %s err:invalid frost spot (%d,%d) level %d", ls.LevelName, s.X, s.Y, s.Level))
		}
	}
	for t, n := range ls.objectives {
		if !seen[t] {
			return errs.NewFatal(fmt.Sprintf("level: %s err:objective on unused gem type %s", ls.LevelName, t))
		}
		if n <= 0 {
			return errs.NewFatal(fmt.Sprintf("level: %s err:objective %s must be > 0", ls.LevelName, t))
		}
	}
	return nil
}

// Types 關卡使用的顏色
func (ls *LevelSetting) Types() []board.GemType {
	return append([]board.GemType(nil), ls.types...)
}

// Weights 顏色權重；nil 代表等權
func (ls *LevelSetting) Weights() []int {
	if ls.GemWeights == nil {
		return nil
	}
	return append([]int(nil), ls.GemWeights...)
}

// Config 轉成引擎規則
func (ls *LevelSetting) Config() cascade.Config {
	obj := make(map[board.GemType]int, len(ls.objectives))
	for k, v := range ls.objectives {
		obj[k] = v
	}
	return cascade.Config{
		Width:            ls.Columns,
		Height:           ls.Rows,
		Moves:            ls.Moves,
		TargetScore:      ls.TargetScore,
		BaseValue:        ls.BaseValue,
		BombMinGroup:     ls.BombMinGroup,
		MaxCascades:      ls.MaxCascades,
		NoMatchCostsMove: ls.NoMatchCostsMove,
		Frost:            append([]cascade.FrostSpot(nil), ls.Frost...),
		Objectives:       obj,
	}
}
