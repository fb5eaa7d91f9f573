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

package cascade

import (
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
)

const (
	DefaultWidth        = 8
	DefaultHeight       = 8
	DefaultMoves        = 30
	DefaultBaseValue    = 50
	DefaultTargetScore  = 1000
	DefaultBombMinGroup = 4
	DefaultMaxCascades  = 1000
)

// FrostSpot 一格初始冰霜
type FrostSpot struct {
	X     int `yaml:"x" json:"x"`
	Y     int `yaml:"y" json:"y"`
	Level int `yaml:"level" json:"level"`
}

// Config 單一關卡的引擎規則
type Config struct {
	Width  int
	Height int

	Moves       int   // 初始步數
	TargetScore int64 // 0 代表不以分數判定過關
	BaseValue   int64 // 每顆寶石的基礎分

	BombMinGroup int // 群組達此大小生成炸彈
	MaxCascades  int // 單步連鎖上限

	// NoMatchCostsMove 交換後無連線 (被換回) 是否仍扣步數
	NoMatchCostsMove bool

	Frost      []FrostSpot
	Objectives map[board.GemType]int // 各色需消除數量
}

// DefaultConfig 8x8、30 步、目標 1000 分
func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Moves:        DefaultMoves,
		TargetScore:  DefaultTargetScore,
		BaseValue:    DefaultBaseValue,
		BombMinGroup: DefaultBombMinGroup,
		MaxCascades:  DefaultMaxCascades,
	}
}

// normalize 補上零值預設並檢查範圍
func (c *Config) normalize() error {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Moves == 0 {
		c.Moves = DefaultMoves
	}
	if c.BaseValue == 0 {
		c.BaseValue = DefaultBaseValue
	}
	if c.BombMinGroup == 0 {
		c.BombMinGroup = DefaultBombMinGroup
	}
	if c.MaxCascades == 0 {
		c.MaxCascades = DefaultMaxCascades
	}
	if c.Width < 3 || c.Height < 3 {
		return errs.Warnf("cascade: board %dx%d too small", c.Width, c.Height)
	}
	if c.Moves < 0 || c.BaseValue < 0 || c.TargetScore < 0 {
		return errs.NewWarn("cascade: moves, base value and target score must be >= 0")
	}
	if c.BombMinGroup < 3 {
		return errs.Warnf("cascade: bomb_min_group %d must be >= 3", c.BombMinGroup)
	}
	if c.MaxCascades < 1 {
		return errs.Warnf("cascade: max_cascades %d must be >= 1", c.MaxCascades)
	}
	for _, s := range c.Frost {
		if s.X < 0 || s.Y < 0 || s.X >= c.Width || s.Y >= c.Height {
			return errs.Warnf("cascade: frost spot (%d,%d) out of bounds", s.X, s.Y)
		}
		if s.Level < 0 {
			return errs.Warnf("cascade: frost spot (%d,%d) level %d < 0", s.X, s.Y, s.Level)
		}
	}
	for t, n := range c.Objectives {
		if t == board.None || n < 0 {
			return errs.Warnf("cascade: invalid objective %v=%d", t, n)
		}
	}
	return nil
}

// newFrost 依設定建立冰霜層
func (c *Config) newFrost() *board.Frost {
	f := board.NewFrost(c.Width, c.Height)
	for _, s := range c.Frost {
		f.Set(s.X, s.Y, s.Level)
	}
	return f
}
