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

package dto

import (
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/cascade"
)

// GemDTO 對外輸出的一顆寶石
type GemDTO struct {
	ID   uint64 `json:"id"`
	Type string `json:"type"`
	Bomb bool   `json:"bomb,omitempty"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// StateDTO 一局目前的唯讀狀態
type StateDTO struct {
	GameID         string         `json:"game_id"`
	Level          string         `json:"level"`
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	Rows           [][]GemDTO     `json:"rows"`
	Frost          [][]int        `json:"frost"`
	Score          int64          `json:"score"`
	TargetScore    int64          `json:"target_score"`
	MovesRemaining int            `json:"moves_remaining"`
	Objectives     map[string]int `json:"objectives,omitempty"`
	Resolving      bool           `json:"resolving"`
	Won            bool           `json:"won"`
	Over           bool           `json:"over"`
}

func gemRows(g *board.Grid) [][]GemDTO {
	rows := make([][]GemDTO, g.Height())
	for y := range rows {
		rows[y] = make([]GemDTO, g.Width())
		for x := range rows[y] {
			gem, _ := g.At(x, y)
			rows[y][x] = GemDTO{ID: uint64(gem.ID), Type: typeName(gem.Type), Bomb: gem.Bomb, X: gem.X, Y: gem.Y}
		}
	}
	return rows
}

func frostRows(f *board.Frost) [][]int {
	rows := make([][]int, f.Height())
	for y := range rows {
		rows[y] = make([]int, f.Width())
		for x := range rows[y] {
			rows[y][x] = f.Level(x, y)
		}
	}
	return rows
}

// NewStateDTO 擷取引擎狀態；盤面、分數與步數來自同一時間點
func NewStateDTO(gameID, level string, e *cascade.Engine) StateDTO {
	resolving := e.IsResolving()
	st := e.State()
	return StateDTO{
		GameID:         gameID,
		Level:          level,
		Width:          st.Grid.Width(),
		Height:         st.Grid.Height(),
		Rows:           gemRows(st.Grid),
		Frost:          frostRows(st.Frost),
		Score:          st.Score,
		TargetScore:    e.Config().TargetScore,
		MovesRemaining: st.MovesRemaining,
		Objectives:     objectiveNames(st.Objectives),
		Resolving:      resolving,
		Won:            st.Won,
		Over:           st.Over,
	}
}

// EventDTO 對外輸出的事件；只帶該種類用到的欄位
type EventDTO struct {
	Kind         string `json:"kind"`
	Iteration    int    `json:"iter,omitempty"`
	X            *int   `json:"x,omitempty"`
	Y            *int   `json:"y,omitempty"`
	X2           *int   `json:"x2,omitempty"`
	Y2           *int   `json:"y2,omitempty"`
	Type         string `json:"type,omitempty"`
	Size         int    `json:"size,omitempty"`
	Level        *int   `json:"level,omitempty"`
	FrostCleared bool   `json:"frost_cleared,omitempty"`
}

func intp(v int) *int { return &v }

func newEventDTO(ev cascade.Event) EventDTO {
	d := EventDTO{Kind: ev.Kind.String(), Iteration: ev.Iteration}
	switch ev.Kind {
	case cascade.EvSwapCommitted, cascade.EvSwapReverted:
		d.X, d.Y, d.X2, d.Y2 = intp(ev.X), intp(ev.Y), intp(ev.X2), intp(ev.Y2)
	case cascade.EvGemCleared, cascade.EvBombCreated:
		d.X, d.Y = intp(ev.X), intp(ev.Y)
		d.Type = typeName(ev.Type)
	case cascade.EvBombExploded:
		d.X, d.Y = intp(ev.X), intp(ev.Y)
	case cascade.EvFrostCracked:
		d.X, d.Y, d.Level = intp(ev.X), intp(ev.Y), intp(ev.Level)
	case cascade.EvMatchPerformed:
		d.Size = ev.Size
		d.FrostCleared = ev.FrostCleared
	}
	return d
}

// FrameDTO 步驟快照
type FrameDTO struct {
	Phase     string     `json:"phase"`
	Iteration int        `json:"iter"`
	Rows      [][]GemDTO `json:"rows"`
	Frost     [][]int    `json:"frost"`
}

// MoveDTO 一次交換請求的結果
type MoveDTO struct {
	Accepted     bool       `json:"accepted"`
	Reason       string     `json:"reason,omitempty"`
	MoveConsumed bool       `json:"move_consumed"`
	Cascades     int        `json:"cascades"`
	Cleared      int        `json:"cleared"`
	ScoreGained  int64      `json:"score_gained"`
	BombsCreated int        `json:"bombs_created,omitempty"`
	Detonations  int        `json:"detonations,omitempty"`
	FrostCracks  int        `json:"frost_cracks,omitempty"`
	Shuffled     bool       `json:"shuffled,omitempty"`
	Events       []EventDTO `json:"events"`
	Frames       []FrameDTO `json:"frames,omitempty"`
	State        *StateDTO  `json:"state,omitempty"`
}

// NewMoveDTO 轉換結果；withFrames 為 false 時不輸出快照
func NewMoveDTO(res cascade.MoveResult, withFrames bool) MoveDTO {
	d := MoveDTO{
		Accepted:     res.Accepted,
		Reason:       string(res.Reason),
		MoveConsumed: res.MoveConsumed,
		Cascades:     res.Cascades,
		Cleared:      res.Cleared,
		ScoreGained:  res.ScoreGained,
		BombsCreated: res.BombsCreated,
		Detonations:  res.Detonations,
		FrostCracks:  res.FrostCracks,
		Shuffled:     res.Shuffled,
		Events:       make([]EventDTO, len(res.Events)),
	}
	for i, ev := range res.Events {
		d.Events[i] = newEventDTO(ev)
	}
	if withFrames && len(res.Frames) > 0 {
		d.Frames = make([]FrameDTO, len(res.Frames))
		for i, fr := range res.Frames {
			d.Frames[i] = FrameDTO{
				Phase:     fr.Phase.String(),
				Iteration: fr.Iteration,
				Rows:      gemRows(fr.Grid),
				Frost:     frostRows(fr.Frost),
			}
		}
	}
	return d
}
