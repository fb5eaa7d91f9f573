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

import "github.com/zintix-labs/gemlab/sdk/board"

// EventKind 事件種類
type EventKind uint8

const (
	EvSwapCommitted EventKind = iota + 1
	EvSwapReverted
	EvMatchPerformed
	EvBombExploded
	EvFrostCracked
	EvGemCleared
	EvBombCreated
	EvShuffle
)

var eventNames = map[EventKind]string{
	EvSwapCommitted:  "SwapCommitted",
	EvSwapReverted:   "SwapReverted",
	EvMatchPerformed: "MatchPerformed",
	EvBombExploded:   "BombExploded",
	EvFrostCracked:   "FrostCracked",
	EvGemCleared:     "GemCleared",
	EvBombCreated:    "BombCreated",
	EvShuffle:        "Shuffle",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Event 一次移動中依序發出的事件。
//
// 欄位依種類使用：
//   - GemCleared / BombCreated: X, Y, Type
//   - MatchPerformed: Size (本輪連線格數，不含爆炸波及), FrostCleared
//   - BombExploded: X, Y
//   - FrostCracked: X, Y, Level (剩餘層數)
//   - SwapCommitted / SwapReverted: X, Y, X2, Y2
type Event struct {
	Kind         EventKind
	Iteration    int // 第幾輪連鎖，從 1 開始；交換與洗牌為 0
	X, Y         int
	X2, Y2       int
	Type         board.GemType
	Size         int
	Level        int
	FrostCleared bool
}

// Phase 呈現層可暫停的步驟邊界
type Phase uint8

const (
	PhaseSwap Phase = iota + 1
	PhaseSwapBack
	PhaseClear
	PhaseFallPrepare
	PhaseFallFinalize
	PhaseShuffle
)

var phaseNames = map[Phase]string{
	PhaseSwap:         "swap",
	PhaseSwapBack:     "swap_back",
	PhaseClear:        "clear",
	PhaseFallPrepare:  "fall_prepare",
	PhaseFallFinalize: "fall_finalize",
	PhaseShuffle:      "shuffle",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// Frame 某一步驟結束時的唯讀盤面快照
type Frame struct {
	Phase     Phase
	Iteration int
	Grid      *board.Grid
	Frost     *board.Frost
}

// Reason 交換被拒絕的原因
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonBusy        Reason = "busy"
	ReasonGameOver    Reason = "game_over"
	ReasonOutOfMoves  Reason = "out_of_moves"
	ReasonOutOfBounds Reason = "out_of_bounds"
	ReasonNotAdjacent Reason = "not_adjacent"
	ReasonEmpty       Reason = "empty"
	ReasonFrosted     Reason = "frosted"
	ReasonSameType    Reason = "same_type"
	ReasonNoMatch     Reason = "no_match"
)

// MoveResult 一次交換請求的完整結果
type MoveResult struct {
	Accepted bool
	Reason   Reason
	// MoveConsumed 是否扣了步數 (無連線且 NoMatchCostsMove 時也會扣)
	MoveConsumed bool

	Events []Event
	Frames []Frame

	Cascades     int
	Cleared      int
	ScoreGained  int64
	BombsCreated int
	Detonations  int
	FrostCracks  int
	Shuffled     bool
	// Capped 連鎖達到上限而中止
	Capped bool
}

func rejected(r Reason) MoveResult {
	return MoveResult{Reason: r}
}

// Count 某種事件的數量
func (r *MoveResult) Count(k EventKind) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}
