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

package recorder

import (
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/cascade"
	"github.com/zintix-labs/gemlab/spec"
	"github.com/zintix-labs/gemlab/stats"
)

// GameRecorder 模擬紀錄員
//
// 紀錄時只累積 int 與原始樣本，Done 時一次計算統計報表
type GameRecorder struct {
	Level       string
	LevelID     spec.LID
	Bot         string
	Moves       int
	TargetScore int64
	Basic       *BasicRecord
	Dist        *DistRecord

	scores    []float64
	movesUsed []float64
}

// BasicRecord 基本計數
type BasicRecord struct {
	Games       int
	Wins        int
	Stuck       int
	Swaps       int
	Reverted    int
	Cascades    int
	MaxDepth    int
	Cleared     int
	Bombs       int
	Detonations int
	FrostCracks int
	Shuffles    int
	Capped      int
}

// DistRecord 分桶計數
type DistRecord struct {
	Depth []int
	Ratio []int
}

// GameOutcome 一局結束時的結果
type GameOutcome struct {
	Score     int64
	MovesUsed int
	Won       bool
	Stuck     bool
}

func NewGameRecorder(ls *spec.LevelSetting, bot string) (*GameRecorder, error) {
	if ls == nil {
		return nil, errs.NewFatal("recorder: level setting is nil")
	}
	return &GameRecorder{
		Level:       ls.LevelName,
		LevelID:     ls.LevelID,
		Bot:         bot,
		Moves:       ls.Moves,
		TargetScore: ls.TargetScore,
		Basic:       new(BasicRecord),
		Dist: &DistRecord{
			Depth: make([]int, stats.Buckets.Depth.Len()),
			Ratio: make([]int, stats.Buckets.Ratio.Len()),
		},
	}, nil
}

// RecordMove 紀錄一次交換或洗牌的結果
func (r *GameRecorder) RecordMove(res cascade.MoveResult) {
	b := r.Basic
	if res.Shuffled {
		b.Shuffles++
	}
	if !res.Accepted {
		if res.Reason == cascade.ReasonNoMatch {
			b.Reverted++
		}
		return
	}
	b.Swaps++
	b.Cascades += res.Cascades
	b.MaxDepth = max(b.MaxDepth, res.Cascades)
	b.Cleared += res.Cleared
	b.Bombs += res.BombsCreated
	b.Detonations += res.Detonations
	b.FrostCracks += res.FrostCracks
	if res.Capped {
		b.Capped++
	}
	r.Dist.Depth[stats.Buckets.Depth.Index(res.Cascades)]++
}

// RecordGame 紀錄一局的最終結果
func (r *GameRecorder) RecordGame(o GameOutcome) {
	b := r.Basic
	b.Games++
	if o.Won {
		b.Wins++
	}
	if o.Stuck {
		b.Stuck++
	}
	r.scores = append(r.scores, float64(o.Score))
	r.movesUsed = append(r.movesUsed, float64(o.MovesUsed))
	if r.TargetScore > 0 {
		pct := int(o.Score * 100 / r.TargetScore)
		r.Dist.Ratio[stats.Buckets.Ratio.Index(pct)]++
	}
}

// MergeGameRecorder 合併多個 worker 的紀錄；關卡與 bot 必須相同
func MergeGameRecorder(rs []*GameRecorder) (*GameRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge game record err : empty input")
	}
	r0 := rs[0]
	m := &GameRecorder{
		Level:       r0.Level,
		LevelID:     r0.LevelID,
		Bot:         r0.Bot,
		Moves:       r0.Moves,
		TargetScore: r0.TargetScore,
		Basic:       new(BasicRecord),
		Dist: &DistRecord{
			Depth: make([]int, len(r0.Dist.Depth)),
			Ratio: make([]int, len(r0.Dist.Ratio)),
		},
	}
	for _, v := range rs {
		if v.LevelID != r0.LevelID || v.Level != r0.Level {
			return nil, errs.NewFatal("merge game record err : different level")
		}
		if v.Bot != r0.Bot {
			return nil, errs.NewFatal("merge game record err : different bot")
		}
		a, b := m.Basic, v.Basic
		a.Games += b.Games
		a.Wins += b.Wins
		a.Stuck += b.Stuck
		a.Swaps += b.Swaps
		a.Reverted += b.Reverted
		a.Cascades += b.Cascades
		a.MaxDepth = max(a.MaxDepth, b.MaxDepth)
		a.Cleared += b.Cleared
		a.Bombs += b.Bombs
		a.Detonations += b.Detonations
		a.FrostCracks += b.FrostCracks
		a.Shuffles += b.Shuffles
		a.Capped += b.Capped
		for i := range v.Dist.Depth {
			m.Dist.Depth[i] += v.Dist.Depth[i]
		}
		for i := range v.Dist.Ratio {
			m.Dist.Ratio[i] += v.Dist.Ratio[i]
		}
		m.scores = append(m.scores, v.scores...)
		m.movesUsed = append(m.movesUsed, v.movesUsed...)
	}
	return m, nil
}

// Done 產生統計報表 (已呼叫 Report.Done)
func (r *GameRecorder) Done() *stats.Report {
	b := r.Basic
	report := &stats.Report{
		Summary: &stats.SummaryReport{
			Level:       r.Level,
			LevelID:     r.LevelID,
			Bot:         r.Bot,
			Games:       b.Games,
			Moves:       r.Moves,
			TargetScore: r.TargetScore,
			Wins:        b.Wins,
			Swaps:       b.Swaps,
			Reverted:    b.Reverted,
			Cascades:    b.Cascades,
			MaxDepth:    b.MaxDepth,
			Cleared:     b.Cleared,
			Bombs:       b.Bombs,
			Detonations: b.Detonations,
			FrostCracks: b.FrostCracks,
			Shuffles:    b.Shuffles,
			Capped:      b.Capped,
			Stuck:       b.Stuck,
		},
		Score:     stats.NewMetric(r.scores),
		MovesUsed: stats.NewMetric(r.movesUsed),
		Depth:     stats.NewDist(stats.Buckets.Depth),
	}
	copy(report.Depth.Collect, r.Dist.Depth)
	if r.TargetScore > 0 {
		report.Ratio = stats.NewDist(stats.Buckets.Ratio)
		copy(report.Ratio.Collect, r.Dist.Ratio)
	}
	report.Done()
	return report
}
