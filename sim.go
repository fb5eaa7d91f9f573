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

package gemlab

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/recorder"
	"github.com/zintix-labs/gemlab/sdk/bot"
	"github.com/zintix-labs/gemlab/sdk/cascade"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/spec"
	"github.com/zintix-labs/gemlab/stats"
)

// botSalt 讓 bot 的亂數序列與盤面的序列分開
const botSalt uint64 = 0x9E3779B97F4A7C15

// Simulator 以 bot 跑完整局並統計。
//
// 每一局的 seed 依局序由 seedMaker 預先產生，因此同一個初始 seed 無論 worker 數量多少
// 都得到相同的報表。
type Simulator struct {
	Level    string
	LevelID  spec.LID
	Bot      string
	ls       *spec.LevelSetting
	lab      *Gemlab
	initSeed int64
}

// NewSimulator 建立模擬器；botName 為 greedy 或 random
func (g *Gemlab) NewSimulator(ls *spec.LevelSetting, botName string, seed int64) (*Simulator, error) {
	if !g.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if ls == nil {
		return nil, errs.NewFatal("level setting is nil")
	}
	b, err := bot.New(botName, core.NewSeeded(seed))
	if err != nil {
		return nil, err
	}
	return &Simulator{
		Level:    ls.LevelName,
		LevelID:  ls.LevelID,
		Bot:      b.Name(),
		ls:       ls,
		lab:      g,
		initSeed: seed,
	}, nil
}

// Sim 以 workers 個 goroutine 跑 games 局，回傳統計結果與用時
func (s *Simulator) Sim(games int, workers int, showpb bool) (*stats.Report, time.Duration, error) {
	if games < 1 {
		return nil, 0, errs.NewWarn("games must > 0")
	}
	if workers < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	workers = min(workers, games)

	sm := newSeedMaker(s.initSeed)
	seeds := make([]int64, games)
	for i := range seeds {
		seeds[i] = sm.next()
	}

	recs := make([]*recorder.GameRecorder, workers)
	for i := range recs {
		r, err := recorder.NewGameRecorder(s.ls, s.Bot)
		if err != nil {
			return nil, 0, err
		}
		recs[i] = r
	}

	jobs := make(chan int64, min(games, 2048))
	errCh := make(chan error, workers)
	wg := new(sync.WaitGroup)
	wg.Add(workers)

	bar := pb.New(games)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	for w := range workers {
		go func(r *recorder.GameRecorder) {
			defer wg.Done()
			for seed := range jobs {
				if err := s.play(seed, r); err != nil {
					errCh <- err
					// 排空剩下的工作讓送件端不會阻塞
					for range jobs {
					}
					return
				}
				bar.Increment()
			}
		}(recs[w])
	}
	for _, seed := range seeds {
		jobs <- seed
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	select {
	case err := <-errCh:
		return nil, used, err
	default:
	}

	merged, err := recorder.MergeGameRecorder(recs)
	if err != nil {
		return nil, used, err
	}
	return merged.Done(), used, nil
}

// play 跑一局到結束。bot 找不到可行交換時先洗牌，洗牌失敗才以 stuck 結束
func (s *Simulator) play(seed int64, r *recorder.GameRecorder) error {
	e, err := s.lab.NewEngine(s.ls, seed, cascade.WithFrames(false))
	if err != nil {
		return err
	}
	b, err := bot.New(s.Bot, core.NewSeeded(int64(mix63(uint64(seed)^botSalt))))
	if err != nil {
		return err
	}

	moves := e.MovesRemaining()
	limit := 2*moves + 16
	stuck := false
	for step := 0; !e.Over(); step++ {
		if step >= limit {
			stuck = true
			break
		}
		mv, ok := b.Choose(e.Grid(), e.Frost())
		if !ok {
			res := e.RecoverDeadlock()
			r.RecordMove(res)
			if !res.Shuffled {
				stuck = true
				break
			}
			continue
		}
		r.RecordMove(e.Swap(mv.A, mv.B))
	}
	r.RecordGame(recorder.GameOutcome{
		Score:     e.Score(),
		MovesUsed: moves - e.MovesRemaining(),
		Won:       e.Won(),
		Stuck:     stuck,
	})
	return nil
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 走全週期 LCG (不重複)，再用可逆 mix63 打散。可被多個 goroutine 同時呼叫
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的 bit 操作與乘奇數 (mod 2^63)
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
