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

package gemlab_test

import (
	"context"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/gemlab"
	"github.com/zintix-labs/gemlab/demo"
	"github.com/zintix-labs/gemlab/dto"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/store"
)

func newLab(t *testing.T) *gemlab.Gemlab {
	t.Helper()
	lab, err := demo.NewGemlab()
	if err != nil {
		t.Fatalf("new gemlab: %v", err)
	}
	return lab
}

func TestNewRequiresDeps(t *testing.T) {
	if _, err := gemlab.New(nil, gemlab.Configs(demo.Levels())); err == nil {
		t.Fatalf("nil prng factory should fail")
	}
	if _, err := gemlab.New(core.Default(), nil); err == nil {
		t.Fatalf("missing configs should fail")
	}
	lab, err := gemlab.New(core.Default(), gemlab.Configs(demo.Levels()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := lab.Level("classic", 0); err == nil {
		t.Fatalf("level lookup before freeze should fail")
	}
}

func TestRegisterAllMixedCaseName(t *testing.T) {
	cfg := fstest.MapFS{
		"garden.yaml": {Data: []byte("level_name: Frozen Garden\nlevel_id: 7\ncolumns: 8\nrows: 8\n" +
			"gem_types: [red, blue, green, yellow, purple, orange]\nmoves: 20\n")},
	}
	lab, err := gemlab.NewAuto(core.Default(), gemlab.Configs(cfg))
	if err != nil {
		t.Fatalf("new auto: %v", err)
	}
	for _, name := range []string{"Frozen Garden", "frozen garden", "FROZEN GARDEN"} {
		ls, err := lab.Level(name, 0)
		if err != nil {
			t.Fatalf("level %q: %v", name, err)
		}
		if ls.LevelID != 7 {
			t.Fatalf("level %q resolved to id %d", name, ls.LevelID)
		}
	}
	if e, ok := lab.EntryByID(7); !ok || e.Name != "frozen garden" {
		t.Fatalf("entry name should be stored lowercase, got %+v", e)
	}
}

func TestLevels(t *testing.T) {
	lab := newLab(t)
	ls, err := lab.Levels()
	if err != nil {
		t.Fatalf("levels: %v", err)
	}
	if len(ls) != 3 {
		t.Fatalf("want 3 demo levels, got %d", len(ls))
	}
	for i := 1; i < len(ls); i++ {
		if ls[i-1].LID >= ls[i].LID {
			t.Fatalf("levels not sorted by id: %+v", ls)
		}
	}

	first, err := lab.Level("", 0)
	if err != nil || first.LevelID != ls[0].LID {
		t.Fatalf("default level: %v %v", first, err)
	}
	byID, err := lab.Level("", ls[1].LID)
	if err != nil || byID.LevelName != ls[1].Name {
		t.Fatalf("level by id: %v %v", byID, err)
	}
	if _, err := lab.Level("missing", 0); !errs.IsNotFound(err) {
		t.Fatalf("unknown level should be not found, got %v", err)
	}
}

func TestNewEngineDeterministic(t *testing.T) {
	lab := newLab(t)
	ls, err := lab.Level("classic", 0)
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	a, err := lab.NewEngine(ls, 7)
	if err != nil {
		t.Fatalf("engine a: %v", err)
	}
	b, err := lab.NewEngine(ls, 7)
	if err != nil {
		t.Fatalf("engine b: %v", err)
	}
	if !a.Grid().Equal(b.Grid()) {
		t.Fatalf("same seed should produce the same board")
	}
	if a.MovesRemaining() != ls.Moves || a.Score() != 0 {
		t.Fatalf("fresh engine: moves=%d score=%d", a.MovesRemaining(), a.Score())
	}
}

func TestRestoreEngine(t *testing.T) {
	lab := newLab(t)
	ls, _ := lab.Level("classic", 0)
	src, err := lab.NewEngine(ls, 11)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	blob, err := dto.FromEngine(ls.LevelName, src).EncodeBlob()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dst, err := lab.RestoreEngine(ls, blob, 99)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(src.Grid().Rows(), dst.Grid().Rows()) {
		t.Fatalf("restored board differs")
	}
	if dst.MovesRemaining() != src.MovesRemaining() {
		t.Fatalf("moves: %d vs %d", dst.MovesRemaining(), src.MovesRemaining())
	}

	sums, _ := lab.Levels()
	other, err := lab.Level(sums[1].Name, 0)
	if err != nil {
		t.Fatalf("second level: %v", err)
	}
	if _, err := lab.RestoreEngine(other, blob, 1); errs.Level(err) != errs.Warn {
		t.Fatalf("save from another level should be a warn, got %v", err)
	}
	if _, err := lab.RestoreEngine(ls, []byte("junk"), 1); err == nil {
		t.Fatalf("junk blob should fail")
	}
}

func TestRuntimeSessionFlow(t *testing.T) {
	lab := newLab(t)
	st := store.NewMemStore()
	rt, err := lab.BuildRuntime(gemlab.WithStore(st), gemlab.WithMaxSessions(2))
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	defer rt.Close()
	ctx := context.Background()

	seed := int64(5)
	s, err := rt.Create(ctx, gemlab.CreateParams{Level: "classic", Seed: &seed})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, err := rt.Get(s.ID); err != nil || got != s {
		t.Fatalf("get: %v", err)
	}
	if _, err := rt.Get("nope"); !errs.IsNotFound(err) {
		t.Fatalf("unknown session should be not found, got %v", err)
	}

	res, err := rt.Swap(ctx, s.ID, 0, 0, board.West)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if res.Accepted || st.Len() != 0 {
		t.Fatalf("rejected swap should not save: accepted=%v saves=%d", res.Accepted, st.Len())
	}

	blob, err := rt.Save(ctx, s.ID)
	if err != nil || len(blob) == 0 || st.Len() != 1 {
		t.Fatalf("save: %v len=%d", err, st.Len())
	}
	fresh, err := rt.Load(ctx, s.ID, nil)
	if err != nil || fresh {
		t.Fatalf("load from store: fresh=%v err=%v", fresh, err)
	}
	fresh, err = rt.Load(ctx, s.ID, []byte("garbage"))
	if err != nil || !fresh {
		t.Fatalf("garbage save should start fresh: fresh=%v err=%v", fresh, err)
	}

	if _, err := rt.Create(ctx, gemlab.CreateParams{}); err != nil {
		t.Fatalf("second session: %v", err)
	}
	if _, err := rt.Create(ctx, gemlab.CreateParams{}); errs.Level(err) != errs.Warn {
		t.Fatalf("session limit should be a warn, got %v", err)
	}

	if err := rt.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Load(ctx, s.ID); !errs.IsNotFound(err) {
		t.Fatalf("delete should drop the save, got %v", err)
	}
	fresh, err = rt.Load(ctx, s.ID, nil)
	if !errs.IsNotFound(err) {
		t.Fatalf("load on deleted session should be not found: fresh=%v err=%v", fresh, err)
	}

	rt.Close()
	if !rt.Closed() || rt.ClosedReason() != "closed" {
		t.Fatalf("close: %v %q", rt.Closed(), rt.ClosedReason())
	}
	if _, err := rt.Create(ctx, gemlab.CreateParams{}); err == nil {
		t.Fatalf("closed runtime should reject create")
	}
}

func TestSimDeterministicAcrossWorkers(t *testing.T) {
	lab := newLab(t)
	ls, _ := lab.Level("classic", 0)

	run := func(workers int) (int, int, float64, float64) {
		s, err := lab.NewSimulator(ls, "greedy", 2025)
		if err != nil {
			t.Fatalf("simulator: %v", err)
		}
		rep, _, err := s.Sim(12, workers, false)
		if err != nil {
			t.Fatalf("sim: %v", err)
		}
		if rep.Summary.Games != 12 {
			t.Fatalf("games: %d", rep.Summary.Games)
		}
		return rep.Summary.Wins, rep.Summary.Swaps, rep.Score.Min, rep.Score.Max
	}
	w1, s1, min1, max1 := run(1)
	w3, s3, min3, max3 := run(3)
	if w1 != w3 || s1 != s3 || min1 != min3 || max1 != max3 {
		t.Fatalf("sim differs by worker count: (%d %d %v %v) vs (%d %d %v %v)", w1, s1, min1, max1, w3, s3, min3, max3)
	}
	if s1 == 0 {
		t.Fatalf("greedy bot made no swaps")
	}
}

func TestSimRejectsBadArgs(t *testing.T) {
	lab := newLab(t)
	ls, _ := lab.Level("classic", 0)
	if _, err := lab.NewSimulator(ls, "nobody", 1); err == nil {
		t.Fatalf("unknown bot should fail")
	}
	s, err := lab.NewSimulator(ls, "random", 1)
	if err != nil {
		t.Fatalf("simulator: %v", err)
	}
	if _, _, err := s.Sim(0, 1, false); err == nil {
		t.Fatalf("zero games should fail")
	}
	if _, _, err := s.Sim(1, 0, false); err == nil {
		t.Fatalf("zero workers should fail")
	}
}
