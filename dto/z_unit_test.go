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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/cascade"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/sdk/gen"
)

func newEngine(t *testing.T, seed int64) *cascade.Engine {
	t.Helper()
	gn, err := gen.New(core.NewSeeded(seed), board.AllTypes, nil)
	if err != nil {
		t.Fatalf("gen: %v", err)
	}
	cfg := cascade.DefaultConfig()
	cfg.Frost = []cascade.FrostSpot{{X: 1, Y: 2, Level: 2}}
	cfg.Objectives = map[board.GemType]int{board.Red: 10}
	e, err := cascade.New(cfg, gn)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func sameTypes(a, b *board.Grid) bool {
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			ga, _ := a.At(x, y)
			gb, _ := b.At(x, y)
			if ga.Type != gb.Type || ga.Bomb != gb.Bomb {
				return false
			}
		}
	}
	return true
}

func TestSnapshotBlobRoundTrip(t *testing.T) {
	src := newEngine(t, 1)
	snap := FromEngine("classic", src)
	if len(snap.Gems) != 64 || len(snap.Frost) != 64 || snap.Objectives["red"] != 10 {
		t.Fatalf("unexpected snapshot %v", snap)
	}
	blob, err := snap.EncodeBlob()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeBlob(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	dst := newEngine(t, 2)
	if err := got.Apply(dst, board.AllTypes); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !sameTypes(src.Grid(), dst.Grid()) {
		t.Fatalf("restored grid differs")
	}
	if dst.FrostLevelAt(1, 2) != 2 || dst.Score() != src.Score() || dst.MovesRemaining() != src.MovesRemaining() {
		t.Fatalf("restored state differs")
	}
	if dst.Objectives()[board.Red] != 10 {
		t.Fatalf("objectives not restored")
	}
}

func TestRestoreRejectsMalformed(t *testing.T) {
	e := newEngine(t, 3)
	base := FromEngine("classic", e)
	cfg := e.Config()

	mutate := map[string]func(s *Snapshot){
		"size":      func(s *Snapshot) { s.Width = 7 },
		"few gems":  func(s *Snapshot) { s.Gems = s.Gems[:10] },
		"dup cell":  func(s *Snapshot) { s.Gems[1].X, s.Gems[1].Y = 0, 0 },
		"out":       func(s *Snapshot) { s.Gems[0].X = 99 },
		"bad type":  func(s *Snapshot) { s.Gems[0].Type = "pink" },
		"frost len": func(s *Snapshot) { s.Frost = s.Frost[:3] },
		"frost neg": func(s *Snapshot) { s.Frost[0] = -1 },
		"moves":     func(s *Snapshot) { s.MovesRemaining = -1 },
		"objective": func(s *Snapshot) { s.Objectives = map[string]int{"teal": 1} },
		"match": func(s *Snapshot) {
			for i := 0; i < 3; i++ {
				s.Gems[i].Type = "red"
			}
		},
	}
	for name, fn := range mutate {
		s := base
		s.Gems = append([]GemRecord(nil), base.Gems...)
		s.Frost = append([]int(nil), base.Frost...)
		fn(&s)
		if _, err := s.Restore(cfg, board.AllTypes); err == nil || errs.Level(err) != errs.Warn {
			t.Fatalf("%s: expected warn error, got %v", name, err)
		}
	}

	if _, err := base.Restore(cfg, board.AllTypes[:3]); err == nil {
		t.Fatalf("types outside the level should be rejected")
	}
	if _, err := DecodeBlob([]byte("garbage")); err == nil {
		t.Fatalf("garbage blob should fail")
	}
}

func TestDecodeSwapRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/games/x/swap", strings.NewReader(`{"x":1,"y":2,"dir":"up"}`))
	req, err := DecodeSwapRequest(r)
	if err != nil || req.X != 1 || req.Y != 2 || req.Direction != board.North {
		t.Fatalf("decode: %v %+v", err, req)
	}
	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"x":1,"y":2,"dir":"up","z":3}`))
	if _, err := DecodeSwapRequest(r); err == nil {
		t.Fatalf("unknown field should be rejected")
	}
	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"x":1,"y":2,"dir":"sideways"}`))
	if _, err := DecodeSwapRequest(r); errs.Level(err) != errs.Warn {
		t.Fatalf("bad dir should be warn, got %v", err)
	}
}

func TestDecodeNewGameRequestEmptyBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/games", nil)
	req, err := DecodeNewGameRequest(r)
	if err != nil || req.Level != "" || req.Seed != nil {
		t.Fatalf("empty body should decode to zero value: %v", err)
	}
}

func TestNewMoveDTO(t *testing.T) {
	res := cascade.MoveResult{
		Accepted: true,
		Events: []cascade.Event{
			{Kind: cascade.EvSwapCommitted, X: 0, Y: 0, X2: 1, Y2: 0},
			{Kind: cascade.EvMatchPerformed, Iteration: 1, Size: 3, FrostCleared: true},
			{Kind: cascade.EvGemCleared, Iteration: 1, X: 2, Y: 0, Type: board.Green},
		},
	}
	d := NewMoveDTO(res, false)
	if len(d.Events) != 3 || d.Events[0].Kind != "SwapCommitted" || *d.Events[0].X2 != 1 {
		t.Fatalf("unexpected events %+v", d.Events)
	}
	if d.Events[1].Size != 3 || !d.Events[1].FrostCleared || d.Events[1].X != nil {
		t.Fatalf("unexpected match event %+v", d.Events[1])
	}
	if d.Events[2].Type != "green" || *d.Events[2].X != 2 {
		t.Fatalf("unexpected cleared event %+v", d.Events[2])
	}
}

func typeKey(gems []GemRecord) string {
	var sb strings.Builder
	for _, g := range gems {
		sb.WriteString(g.Type)
		sb.WriteByte(',')
	}
	return sb.String()
}

func TestFromEngineIsConsistentUnderConcurrentLoad(t *testing.T) {
	e := newEngine(t, 1)
	a, b := newEngine(t, 1).Grid(), newEngine(t, 2).Grid()
	frost := board.NewFrost(8, 8)
	keyA := typeKey(FromState("x", cascade.State{Grid: a, Frost: frost}).Gems)
	keyB := typeKey(FromState("x", cascade.State{Grid: b, Frost: frost}).Gems)
	if keyA == keyB {
		t.Fatalf("test boards must differ")
	}
	if err := e.Load(a, frost, 0, 10, nil); err != nil {
		t.Fatalf("load: %v", err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				_ = e.Load(a, frost, 0, 10, nil)
			} else {
				_ = e.Load(b, frost, 999, 3, nil)
			}
		}
	}()
	for range 2000 {
		s := FromEngine("classic", e)
		switch typeKey(s.Gems) {
		case keyA:
			if s.Score != 0 || s.MovesRemaining != 10 {
				close(stop)
				<-done
				t.Fatalf("torn snapshot: board A with score=%d moves=%d", s.Score, s.MovesRemaining)
			}
		case keyB:
			if s.Score != 999 || s.MovesRemaining != 3 {
				close(stop)
				<-done
				t.Fatalf("torn snapshot: board B with score=%d moves=%d", s.Score, s.MovesRemaining)
			}
		}
	}
	close(stop)
	<-done
}
