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

package bot

import (
	"testing"

	"github.com/zintix-labs/gemlab/sdk/board"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/sdk/match"
)

func TestNew(t *testing.T) {
	c := core.NewSeeded(1)
	for _, name := range []string{"greedy", "Random", ""} {
		if _, err := New(name, c); err != nil {
			t.Fatalf("%q: %v", name, err)
		}
	}
	if _, err := New("oracle", c); err == nil {
		t.Fatalf("expected unknown bot error")
	}
}

func TestGreedyPrefersLargerClear(t *testing.T) {
	// (5,2)/(6,2)：成三；(2,0)/(2,1)：成四
	g := board.MustParse(
		"RRBRGYO",
		"YORGBPG",
		"BGYPPOP",
	)
	if match.HasAnyMatch(g) {
		t.Fatalf("setup has a match:\n%s", g)
	}
	m, ok := Greedy{}.Choose(g, nil)
	if !ok {
		t.Fatalf("expected a move")
	}
	a, b := m.A, m.B
	if a != (board.Cell{X: 2, Y: 0}) || b != (board.Cell{X: 2, Y: 1}) {
		t.Fatalf("greedy picked %v-%v", a, b)
	}
}

func TestRandomChoosesLegalMove(t *testing.T) {
	g := board.MustParse(
		"RRBRGYO",
		"YORGBPG",
		"BGYPPOP",
	)
	before := g.Clone()
	r, _ := New("random", core.NewSeeded(3))
	for i := 0; i < 20; i++ {
		m, ok := r.Choose(g, nil)
		if !ok || !match.IsSwapValid(g, m.A, m.B) {
			t.Fatalf("illegal move %v", m)
		}
	}
	if !g.Equal(before) {
		t.Fatalf("bot mutated the grid")
	}
}

func TestNoMoves(t *testing.T) {
	g := board.MustParse(
		"RBGYPO",
		"GYPORB",
		"PORBGY",
		"RBGYPO",
	)
	if _, ok := (Greedy{}).Choose(g, board.NewFrost(6, 4)); ok {
		t.Fatalf("deadlocked board should return false")
	}
}
