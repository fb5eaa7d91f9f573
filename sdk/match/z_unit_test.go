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

package match

import (
	"testing"

	"github.com/zintix-labs/gemlab/sdk/board"
)

// diagonal 以 (x + 2y) % 6 排列 6 種顏色，保證沒有任何連線
func diagonal(w, h int) *board.Grid {
	g := board.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := board.AllTypes[(x+2*y)%len(board.AllTypes)]
			g.Set(x, y, g.NewGem(t, x, y, false))
		}
	}
	return g
}

func TestFindAllRowAndColumn(t *testing.T) {
	g := board.MustParse(
		"RRRB....",
		"........",
		".....G..",
		".....G..",
		".....G..",
		".....G..",
		"........",
		"........",
	)
	got := FindAll(g)
	want := []board.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 5, Y: 2}, {X: 5, Y: 3}, {X: 5, Y: 4}, {X: 5, Y: 5}}
	if len(got) != len(want) {
		t.Fatalf("expected %d cells, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestFindAllCrossCountsOnce(t *testing.T) {
	g := board.MustParse(
		".R.",
		"RRR",
		".R.",
	)
	if got := FindAll(g); len(got) != 5 {
		t.Fatalf("cross should yield 5 unique cells, got %v", got)
	}
}

func TestFindGroupsSingleRunOfFour(t *testing.T) {
	g := board.MustParse(
		"RRRR....",
		"........",
	)
	groups := FindGroups(g)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	if groups[0].Size() != 4 || groups[0].Type != board.Red {
		t.Fatalf("unexpected group %+v", groups[0])
	}
}

func TestFindGroupsTShapeIsOneGroup(t *testing.T) {
	g := board.MustParse(
		"GGG.",
		".G..",
		".G..",
		"....",
	)
	groups := FindGroups(g)
	if len(groups) != 1 || groups[0].Size() != 5 {
		t.Fatalf("T shape should be one group of 5, got %+v", groups)
	}
}

func TestFindGroupsSeparatesTypesAndIslands(t *testing.T) {
	g := board.MustParse(
		"RRRBBB",
		"......",
		"YYY...",
	)
	groups := FindGroups(g)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Type != board.Red || groups[1].Type != board.Blue || groups[2].Type != board.Yellow {
		t.Fatalf("unexpected group order: %v %v %v", groups[0].Type, groups[1].Type, groups[2].Type)
	}
}

func TestFindGroupsIgnoresUnmatchedNeighbours(t *testing.T) {
	// (0,1) 與群組相鄰同色，但本身不在任何連線上
	g := board.MustParse(
		"RRR",
		"R..",
	)
	groups := FindGroups(g)
	if len(groups) != 1 || groups[0].Size() != 3 {
		t.Fatalf("expected group of 3, got %+v", groups)
	}
}

func TestHasAnyMatch(t *testing.T) {
	if HasAnyMatch(diagonal(8, 8)) {
		t.Fatalf("diagonal pattern should have no match")
	}
	g := board.NewGrid(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			g.Set(x, y, g.NewGem(board.Red, x, y, false))
		}
	}
	if !HasAnyMatch(g) {
		t.Fatalf("all red should match")
	}
}

func TestHasPossibleMoves(t *testing.T) {
	g := diagonal(8, 8)
	// (0,0)=T0 (1,0)=T1 (2,0)=T0 (3,0)=T0：交換 (0,0)/(1,0) 形成 T0 連線
	t0, t1 := board.AllTypes[0], board.AllTypes[1]
	g.Place(0, 0, g.NewGem(t0, 0, 0, false))
	g.Place(1, 0, g.NewGem(t1, 1, 0, false))
	g.Place(2, 0, g.NewGem(t0, 2, 0, false))
	g.Place(3, 0, g.NewGem(t0, 3, 0, false))
	if HasAnyMatch(g) {
		t.Fatalf("setup should not match yet")
	}
	if !HasPossibleMoves(g, nil) {
		t.Fatalf("expected a possible move")
	}
	moves := PossibleMoves(g, nil)
	found := false
	for _, m := range moves {
		if m.A == (board.Cell{X: 0, Y: 0}) && m.B == (board.Cell{X: 1, Y: 0}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected (0,0)<->(1,0) in %v", moves)
	}
	// 把兩端都凍住後就沒有這步
	frozen := func(c board.Cell) bool { return c.Y != 0 }
	for _, m := range PossibleMoves(g, frozen) {
		if m.A.Y == 0 || m.B.Y == 0 {
			t.Fatalf("move through frozen row returned: %v", m)
		}
	}
}

func TestIsSwapValidLeavesGridUntouched(t *testing.T) {
	g := board.MustParse(
		"RBRR",
		"GYGY",
	)
	before := g.Clone()

	if !IsSwapValid(g, board.Cell{X: 0, Y: 0}, board.Cell{X: 1, Y: 0}) {
		t.Fatalf("expected valid swap")
	}
	if !g.Equal(before) {
		t.Fatalf("grid changed after valid swap check")
	}

	if IsSwapValid(g, board.Cell{X: 0, Y: 1}, board.Cell{X: 1, Y: 1}) {
		t.Fatalf("expected invalid swap")
	}
	if !g.Equal(before) {
		t.Fatalf("grid changed after invalid swap check")
	}

	// 不相鄰、越界、同色
	if IsSwapValid(g, board.Cell{X: 0, Y: 0}, board.Cell{X: 2, Y: 0}) {
		t.Fatalf("non-adjacent swap should be invalid")
	}
	if IsSwapValid(g, board.Cell{X: 3, Y: 0}, board.Cell{X: 4, Y: 0}) {
		t.Fatalf("out-of-range swap should be invalid")
	}
	if IsSwapValid(g, board.Cell{X: 2, Y: 0}, board.Cell{X: 3, Y: 0}) {
		t.Fatalf("same-type swap should be invalid")
	}
	if !g.Equal(before) {
		t.Fatalf("grid changed after rejected swap checks")
	}
}

func TestAnchor(t *testing.T) {
	gr := Group{Type: board.Red, Cells: []board.Cell{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 2}}}
	if got := Anchor(gr, board.Cell{X: 3, Y: 2}, board.Cell{X: 3, Y: 1}); got != (board.Cell{X: 3, Y: 2}) {
		t.Fatalf("swap cell in group should anchor, got %v", got)
	}
	if got := Anchor(gr, board.Cell{X: 0, Y: 0}); got != (board.Cell{X: 1, Y: 2}) {
		t.Fatalf("fallback should be topmost-leftmost, got %v", got)
	}
	if got := Anchor(gr); got != (board.Cell{X: 1, Y: 2}) {
		t.Fatalf("no touched cells should use fallback, got %v", got)
	}
}

func TestHasMovablePair(t *testing.T) {
	g := board.MustParse("RB", "GY")
	if !HasMovablePair(g, nil) {
		t.Fatalf("expected movable pair")
	}
	onlyCorner := func(c board.Cell) bool { return c == (board.Cell{X: 0, Y: 0}) || c == (board.Cell{X: 1, Y: 1}) }
	if HasMovablePair(g, onlyCorner) {
		t.Fatalf("diagonal cells are not a pair")
	}
}
