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

package explode

import (
	"testing"

	"github.com/zintix-labs/gemlab/sdk/board"
)

func TestAreaSizes(t *testing.T) {
	cases := []struct {
		name   string
		x, y   int
		expect int
	}{
		{"interior", 3, 3, 9},
		{"corner", 0, 0, 4},
		{"far corner", 7, 7, 4},
		{"top edge", 3, 0, 6},
		{"left edge", 0, 4, 6},
	}
	for _, c := range cases {
		got := Area(8, 8, c.x, c.y)
		if len(got) != c.expect {
			t.Fatalf("%s: expected %d cells, got %d", c.name, c.expect, len(got))
		}
		for _, cell := range got {
			if cell.X < 0 || cell.Y < 0 || cell.X >= 8 || cell.Y >= 8 {
				t.Fatalf("%s: out of bounds cell %v", c.name, cell)
			}
		}
	}
}

func TestResolveWithoutBombs(t *testing.T) {
	g := board.MustParse(
		"RRRB",
		"GBYG",
	)
	res := Resolve(g, []board.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}})
	if len(res.Cleared) != 3 || len(res.Detonated) != 0 || res.FromBlasts != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestResolveSingleBomb(t *testing.T) {
	// 小寫為炸彈
	g := board.MustParse(
		"GBYGB",
		"RrRBY",
		"YGBYG",
	)
	res := Resolve(g, []board.Cell{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}})
	if len(res.Detonated) != 1 || res.Detonated[0] != (board.Cell{X: 1, Y: 1}) {
		t.Fatalf("expected bomb at (1,1) to detonate, got %v", res.Detonated)
	}
	// 3x3 於 (1,1) 覆蓋 x 0..2 y 0..2
	if len(res.Cleared) != 9 || res.Matched != 3 || res.FromBlasts != 6 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestResolveChain(t *testing.T) {
	g := board.MustParse(
		"GBYGBYG",
		"RrRbYGb",
		"YGbYGBY",
	)
	res := Resolve(g, []board.Cell{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}})
	want := []board.Cell{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}}
	if len(res.Detonated) != len(want) {
		t.Fatalf("expected chain of %d, got %v", len(want), res.Detonated)
	}
	for i := range want {
		if res.Detonated[i] != want[i] {
			t.Fatalf("detonation %d: got %v want %v", i, res.Detonated[i], want[i])
		}
	}
	// (6,1) 不在任何爆炸範圍內
	for _, c := range res.Cleared {
		if c == (board.Cell{X: 6, Y: 1}) {
			t.Fatalf("bomb out of reach should not be cleared")
		}
	}
	if len(res.Cleared) != 15 {
		t.Fatalf("expected 15 cleared cells, got %d", len(res.Cleared))
	}
}

func TestResolveAdjacentBombsDetonateOnce(t *testing.T) {
	g := board.MustParse(
		"rb",
		"gy",
	)
	res := Resolve(g, []board.Cell{{X: 0, Y: 0}})
	if len(res.Detonated) != 4 {
		t.Fatalf("each bomb should detonate exactly once, got %v", res.Detonated)
	}
	if len(res.Cleared) != 4 {
		t.Fatalf("expected whole board cleared, got %v", res.Cleared)
	}
}
