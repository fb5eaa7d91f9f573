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

package sampler

import (
	"math"
	"testing"

	"github.com/zintix-labs/gemlab/sdk/core"
)

func TestAliasTable_Distribution(t *testing.T) {
	at, err := BuildAliasTable([]int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c := core.NewSeeded(1234)
	const draws = 200000
	counts := make([]int, 4)
	for i := 0; i < draws; i++ {
		counts[at.Pick(c)]++
	}
	for i, w := range []float64{0.1, 0.2, 0.3, 0.4} {
		got := float64(counts[i]) / draws
		if math.Abs(got-w) > 0.01 {
			t.Fatalf("index %d: got %.4f want %.2f", i, got, w)
		}
	}
}

func TestAliasTable_ZeroWeightNeverPicked(t *testing.T) {
	at, err := BuildAliasTable([]int{0, 5, 0, 5})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c := core.NewSeeded(7)
	for i := 0; i < 10000; i++ {
		if v := at.Pick(c); v == 0 || v == 2 {
			t.Fatalf("zero-weight index %d picked", v)
		}
	}
}

func TestAliasTable_Invalid(t *testing.T) {
	cases := map[string][]int{
		"empty":    nil,
		"negative": {1, -1},
		"zero":     {0, 0},
		"overflow": {math.MaxInt, 1},
	}
	for name, w := range cases {
		if _, err := BuildAliasTable(w); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestUniform(t *testing.T) {
	at := Uniform(6)
	c := core.NewSeeded(5)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		seen[at.Pick(c)] = true
	}
	if len(seen) != 6 {
		t.Fatalf("expected all 6 indexes, saw %d", len(seen))
	}
	var nilTable *AliasTable
	if nilTable.Pick(c) != -1 {
		t.Fatalf("nil table should pick -1")
	}
}
