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

// Budget 外部持有的步數預算
type Budget interface {
	Remaining() int
	// Consume 扣一步；已用盡時回傳 false
	Consume() bool
	Reset(n int)
}

// Counter 預設的步數計數器
type Counter struct {
	n int
}

func NewCounter(n int) *Counter { return &Counter{n: n} }

func (c *Counter) Remaining() int { return c.n }

func (c *Counter) Consume() bool {
	if c.n <= 0 {
		return false
	}
	c.n--
	return true
}

func (c *Counter) Reset(n int) { c.n = n }

// Objectives 各色剩餘需消除數量
type Objectives map[board.GemType]int

// Hit 消除一顆 t 色寶石；回傳是否計入目標
func (o Objectives) Hit(t board.GemType) bool {
	n, ok := o[t]
	if !ok || n <= 0 {
		return false
	}
	o[t] = n - 1
	return true
}

// Done 所有目標皆達成 (空目標視為達成)
func (o Objectives) Done() bool {
	for _, n := range o {
		if n > 0 {
			return false
		}
	}
	return true
}

func (o Objectives) Clone() Objectives {
	out := make(Objectives, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
