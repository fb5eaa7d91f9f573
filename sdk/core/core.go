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

package core

import (
	"crypto/rand"
	"math"
	"math/big"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：相同實作下 New(seed) 必須是決定性的，相同 seed 產生相同序列。
// 盤面生成、補盤、洗牌全部走同一顆 PRNG，因此一局遊戲可以用 seed 完整重播。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 預設工廠 (PCG64)
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供遊戲端常用的取樣工具。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewSeeded 以預設 PCG64 與指定 seed 建立 Core
func NewSeeded(seed int64) *Core {
	return New(Default().New(seed))
}

// RandomSeed 來自 crypto/rand 的非負 seed，外部未指定 seed 時使用
func RandomSeed() int64 {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 1
	}
	return seed.Int64()
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}

// Shuffle 以 Fisher-Yates 對長度 n 的序列就地重排，交換動作交給 swap。
//
// 每種排列出現機率相同 (1/n!)，時間 O(n)，不配置記憶體。
func (c *Core) Shuffle(n int, swap func(i, j int)) {
	if n <= 1 {
		return
	}
	for i := n - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		swap(i, j)
	}
}

// ShuffleInts 就地重排 []int
func (c *Core) ShuffleInts(src []int) {
	c.Shuffle(len(src), func(i, j int) { src[i], src[j] = src[j], src[i] })
}
