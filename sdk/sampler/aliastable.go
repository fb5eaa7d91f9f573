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

// Package sampler 提供寶石種類的加權抽樣。
//
// 本檔案實作 Vose's Alias Method (整數版)：
//   - 建表 O(N)，抽樣 O(1)。
//   - 全整數運算，避免浮點誤差 (0.999... != 1.0)。
//   - 權重總和與元素數相乘前先做溢位檢查。
package sampler

import (
	"math"
	"math/bits"

	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/core"
)

// AliasTable 加權抽樣表
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// BuildAliasTable 依權重建表；負權重、全為 0 或溢位時回傳 Warn 錯誤。
func BuildAliasTable(weights []int) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return nil, errs.NewWarn("alias table: empty weights")
	}
	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			return nil, errs.NewWarn("alias table: negative weight")
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			return nil, errs.NewWarn("alias table: total weight overflow")
		}
		total += uint64(w)
	}
	if total == 0 {
		return nil, errs.NewWarn("alias table: all weights are zero")
	}
	if !isSafeMultiply(int(total), n) {
		return nil, errs.NewWarn("alias table: weights too large")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, w := range weights {
		prob[i] = w * n // 整數 scaling，之後與 total 比較
		if prob[i] < int(total) {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l                           // s 的剩餘機率由 l 補上
		prob[l] = prob[l] + prob[s] - int(total) // 維持 sum(prob) = total * n
		if prob[l] < int(total) {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 剩餘槽位不需要別名
	for _, i := range large {
		prob[i] = int(total)
	}
	for _, i := range small {
		prob[i] = int(total)
	}

	return &AliasTable{
		Prob:    prob,
		Aliases: aliases,
		Size:    n,
		Total:   int(total),
	}, nil
}

// Uniform 等權重表
func Uniform(n int) *AliasTable {
	w := make([]int, n)
	for i := range w {
		w[i] = 1
	}
	at, _ := BuildAliasTable(w)
	return at
}

func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && (lo <= math.MaxInt64)
}

// Pick 抽一個索引，表為空回傳 -1。
//
// 先均勻選槽位 idx，再以 IntN(Total) < Prob[idx] 決定取自己或別名。
func (at *AliasTable) Pick(c *core.Core) int {
	if at == nil || at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
