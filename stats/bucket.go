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

package stats

import (
	"fmt"
	"sort"
)

// Bucket 以遞增的下界把整數分桶，O(log n) 定位
type Bucket struct {
	bounds []int
	labels []string
}

// NewBucket bounds 為各桶下界 (嚴格遞增)；小於 bounds[0] 的值歸入第一桶，最後一桶無上界
func NewBucket(bounds ...int) *Bucket {
	b := &Bucket{bounds: append([]int(nil), bounds...), labels: make([]string, len(bounds))}
	for i, lo := range bounds {
		switch {
		case i == len(bounds)-1:
			b.labels[i] = fmt.Sprintf("%d+", lo)
		case bounds[i+1]-lo == 1:
			b.labels[i] = fmt.Sprintf("%d", lo)
		default:
			b.labels[i] = fmt.Sprintf("[%d,%d)", lo, bounds[i+1])
		}
	}
	return b
}

func (b *Bucket) Len() int { return len(b.bounds) }

// Labels 各桶標籤
func (b *Bucket) Labels() []string { return b.labels }

// Index v 落在哪一桶
func (b *Bucket) Index(v int) int {
	i := sort.SearchInts(b.bounds, v+1) - 1
	return max(i, 0)
}

// Buckets 預設分桶，請勿修改
//   - Depth: 每次被接受的交換的連鎖層數
//   - Ratio: 最終分數 / 目標分數 (百分比)
var Buckets = struct {
	Depth *Bucket
	Ratio *Bucket
}{
	Depth: NewBucket(1, 2, 3, 4, 5, 6, 10),
	Ratio: NewBucket(0, 25, 50, 75, 100, 150, 200, 300),
}
