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
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CI 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"Lo"`
	Hi float64 `json:"Hi" yaml:"Hi"`
}

// PointStat 點估計與 95% 信賴區間
type PointStat struct {
	Hat float64 `json:"Hat" yaml:"Hat"`
	CI  CI      `json:"CI"  yaml:"CI"`
}

// MetricReport 單一指標在所有局上的分布
type MetricReport struct {
	Mean   float64 `json:"Mean"   yaml:"Mean"`
	Std    float64 `json:"Std"    yaml:"Std"`
	MeanCI CI      `json:"MeanCI" yaml:"MeanCI"`
	Min    float64 `json:"Min"    yaml:"Min"`
	P10    float64 `json:"P10"    yaml:"P10"`
	P50    float64 `json:"P50"    yaml:"P50"`
	P90    float64 `json:"P90"    yaml:"P90"`
	Max    float64 `json:"Max"    yaml:"Max"`
}

// NewMetric 由樣本計算平均、標準差與分位數。樣本會被複製後排序
func NewMetric(samples []float64) *MetricReport {
	m := &MetricReport{}
	n := len(samples)
	if n == 0 {
		return m
	}
	xs := append([]float64(nil), samples...)
	sort.Float64s(xs)

	if n > 1 {
		m.Mean, m.Std = stat.MeanStdDev(xs, nil)
	} else {
		m.Mean = xs[0]
	}
	se := 0.0
	if n > 1 {
		se = m.Std / math.Sqrt(float64(n))
	}
	m.MeanCI = CI{Lo: m.Mean - 1.96*se, Hi: m.Mean + 1.96*se}
	m.Min, m.Max = xs[0], xs[n-1]
	m.P10 = stat.Quantile(0.10, stat.Empirical, xs, nil)
	m.P50 = stat.Quantile(0.50, stat.Empirical, xs, nil)
	m.P90 = stat.Quantile(0.90, stat.Empirical, xs, nil)
	return m
}

// ProportionCI k/n 的 Clopper-Pearson 精確信賴區間
func ProportionCI(k, n int, confidence float64) PointStat {
	if n == 0 {
		return PointStat{CI: CI{Lo: 0, Hi: 1}}
	}
	alpha := 1 - confidence
	p := PointStat{Hat: float64(k) / float64(n)}

	// Beta PPF 映射，處理邊界
	if k == 0 {
		p.CI.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		p.CI.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		p.CI.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		p.CI.Hi = b.Quantile(1 - alpha/2)
	}
	return p
}
