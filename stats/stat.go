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

// Package stats 模擬結果的統計報表與輸出。
package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/gemlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// Report 一批模擬局的統計報告
type Report struct {
	Summary   *SummaryReport `json:"Summary"             yaml:"Summary"`
	Score     *MetricReport  `json:"Score"               yaml:"Score"`
	MovesUsed *MetricReport  `json:"MovesUsed"           yaml:"MovesUsed"`
	Depth     *DistReport    `json:"Depth"               yaml:"Depth"`
	Ratio     *DistReport    `json:"Ratio,omitempty"     yaml:"Ratio,omitempty"`
	isDone    bool
}

type SummaryReport struct {
	Level       string    `json:"Level"       yaml:"Level"`
	LevelID     spec.LID  `json:"LevelID"     yaml:"LevelID"`
	Bot         string    `json:"Bot"         yaml:"Bot"`
	Games       int       `json:"Games"       yaml:"Games"`
	Moves       int       `json:"Moves"       yaml:"Moves"`
	TargetScore int64     `json:"TargetScore" yaml:"TargetScore"`
	Wins        int       `json:"Wins"        yaml:"Wins"`
	WinRate     PointStat `json:"WinRate"     yaml:"WinRate"`
	Swaps       int       `json:"Swaps"       yaml:"Swaps"`    // 被接受的交換
	Reverted    int       `json:"Reverted"    yaml:"Reverted"` // 沒有配對而換回
	Cascades    int       `json:"Cascades"    yaml:"Cascades"`
	AvgDepth    float64   `json:"AvgDepth"    yaml:"AvgDepth"`
	MaxDepth    int       `json:"MaxDepth"    yaml:"MaxDepth"`
	Cleared     int       `json:"Cleared"     yaml:"Cleared"`
	Bombs       int       `json:"Bombs"       yaml:"Bombs"`
	Detonations int       `json:"Detonations" yaml:"Detonations"`
	FrostCracks int       `json:"FrostCracks" yaml:"FrostCracks"`
	Shuffles    int       `json:"Shuffles"    yaml:"Shuffles"`
	Capped      int       `json:"Capped"      yaml:"Capped"` // 觸發連鎖上限的交換
	Stuck       int       `json:"Stuck"       yaml:"Stuck"`  // 無法繼續而提前結束的局
}

// DistReport 分桶落點統計
type DistReport struct {
	Bucket  []string  `json:"Bucket"  yaml:"Bucket"`
	Collect []int     `json:"Collect" yaml:"Collect"`
	Dist    []float64 `json:"Dist"    yaml:"Dist"`
}

// NewDist 以分桶建立空的落點統計
func NewDist(b *Bucket) *DistReport {
	return &DistReport{Bucket: b.Labels(), Collect: make([]int, b.Len())}
}

func (d *DistReport) done() {
	total := 0
	for _, c := range d.Collect {
		total += c
	}
	d.Dist = make([]float64, len(d.Collect))
	if total == 0 {
		return
	}
	for i, c := range d.Collect {
		d.Dist[i] = float64(c) / float64(total)
	}
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為比例並鎖定 isDone 標記，可重複呼叫
func (r *Report) Done() {
	if r.isDone {
		return
	}
	s := r.Summary
	s.WinRate = ProportionCI(s.Wins, s.Games, 0.95)
	if s.Swaps > 0 {
		s.AvgDepth = float64(s.Cascades) / float64(s.Swaps)
	}
	if r.Depth != nil {
		r.Depth.done()
	}
	if r.Ratio != nil {
		r.Ratio.done()
	}
	r.isDone = true
}

func (r *Report) WriteWith(w io.Writer, rep ReportRender) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 印出用時與摘要表
func (r *Report) StdOut(ut time.Duration) {
	r.Done()
	fmt.Print(formatDuration(ut, r.Summary.Games))
	keys, msg := r.fmtBasic()
	fmt.Println(fmtTable(r.Summary.Level, keys, msg))
}

// Table 摘要表字串
func (r *Report) Table() string {
	r.Done()
	keys, msg := r.fmtBasic()
	return fmtTable(r.Summary.Level, keys, msg)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, games int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	gps := int(float64(games) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\ngps : %d games/sec\n", sec, gps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\ngps : %d games/sec\n", m, s, gps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\ngps : %d games/sec\n", h, m, s, gps)
}

func (r *Report) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	basic := map[string]string{
		"Level":       s.Level,
		"Level ID":    fmt.Sprintf("%d", s.LevelID),
		"Bot":         s.Bot,
		"Games":       p.Sprintf("%d", s.Games),
		"Win Rate":    p.Sprintf("%.2f %% [%.2f%%,%.2f%%]", 100*s.WinRate.Hat, 100*s.WinRate.CI.Lo, 100*s.WinRate.CI.Hi),
		"Score Mean":  p.Sprintf("%.1f ± %.1f", r.Score.Mean, r.Score.Std),
		"Score P50":   p.Sprintf("%.0f", r.Score.P50),
		"Score Max":   p.Sprintf("%.0f", r.Score.Max),
		"Moves Used":  p.Sprintf("%.2f", r.MovesUsed.Mean),
		"Swaps":       p.Sprintf("%d", s.Swaps),
		"Reverted":    p.Sprintf("%d", s.Reverted),
		"Avg Depth":   p.Sprintf("%.3f", s.AvgDepth),
		"Max Depth":   p.Sprintf("%d", s.MaxDepth),
		"Cleared":     p.Sprintf("%d", s.Cleared),
		"Bombs":       p.Sprintf("%d", s.Bombs),
		"Detonations": p.Sprintf("%d", s.Detonations),
		"Frost Crack": p.Sprintf("%d", s.FrostCracks),
		"Shuffles":    p.Sprintf("%d", s.Shuffles),
	}
	keys := []string{"Level", "Level ID", "Bot", "Games", "Win Rate", "Score Mean", "Score P50", "Score Max",
		"Moves Used", "Swaps", "Reverted", "Avg Depth", "Max Depth", "Cleared", "Bombs", "Detonations", "Frost Crack", "Shuffles"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := max((totalInner-titleW)/2, 0)
	right := max(totalInner-titleW-left, 0)

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s | %s |\n",
			runewidth.FillRight(k, maxKeyLen-2), runewidth.FillRight(msg[k], maxValLen-2)))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
