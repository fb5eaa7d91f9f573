package corefmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/gemlab/sdk/board"
)

// RenderGrid 以等寬文字輸出盤面：大寫為普通寶石、小寫為炸彈、"." 為空，
// 有冰霜的格子在右側標上層數。frost 可為 nil。
func RenderGrid(g *board.Grid, frost *board.Frost) string {
	w, h := g.Width(), g.Height()
	rows := g.Rows()
	cells := make([][]string, h)
	width := 1
	for y, row := range rows {
		cells[y] = make([]string, w)
		for x, t := range row {
			s := t.Short()
			if gem, ok := g.At(x, y); ok && gem.Bomb {
				s = strings.ToLower(s)
			}
			if frost != nil {
				if lv := frost.Level(x, y); lv > 0 {
					s += "*" + itoa(lv)
				}
			}
			cells[y][x] = s
			width = max(width, runewidth.StringWidth(s))
		}
	}

	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			if x == w-1 {
				sb.WriteString(cells[y][x])
				continue
			}
			sb.WriteString(runewidth.FillRight(cells[y][x], width))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
