package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/analysis"
	"github.com/google/uuid"
)

// TextRenderer draws charts as plain text: horizontal bars for categorical
// tallies, a sparkline for numeric series and a character grid for
// correlation scatters.
type TextRenderer struct {
	W io.Writer
	// Width is the bar and grid width in characters; 0 means 40.
	Width int
}

type textInstance struct{ id string }

func (i textInstance) ID() string     { return i.id }
func (i textInstance) Destroy() error { return nil }

func (r TextRenderer) Render(s *Spec) (Instance, error) {
	width := r.Width
	if width <= 0 {
		width = 40
	}
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n")
	switch s.Kind {
	case Bar, Pie:
		writeBars(&b, s, width)
	case Line:
		writeSparkline(&b, s.Points)
	default:
		writeGrid(&b, s.Points, width, 12)
	}
	if _, err := io.WriteString(r.W, b.String()); err != nil {
		return nil, err
	}
	return textInstance{id: uuid.NewString()}, nil
}

func writeBars(b *strings.Builder, s *Spec, width int) {
	maxCount, labelW, total := 0, 0, 0
	for i, l := range s.Labels {
		if s.Counts[i] > maxCount {
			maxCount = s.Counts[i]
		}
		if n := len([]rune(l)); n > labelW {
			labelW = n
		}
		total += s.Counts[i]
	}
	if labelW > 24 {
		labelW = 24
	}
	for i, l := range s.Labels {
		n := 0
		if maxCount > 0 {
			n = int(math.Round(float64(s.Counts[i]) * float64(width) / float64(maxCount)))
		}
		suffix := fmt.Sprint(s.Counts[i])
		if s.Kind == Pie && total > 0 {
			suffix = fmt.Sprintf("%d (%.1f%%)", s.Counts[i], float64(s.Counts[i])*100/float64(total))
		}
		fmt.Fprintf(b, "%-*s │%s %s\n", labelW, truncate(l, labelW), strings.Repeat("█", n), suffix)
	}
}

var sparks = []rune("▁▂▃▄▅▆▇█")

func writeSparkline(b *strings.Builder, pts []analysis.Point) {
	if len(pts) == 0 {
		b.WriteString("(no numeric values)\n")
		return
	}
	lo, hi := pts[0].Y, pts[0].Y
	for _, p := range pts {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	for _, p := range pts {
		i := 0
		if hi > lo {
			i = int((p.Y - lo) / (hi - lo) * float64(len(sparks)-1))
		}
		b.WriteRune(sparks[i])
	}
	fmt.Fprintf(b, "\nmin %s  max %s  n=%d\n", analysis.FormatNumber(lo), analysis.FormatNumber(hi), len(pts))
}

func writeGrid(b *strings.Builder, pts []analysis.Point, width, height int) {
	if len(pts) == 0 {
		b.WriteString("(no points)\n")
		return
	}
	xlo, xhi, ylo, yhi := pts[0].X, pts[0].X, pts[0].Y, pts[0].Y
	for _, p := range pts {
		xlo, xhi = math.Min(xlo, p.X), math.Max(xhi, p.X)
		ylo, yhi = math.Min(ylo, p.Y), math.Max(yhi, p.Y)
	}
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	scale := func(v, lo, hi float64, n int) int {
		if hi <= lo {
			return 0
		}
		return int((v - lo) / (hi - lo) * float64(n-1))
	}
	for _, p := range pts {
		col := scale(p.X, xlo, xhi, width)
		row := height - 1 - scale(p.Y, ylo, yhi, height)
		grid[row][col] = '•'
	}
	for _, line := range grid {
		b.WriteString("│")
		b.WriteString(string(line))
		b.WriteString("\n")
	}
	b.WriteString("└")
	b.WriteString(strings.Repeat("─", width))
	fmt.Fprintf(b, "\nx %s..%s  y %s..%s  n=%d\n",
		analysis.FormatNumber(xlo), analysis.FormatNumber(xhi),
		analysis.FormatNumber(ylo), analysis.FormatNumber(yhi), len(pts))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
