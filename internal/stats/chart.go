package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	defaultChartHeight = 8
	minChartWidth      = 10
	fallbackTermWidth  = 80
	chartAxisWidth     = 8
	chartSeparator     = " │ "
)

var chartStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

// ChartWidthFor returns the plot width that fits a terminal of totalWidth
// cells next to the axis labels.
func ChartWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = fallbackTermWidth
	}
	width := totalWidth - chartAxisWidth - len([]rune(chartSeparator))
	if width < minChartWidth {
		width = minChartWidth
	}
	return width
}

// TerminalWidth returns the width of the terminal behind f, or a fallback.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

// UseColor reports whether w is a terminal that accepts color.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Chart draws values as a braille line chart with min and max labels.
func Chart(w io.Writer, title string, values []float64, width, height int, color bool) error {
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	if width < minChartWidth {
		width = minChartWidth
	}
	points := resample(values, width)
	minVal, maxVal := bounds(points)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}

	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	dotRows := height * 4
	prevX, prevY := -1, -1
	for x, v := range points {
		pos := (v - minVal) / (maxVal - minVal)
		y := int(math.Round((1 - pos) * float64(dotRows-1)))
		px := x * 2
		if prevX < 0 {
			setDot(cells, px, y)
		} else {
			line(prevX, prevY, px, y, func(dx, dy int) { setDot(cells, dx, dy) })
		}
		prevX, prevY = px, y
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y, row := range cells {
		label := ""
		switch y {
		case 0:
			label = fmt.Sprintf("%.0f", maxVal)
		case height - 1:
			label = fmt.Sprintf("%.0f", minVal)
		}
		var b strings.Builder
		for _, mask := range row {
			b.WriteRune(rune(0x2800 + int(mask)))
		}
		plot := b.String()
		if color {
			plot = chartStyle.Render(plot)
		}
		if _, err := fmt.Fprintf(w, "%*s%s%s\n", chartAxisWidth, label, chartSeparator, plot); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// resample averages buckets when shrinking and interpolates when stretching.
func resample(values []float64, width int) []float64 {
	n := len(values)
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// line walks a Bresenham line between two dot coordinates.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Braille cells are 2 dots wide and 4 tall.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= dotBits[y%4][x%2]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
