package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/roadmap/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// barBlocks fills ratio of width cells, rounding down.
func barBlocks(ratio float64, width int) string {
	ratio = min(max(ratio, 0), 1)
	if width < 2 {
		width = 2
	}
	filled := int(ratio*float64(width) + 1e-9)
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// RenderProgress renders an aggregate like [████░░░░]  40%  2/5.
func RenderProgress(a domain.Aggregate, width int) string {
	bar := PctStyle(a.Pct).Render(barBlocks(a.Ratio(), width))
	return fmt.Sprintf("[%s] %3d%%  %s", bar, a.Pct, Dim(fmt.Sprintf("%d/%d", a.Done, a.Total)))
}

// RenderCompactBar renders just the blocks, without brackets or text. A dimmed
// bar is used for unfocused panes.
func RenderCompactBar(pct, width int, dim bool) string {
	blocks := barBlocks(float64(pct)/100, width)
	if dim {
		return blocks
	}
	return PctStyle(pct).Render(blocks)
}
