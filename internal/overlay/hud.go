package overlay

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"deskpets/internal/monitor"
)

// basicfont.Face7x13 每行高 13 像素，基线在 11
const (
	hudLineHeight = 13
	hudBaseline   = 11
)

var hudColor = color.RGBA{0, 255, 0, 255}

// hudLines 左上角显示的文字
func hudLines(s monitor.Stats, pets int, live int64) []string {
	return []string{
		fmt.Sprintf("CPU: %.1f%%  MEM: %.1f%%", s.CPU, s.Mem),
		fmt.Sprintf("RSS: %.1f MiB", float64(s.RSS)/(1<<20)),
		fmt.Sprintf("PETS: %d  FRAMES: %d", pets, live),
	}
}

func (d *Desktop) drawHUD(screen *ebiten.Image, pets int) {
	var s monitor.Stats
	if d.mon != nil {
		s = d.mon.Stats()
	}
	for i, line := range hudLines(s, pets, d.Live()) {
		text.Draw(screen, line, basicfont.Face7x13, 4, hudBaseline+i*hudLineHeight, hudColor)
	}
}
