//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"tether/internal/game"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const boardRows = 10

// DrawGameOver paints the end-of-run panel centred on the play area.
func DrawGameOver(screen *ebiten.Image, area game.Area, res game.Result, board Board, notation, self string) {
	face := basicfont.Face7x13
	rows := board.Lines(notation, self, boardRows)
	w := float32(320)
	h := float32(150 + len(rows)*lineSpacing)
	x := float32((area.MinX+area.MaxX)/2) - w/2
	y := float32(area.Floor()/2) - h/2
	vector.DrawFilledRect(screen, x, y, w, h, color.RGBA{R: 0x09, G: 0x09, B: 0x0b, A: 0xe6}, false)
	vector.StrokeRect(screen, x, y, w, h, 1, edgeColor, false)

	cx := int(x + w/2)
	line := int(y) + 28
	centre := func(s string, c color.Color) {
		text.Draw(screen, s, face, cx-text.BoundString(face, s).Dx()/2, line, c)
		line += 18
	}

	title := "TIME UP"
	if res.Reason == game.EndTetherBroken {
		title = "TETHER SNAPPED"
	}
	centre(title, color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff})
	centre(FormatScore(res.Score, notation), valueColor)
	centre(fmt.Sprintf("BEST COMBO %d  HITS %d", res.BestCombo, res.Hits), dimColor)
	centre(board.Status(), dimColor)
	for _, row := range rows {
		text.Draw(screen, row, face, int(x)+panelPadding, line, valueColor)
		line += lineSpacing
	}
	line += 6
	centre("PRESS R OR ENTER TO RESTART", titleColor)
}
