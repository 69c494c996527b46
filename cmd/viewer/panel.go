package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/battle-report/internal/phase"
	"github.com/Garsondee/battle-report/internal/reporttext"
)

const (
	panelWidth  = 720
	panelHeight = 480
	lineHeight  = 15
	titleHeight = 20
	textLeft    = 12
)

var (
	face = text.NewGoXFace(basicfont.Face7x13)

	panelBG   = color.RGBA{R: 10, G: 12, B: 10, A: 248}
	titleBG   = color.RGBA{R: 20, G: 30, B: 20, A: 255}
	separator = color.RGBA{R: 50, G: 80, B: 50, A: 200}
	debugBG   = color.RGBA{R: 40, G: 30, B: 20, A: 160}
	linkDot   = color.RGBA{R: 210, G: 190, B: 90, A: 255}
	textCol   = color.RGBA{R: 220, G: 225, B: 220, A: 255}
	maskCol   = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// view is one recipient's rendered log split into display lines.
type view struct {
	rendered phase.Rendered
	lines    []reporttext.Line
}

// Viewer is an ebiten game showing one recipient's phase log at a time.
// Tab cycles recipients, arrows and the wheel scroll.
type Viewer struct {
	phaseName string
	views     []view
	current   int
	scroll    int

	prevKeys map[ebiten.Key]bool
}

// NewViewer builds a viewer over already rendered logs.
func NewViewer(phaseName string, rendered []phase.Rendered) *Viewer {
	v := &Viewer{phaseName: phaseName, prevKeys: make(map[ebiten.Key]bool)}
	for _, r := range rendered {
		v.views = append(v.views, view{rendered: r, lines: reporttext.Plain(r.Text)})
	}
	return v
}

func (v *Viewer) pressed(k ebiten.Key, cur map[ebiten.Key]bool) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !v.prevKeys[k]
}

// Update handles input.
func (v *Viewer) Update() error {
	cur := map[ebiten.Key]bool{}
	if v.pressed(ebiten.KeyTab, cur) && len(v.views) > 0 {
		v.current = (v.current + 1) % len(v.views)
		v.scroll = 0
	}
	if v.pressed(ebiten.KeyArrowDown, cur) {
		v.scroll++
	}
	if v.pressed(ebiten.KeyArrowUp, cur) {
		v.scroll--
	}
	_, wy := ebiten.Wheel()
	if wy > 0 {
		v.scroll--
	} else if wy < 0 {
		v.scroll++
	}
	v.prevKeys = cur
	v.clampScroll()
	return nil
}

func (v *Viewer) clampScroll() {
	if len(v.views) == 0 {
		v.scroll = 0
		return
	}
	maxScroll := len(v.views[v.current].lines) - v.visibleLines()
	if v.scroll > maxScroll {
		v.scroll = maxScroll
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}

func (v *Viewer) visibleLines() int {
	return (panelHeight - titleHeight - 8) / lineHeight
}

// Draw renders the log panel.
func (v *Viewer) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, panelWidth, panelHeight, panelBG, false)
	vector.FillRect(screen, 0, 0, panelWidth, titleHeight, titleBG, false)
	vector.StrokeLine(screen, 0, titleHeight, panelWidth, titleHeight, 1.0, separator, false)

	if len(v.views) == 0 {
		drawText(screen, "no recipients", textLeft, 4, textCol)
		return
	}
	cur := v.views[v.current]
	title := fmt.Sprintf("%s - %s  (%d/%d, Tab to switch)  delivered=%d redacted=%d failed=%d",
		v.phaseName, cur.rendered.Recipient.Name, v.current+1, len(v.views),
		cur.rendered.Delivered, cur.rendered.Redacted, cur.rendered.Failed)
	drawText(screen, title, textLeft, 4, textCol)

	y := titleHeight + 4
	end := min(v.scroll+v.visibleLines(), len(cur.lines))
	for _, l := range cur.lines[v.scroll:end] {
		if l.Debug {
			vector.FillRect(screen, 2, float32(y), panelWidth-4, lineHeight, debugBG, false)
		}
		if len(l.Entities) > 0 {
			vector.FillRect(screen, 5, float32(y+5), 3, 5, linkDot, false)
		}
		col := textCol
		if strings.Contains(l.Text, reporttext.MaskToken) {
			col = maskCol
		}
		drawText(screen, l.Text, textLeft, y, col)
		y += lineHeight
	}
}

// Layout returns the fixed panel size.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return panelWidth, panelHeight
}

func drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}
